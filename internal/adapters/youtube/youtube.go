package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/tunebridge/tunebridge/internal/domain"
)

const (
	authURL    = "https://accounts.google.com/o/oauth2/auth"
	tokenURL   = "https://oauth2.googleapis.com/token"
	maxResults = 50
)

var scopes = []string{
	"https://www.googleapis.com/auth/youtube",
}

// Provider implements ports.MusicProvider for YouTube Music using the Data
// API v3. YouTube has no ISRC index, so matching is free-text only and the
// track/artist split is parsed from video titles heuristically.
type Provider struct {
	client  *http.Client
	oauth   *oauth2.Config
	baseURL string
}

// NewProvider creates a new YouTube provider with the given HTTP client and
// Google OAuth application credentials. If client is nil,
// http.DefaultClient is used.
func NewProvider(client *http.Client, clientID, clientSecret, redirectURL string) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		client: client,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		baseURL: "https://www.googleapis.com/youtube/v3",
	}
}

func (p *Provider) Name() string {
	return "youtube"
}

func (p *Provider) DisplayName() string {
	return "YouTube Music"
}

func (p *Provider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *Provider) HandleCallback(ctx context.Context, code string) (*domain.TokenData, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("youtube: token exchange failed: %w", err)
	}
	return &domain.TokenData{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// -- API response types (internal) ------------------------------------------

type playlistListResponse struct {
	Items         []playlistResource `json:"items"`
	NextPageToken string             `json:"nextPageToken"`
}

type playlistResource struct {
	ID             string          `json:"id"`
	Snippet        playlistSnippet `json:"snippet"`
	ContentDetails struct {
		ItemCount int `json:"itemCount"`
	} `json:"contentDetails"`
}

type playlistSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnails  struct {
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
}

type playlistItemsResponse struct {
	Items         []playlistItemResource `json:"items"`
	NextPageToken string                 `json:"nextPageToken"`
}

type playlistItemResource struct {
	Snippet playlistItemSnippet `json:"snippet"`
}

type playlistItemSnippet struct {
	Title                  string     `json:"title"`
	VideoOwnerChannelTitle string     `json:"videoOwnerChannelTitle"`
	ResourceID             resourceID `json:"resourceId"`
}

type resourceID struct {
	VideoID string `json:"videoId"`
}

type searchListResponse struct {
	Items []searchResult `json:"items"`
}

type searchResult struct {
	ID      searchResultID `json:"id"`
	Snippet searchSnippet  `json:"snippet"`
}

type searchResultID struct {
	VideoID string `json:"videoId"`
}

type searchSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// -- MusicProvider implementation --------------------------------------------

func (p *Provider) GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	pageToken := ""

	for {
		endpoint := fmt.Sprintf(
			"%s/playlists?part=snippet,contentDetails&mine=true&maxResults=%d",
			p.baseURL, maxResults,
		)
		if pageToken != "" {
			endpoint += "&pageToken=" + pageToken
		}

		body, err := p.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("youtube: failed to get playlists: %w", err)
		}

		var resp playlistListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("youtube: failed to parse playlists response: %w", err)
		}

		for _, item := range resp.Items {
			playlists = append(playlists, domain.Playlist{
				ID:          item.ID,
				Name:        item.Snippet.Title,
				Description: item.Snippet.Description,
				TrackCount:  item.ContentDetails.ItemCount,
				ImageURL:    item.Snippet.Thumbnails.Default.URL,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return playlists, nil
}

func (p *Provider) GetPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.Track, error) {
	var tracks []domain.Track
	pageToken := ""

	for {
		endpoint := fmt.Sprintf(
			"%s/playlistItems?part=snippet&playlistId=%s&maxResults=%d",
			p.baseURL, playlistID, maxResults,
		)
		if pageToken != "" {
			endpoint += "&pageToken=" + pageToken
		}

		body, err := p.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("youtube: failed to get playlist items: %w", err)
		}

		var resp playlistItemsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("youtube: failed to parse playlist items response: %w", err)
		}

		for _, item := range resp.Items {
			if item.Snippet.ResourceID.VideoID == "" {
				continue
			}

			// YouTube playlist items only give us title and channel; we parse
			// the track name and artist from the video title heuristically.
			name, artist := parseVideoTitle(item.Snippet.Title)
			if name == "" {
				name = item.Snippet.Title
			}
			if artist == "" {
				artist = item.Snippet.VideoOwnerChannelTitle
			}

			tracks = append(tracks, domain.Track{
				ID:     item.Snippet.ResourceID.VideoID,
				Name:   name,
				Artist: artist,
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return tracks, nil
}

func (p *Provider) SearchTrack(ctx context.Context, token string, track domain.Track) (*domain.Track, error) {
	query := fmt.Sprintf("%s %s", track.Name, track.Artist)
	endpoint := fmt.Sprintf(
		"%s/search?part=snippet&type=video&videoCategoryId=10&maxResults=5&q=%s",
		p.baseURL, url.QueryEscape(query),
	)

	body, err := p.doGet(ctx, token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("youtube: search failed: %w", err)
	}

	var resp searchListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("youtube: failed to parse search response: %w", err)
	}

	if len(resp.Items) == 0 {
		return nil, nil
	}

	best := resp.Items[0]
	return &domain.Track{
		ID:     best.ID.VideoID,
		Name:   best.Snippet.Title,
		Artist: best.Snippet.ChannelTitle,
	}, nil
}

func (p *Provider) CreatePlaylist(ctx context.Context, token string, name string, description string) (string, error) {
	payload := map[string]interface{}{
		"snippet": map[string]string{
			"title":       name,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": "private",
		},
	}
	payloadBytes, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/playlists?part=snippet,status", p.baseURL)
	body, err := p.doPost(ctx, token, endpoint, payloadBytes)
	if err != nil {
		return "", fmt.Errorf("youtube: failed to create playlist: %w", err)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("youtube: failed to parse create playlist response: %w", err)
	}

	return resp.ID, nil
}

// AddTracks inserts videos one at a time via playlistItems.insert, counting
// per-item rejections instead of aborting.
func (p *Provider) AddTracks(ctx context.Context, token string, playlistID string, tracks []domain.Track) (domain.AddResult, error) {
	var result domain.AddResult
	if len(tracks) == 0 {
		return result, nil
	}

	endpoint := fmt.Sprintf("%s/playlistItems?part=snippet", p.baseURL)

	for _, track := range tracks {
		payload := map[string]interface{}{
			"snippet": map[string]interface{}{
				"playlistId": playlistID,
				"resourceId": map[string]string{
					"kind":    "youtube#video",
					"videoId": track.ID,
				},
			},
		}
		payloadBytes, _ := json.Marshal(payload)

		if _, err := p.doPost(ctx, token, endpoint, payloadBytes); err != nil {
			result.Failed++
			continue
		}
		result.Added++
	}

	return result, nil
}

// -- HTTP helpers ------------------------------------------------------------

func (p *Provider) doGet(ctx context.Context, token string, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func (p *Provider) doPost(ctx context.Context, token string, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("youtube API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

// parseVideoTitle attempts to split a YouTube video title into track name and
// artist. Common formats: "Artist - Track", "Artist - Track (Official Video)".
func parseVideoTitle(title string) (name, artist string) {
	// Remove common suffixes
	suffixes := []string{
		"(Official Video)", "(Official Music Video)", "(Official Audio)",
		"(Lyric Video)", "(Lyrics)", "(Audio)", "[Official Video]",
		"[Official Music Video]", "[Official Audio]", "(HD)", "(HQ)",
	}
	cleaned := title
	for _, suffix := range suffixes {
		cleaned = strings.TrimSpace(strings.Replace(cleaned, suffix, "", 1))
	}

	// Split on " - " separator
	parts := strings.SplitN(cleaned, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
	}

	return cleaned, ""
}
