package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/oauth2"

	"github.com/tunebridge/tunebridge/internal/domain"
)

const (
	authURL    = "https://accounts.spotify.com/authorize"
	tokenURL   = "https://accounts.spotify.com/api/token"
	maxPerPage = 50
	maxBatch   = 100
)

var scopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-private",
	"playlist-modify-public",
}

// Provider implements ports.MusicProvider for Spotify using the Web API.
type Provider struct {
	client  *http.Client
	oauth   *oauth2.Config
	baseURL string
}

// NewProvider creates a new Spotify provider with the given HTTP client and
// OAuth application credentials. If client is nil, http.DefaultClient is
// used.
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
		baseURL: "https://api.spotify.com/v1",
	}
}

func (p *Provider) Name() string {
	return "spotify"
}

func (p *Provider) DisplayName() string {
	return "Spotify"
}

func (p *Provider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *Provider) HandleCallback(ctx context.Context, code string) (*domain.TokenData, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("spotify: token exchange failed: %w", err)
	}
	return &domain.TokenData{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// -- API response types (internal) ------------------------------------------

type playlistsResponse struct {
	Items []playlistItem `json:"items"`
	Next  string         `json:"next"`
	Total int            `json:"total"`
}

type playlistItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Images      []imageData `json:"images"`
	Tracks      trackRef    `json:"tracks"`
}

type imageData struct {
	URL string `json:"url"`
}

type trackRef struct {
	Total int `json:"total"`
}

type tracksResponse struct {
	Items []trackItem `json:"items"`
	Next  string      `json:"next"`
}

type trackItem struct {
	Track trackData `json:"track"`
}

type trackData struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Artists     []artistData `json:"artists"`
	Album       albumData    `json:"album"`
	DurationMS  int          `json:"duration_ms"`
	ExternalIDs externalIDs  `json:"external_ids"`
}

type artistData struct {
	Name string `json:"name"`
}

type albumData struct {
	Name string `json:"name"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

type searchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

type searchTracks struct {
	Items []trackData `json:"items"`
}

type createPlaylistResponse struct {
	ID string `json:"id"`
}

// -- MusicProvider implementation --------------------------------------------

func (p *Provider) GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	endpoint := fmt.Sprintf("%s/me/playlists?limit=%d", p.baseURL, maxPerPage)

	for endpoint != "" {
		body, err := p.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("spotify: failed to get playlists: %w", err)
		}

		var resp playlistsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("spotify: failed to parse playlists response: %w", err)
		}

		for _, item := range resp.Items {
			pl := domain.Playlist{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				TrackCount:  item.Tracks.Total,
			}
			if len(item.Images) > 0 {
				pl.ImageURL = item.Images[0].URL
			}
			playlists = append(playlists, pl)
		}

		endpoint = resp.Next
	}

	return playlists, nil
}

func (p *Provider) GetPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.Track, error) {
	var tracks []domain.Track
	endpoint := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", p.baseURL, playlistID, maxPerPage)

	for endpoint != "" {
		body, err := p.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("spotify: failed to get playlist tracks: %w", err)
		}

		var resp tracksResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("spotify: failed to parse tracks response: %w", err)
		}

		for _, item := range resp.Items {
			if item.Track.ID == "" {
				continue // skip local or unavailable tracks
			}
			tracks = append(tracks, toTrack(item.Track))
		}

		endpoint = resp.Next
	}

	return tracks, nil
}

func (p *Provider) SearchTrack(ctx context.Context, token string, track domain.Track) (*domain.Track, error) {
	// Try ISRC-based search first for higher accuracy
	if track.ISRC != "" {
		result, err := p.searchByISRC(ctx, token, track)
		if err == nil && result != nil {
			return result, nil
		}
	}

	// Fallback to name + artist search
	query := fmt.Sprintf("track:%s artist:%s", track.Name, track.Artist)
	endpoint := fmt.Sprintf("%s/search?type=track&limit=5&q=%s", p.baseURL, url.QueryEscape(query))

	body, err := p.doGet(ctx, token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("spotify: search failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("spotify: failed to parse search response: %w", err)
	}

	if len(resp.Tracks.Items) == 0 {
		return nil, nil
	}

	matched := toTrack(resp.Tracks.Items[0])
	return &matched, nil
}

func (p *Provider) searchByISRC(ctx context.Context, token string, track domain.Track) (*domain.Track, error) {
	query := fmt.Sprintf("isrc:%s", track.ISRC)
	endpoint := fmt.Sprintf("%s/search?type=track&limit=1&q=%s", p.baseURL, url.QueryEscape(query))

	body, err := p.doGet(ctx, token, endpoint)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Tracks.Items) == 0 {
		return nil, nil
	}

	matched := toTrack(resp.Tracks.Items[0])
	return &matched, nil
}

func (p *Provider) CreatePlaylist(ctx context.Context, token string, name string, description string) (string, error) {
	// First, get the current user ID
	userBody, err := p.doGet(ctx, token, p.baseURL+"/me")
	if err != nil {
		return "", fmt.Errorf("spotify: failed to get current user: %w", err)
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(userBody, &user); err != nil {
		return "", fmt.Errorf("spotify: failed to parse user response: %w", err)
	}

	payload := map[string]interface{}{
		"name":        name,
		"description": description,
		"public":      false,
	}
	payloadBytes, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/users/%s/playlists", p.baseURL, user.ID)
	body, err := p.doPost(ctx, token, endpoint, payloadBytes)
	if err != nil {
		return "", fmt.Errorf("spotify: failed to create playlist: %w", err)
	}

	var resp createPlaylistResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("spotify: failed to parse create playlist response: %w", err)
	}

	return resp.ID, nil
}

// AddTracks adds tracks in batches of up to 100 URIs. A rejected batch
// counts its tracks as failed and the remaining batches are still
// attempted.
func (p *Provider) AddTracks(ctx context.Context, token string, playlistID string, tracks []domain.Track) (domain.AddResult, error) {
	var result domain.AddResult
	if len(tracks) == 0 {
		return result, nil
	}

	endpoint := fmt.Sprintf("%s/playlists/%s/tracks", p.baseURL, playlistID)

	for i := 0; i < len(tracks); i += maxBatch {
		end := i + maxBatch
		if end > len(tracks) {
			end = len(tracks)
		}
		batch := tracks[i:end]

		uris := lo.Map(batch, func(t domain.Track, _ int) string {
			return fmt.Sprintf("spotify:track:%s", t.ID)
		})

		payload := map[string]interface{}{
			"uris": uris,
		}
		payloadBytes, _ := json.Marshal(payload)

		if _, err := p.doPost(ctx, token, endpoint, payloadBytes); err != nil {
			result.Failed += len(batch)
			continue
		}
		result.Added += len(batch)
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
		return nil, fmt.Errorf("spotify API returned status %d: %s", resp.StatusCode, string(body))
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
		return nil, fmt.Errorf("spotify API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

func toTrack(t trackData) domain.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	return domain.Track{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     strings.Join(artists, ", "),
		Album:      t.Album.Name,
		DurationMS: t.DurationMS,
		ISRC:       t.ExternalIDs.ISRC,
	}
}
