package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/tunebridge/tunebridge/internal/domain"
)

const (
	perPage = 50
	perms   = "basic_access,manage_library,offline_access"
)

// Provider implements ports.MusicProvider for Deezer. Deezer's OAuth flow
// is not standard OAuth2: the token endpoint takes app_id/secret/code as query
// parameters and the access token rides on every API call as a query
// parameter rather than a header.
type Provider struct {
	client      *http.Client
	appID       string
	appSecret   string
	redirectURL string
	authBase    string
	baseURL     string
}

// NewProvider creates a new Deezer provider with the given HTTP client and
// application credentials. If client is nil, http.DefaultClient is used.
func NewProvider(client *http.Client, appID, appSecret, redirectURL string) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		client:      client,
		appID:       appID,
		appSecret:   appSecret,
		redirectURL: redirectURL,
		authBase:    "https://connect.deezer.com/oauth",
		baseURL:     "https://api.deezer.com",
	}
}

func (p *Provider) Name() string {
	return "deezer"
}

func (p *Provider) DisplayName() string {
	return "Deezer"
}

func (p *Provider) AuthURL(state string) string {
	return fmt.Sprintf("%s/auth.php?app_id=%s&redirect_uri=%s&perms=%s&state=%s",
		p.authBase, p.appID, url.QueryEscape(p.redirectURL), perms, state)
}

func (p *Provider) HandleCallback(ctx context.Context, code string) (*domain.TokenData, error) {
	endpoint := fmt.Sprintf("%s/access_token.php?app_id=%s&secret=%s&code=%s&output=json",
		p.authBase, p.appID, p.appSecret, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deezer: token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deezer auth returned status %d: %s", resp.StatusCode, string(body))
	}

	var auth struct {
		AccessToken string `json:"access_token"`
		Expires     int    `json:"expires"`
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("deezer: failed to parse auth response: %w", err)
	}
	if auth.AccessToken == "" {
		return nil, fmt.Errorf("deezer: auth code rejected")
	}

	token := &domain.TokenData{AccessToken: auth.AccessToken}
	if auth.Expires > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(auth.Expires) * time.Second)
	}
	return token, nil
}

// -- API response types (internal) ------------------------------------------

type listResponse[T any] struct {
	Data  []T    `json:"data"`
	Next  string `json:"next"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

type playlistData struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	NbTracks    int         `json:"nb_tracks"`
	Picture     string      `json:"picture_medium"`
}

type trackData struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	ISRC     string      `json:"isrc"`
	Duration int         `json:"duration"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title string `json:"title"`
	} `json:"album"`
	Error *struct {
		Code int `json:"code"`
	} `json:"error"`
}

// -- MusicProvider implementation --------------------------------------------

func (p *Provider) GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	endpoint := fmt.Sprintf("%s/user/me/playlists?access_token=%s&limit=%d", p.baseURL, url.QueryEscape(token), perPage)

	for endpoint != "" {
		body, err := p.doGet(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("deezer: failed to get playlists: %w", err)
		}

		var resp listResponse[playlistData]
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("deezer: failed to parse playlists response: %w", err)
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("deezer API error %d: %s", resp.Error.Code, resp.Error.Message)
		}

		for _, item := range resp.Data {
			playlists = append(playlists, domain.Playlist{
				ID:          item.ID.String(),
				Name:        item.Title,
				Description: item.Description,
				TrackCount:  item.NbTracks,
				ImageURL:    item.Picture,
			})
		}

		endpoint = resp.Next
	}

	return playlists, nil
}

func (p *Provider) GetPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.Track, error) {
	var tracks []domain.Track
	endpoint := fmt.Sprintf("%s/playlist/%s/tracks?access_token=%s&limit=%d", p.baseURL, playlistID, url.QueryEscape(token), perPage)

	for endpoint != "" {
		body, err := p.doGet(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("deezer: failed to get playlist tracks: %w", err)
		}

		var resp listResponse[trackData]
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("deezer: failed to parse tracks response: %w", err)
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("deezer API error %d: %s", resp.Error.Code, resp.Error.Message)
		}

		for _, item := range resp.Data {
			tracks = append(tracks, toTrack(item))
		}

		endpoint = resp.Next
	}

	return tracks, nil
}

func (p *Provider) SearchTrack(ctx context.Context, token string, track domain.Track) (*domain.Track, error) {
	// Deezer exposes a direct ISRC lookup; use it when we can.
	if track.ISRC != "" {
		result, err := p.lookupByISRC(ctx, token, track.ISRC)
		if err == nil && result != nil {
			return result, nil
		}
	}

	query := fmt.Sprintf(`artist:"%s" track:"%s"`, track.Artist, track.Name)
	endpoint := fmt.Sprintf("%s/search/track?access_token=%s&q=%s", p.baseURL, url.QueryEscape(token), url.QueryEscape(query))

	body, err := p.doGet(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("deezer: search failed: %w", err)
	}

	var resp listResponse[trackData]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("deezer: failed to parse search response: %w", err)
	}
	if resp.Error != nil || len(resp.Data) == 0 {
		return nil, nil
	}

	matched := toTrack(resp.Data[0])
	return &matched, nil
}

func (p *Provider) lookupByISRC(ctx context.Context, token string, isrc string) (*domain.Track, error) {
	endpoint := fmt.Sprintf("%s/track/isrc:%s?access_token=%s", p.baseURL, url.QueryEscape(isrc), url.QueryEscape(token))

	body, err := p.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var t trackData
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, err
	}
	if t.Error != nil || t.ID.String() == "" {
		return nil, nil
	}

	matched := toTrack(t)
	return &matched, nil
}

func (p *Provider) CreatePlaylist(ctx context.Context, token string, name string, description string) (string, error) {
	endpoint := fmt.Sprintf("%s/user/me/playlists?access_token=%s&title=%s", p.baseURL, url.QueryEscape(token), url.QueryEscape(name))

	body, err := p.doPost(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("deezer: failed to create playlist: %w", err)
	}

	var resp struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("deezer: failed to parse create playlist response: %w", err)
	}
	if resp.ID.String() == "" {
		return "", fmt.Errorf("deezer: playlist creation rejected: %s", string(body))
	}

	if description != "" {
		// Description is a separate update call; a failure here is not fatal.
		updateEndpoint := fmt.Sprintf("%s/playlist/%s?access_token=%s&description=%s",
			p.baseURL, resp.ID.String(), url.QueryEscape(token), url.QueryEscape(description))
		_, _ = p.doPost(ctx, updateEndpoint)
	}

	return resp.ID.String(), nil
}

// AddTracks adds all tracks with one songs= call per batch of 50. A
// rejected batch counts its tracks as failed and later batches are still
// attempted.
func (p *Provider) AddTracks(ctx context.Context, token string, playlistID string, tracks []domain.Track) (domain.AddResult, error) {
	var result domain.AddResult
	if len(tracks) == 0 {
		return result, nil
	}

	for i := 0; i < len(tracks); i += perPage {
		end := i + perPage
		if end > len(tracks) {
			end = len(tracks)
		}
		batch := tracks[i:end]

		songs := strings.Join(lo.Map(batch, func(t domain.Track, _ int) string {
			return t.ID
		}), ",")

		endpoint := fmt.Sprintf("%s/playlist/%s/tracks?access_token=%s&songs=%s",
			p.baseURL, playlistID, url.QueryEscape(token), url.QueryEscape(songs))

		if _, err := p.doPost(ctx, endpoint); err != nil {
			result.Failed += len(batch)
			continue
		}
		result.Added += len(batch)
	}

	return result, nil
}

// -- HTTP helpers ------------------------------------------------------------

func (p *Provider) doGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

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
		return nil, fmt.Errorf("deezer API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func (p *Provider) doPost(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}

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
		return nil, fmt.Errorf("deezer API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

func toTrack(t trackData) domain.Track {
	return domain.Track{
		ID:         t.ID.String(),
		Name:       t.Title,
		Artist:     t.Artist.Name,
		Album:      t.Album.Title,
		DurationMS: t.Duration * 1000,
		ISRC:       t.ISRC,
	}
}
