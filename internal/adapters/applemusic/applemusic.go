package applemusic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"github.com/tunebridge/tunebridge/internal/domain"
)

const (
	storefront = "us"
	perPage    = 25
)

// Provider implements ports.MusicProvider for Apple Music. Requests carry
// two credentials: the app's developer token as the Bearer header and the
// user's Music User Token in the Music-User-Token header. The user token is
// minted client-side by MusicKit, so HandleCallback passes the received
// value through instead of calling a token endpoint.
type Provider struct {
	client         *http.Client
	developerToken string
	appID          string
	redirectURL    string
	baseURL        string
}

// NewProvider creates a new Apple Music provider with the given HTTP client,
// developer token and Sign in with Apple app credentials. If client is nil,
// http.DefaultClient is used.
func NewProvider(client *http.Client, developerToken, appID, redirectURL string) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		client:         client,
		developerToken: developerToken,
		appID:          appID,
		redirectURL:    redirectURL,
		baseURL:        "https://api.music.apple.com/v1",
	}
}

func (p *Provider) Name() string {
	return "applemusic"
}

func (p *Provider) DisplayName() string {
	return "Apple Music"
}

func (p *Provider) AuthURL(state string) string {
	return fmt.Sprintf(
		"https://appleid.apple.com/auth/authorize?client_id=%s&redirect_uri=%s&response_type=code&state=%s&response_mode=form_post",
		p.appID, url.QueryEscape(p.redirectURL), state,
	)
}

func (p *Provider) HandleCallback(_ context.Context, code string) (*domain.TokenData, error) {
	if code == "" {
		return nil, fmt.Errorf("applemusic: empty music user token")
	}
	return &domain.TokenData{AccessToken: code}, nil
}

// -- API response types (internal) ------------------------------------------

type libraryPlaylistsResponse struct {
	Data []libraryPlaylist `json:"data"`
	Next string            `json:"next"`
}

type libraryPlaylist struct {
	ID         string `json:"id"`
	Attributes struct {
		Name        string `json:"name"`
		Description struct {
			Standard string `json:"standard"`
		} `json:"description"`
		Artwork struct {
			URL string `json:"url"`
		} `json:"artwork"`
	} `json:"attributes"`
}

type libraryTracksResponse struct {
	Data []songData `json:"data"`
	Next string     `json:"next"`
}

type songData struct {
	ID         string `json:"id"`
	Attributes struct {
		Name             string `json:"name"`
		ArtistName       string `json:"artistName"`
		AlbumName        string `json:"albumName"`
		DurationInMillis int    `json:"durationInMillis"`
		ISRC             string `json:"isrc"`
		PlayParams       struct {
			CatalogID string `json:"catalogId"`
		} `json:"playParams"`
	} `json:"attributes"`
}

type searchResponse struct {
	Results struct {
		Songs struct {
			Data []songData `json:"data"`
		} `json:"songs"`
	} `json:"results"`
}

type songsResponse struct {
	Data []songData `json:"data"`
}

type createPlaylistResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// -- MusicProvider implementation --------------------------------------------

func (p *Provider) GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	endpoint := fmt.Sprintf("%s/me/library/playlists?limit=%d", p.baseURL, perPage)

	for endpoint != "" {
		body, err := p.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("applemusic: failed to get playlists: %w", err)
		}

		var resp libraryPlaylistsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("applemusic: failed to parse playlists response: %w", err)
		}

		for _, item := range resp.Data {
			playlists = append(playlists, domain.Playlist{
				ID:          item.ID,
				Name:        item.Attributes.Name,
				Description: item.Attributes.Description.Standard,
				ImageURL:    item.Attributes.Artwork.URL,
			})
		}

		endpoint = p.nextURL(resp.Next)
	}

	return playlists, nil
}

func (p *Provider) GetPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.Track, error) {
	var tracks []domain.Track
	endpoint := fmt.Sprintf("%s/me/library/playlists/%s/tracks?limit=%d", p.baseURL, playlistID, perPage)

	for endpoint != "" {
		body, err := p.doGet(ctx, token, endpoint)
		if err != nil {
			return nil, fmt.Errorf("applemusic: failed to get playlist tracks: %w", err)
		}

		var resp libraryTracksResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("applemusic: failed to parse tracks response: %w", err)
		}

		for _, item := range resp.Data {
			tracks = append(tracks, toTrack(item))
		}

		endpoint = p.nextURL(resp.Next)
	}

	return tracks, nil
}

func (p *Provider) SearchTrack(ctx context.Context, token string, track domain.Track) (*domain.Track, error) {
	// Catalog supports exact ISRC filtering; try that first.
	if track.ISRC != "" {
		result, err := p.lookupByISRC(ctx, token, track.ISRC)
		if err == nil && result != nil {
			return result, nil
		}
	}

	term := fmt.Sprintf("%s %s", track.Artist, track.Name)
	endpoint := fmt.Sprintf("%s/catalog/%s/search?types=songs&limit=5&term=%s",
		p.baseURL, storefront, url.QueryEscape(term))

	body, err := p.doGet(ctx, token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("applemusic: search failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("applemusic: failed to parse search response: %w", err)
	}

	if len(resp.Results.Songs.Data) == 0 {
		return nil, nil
	}

	matched := toTrack(resp.Results.Songs.Data[0])
	return &matched, nil
}

func (p *Provider) lookupByISRC(ctx context.Context, token string, isrc string) (*domain.Track, error) {
	endpoint := fmt.Sprintf("%s/catalog/%s/songs?filter[isrc]=%s", p.baseURL, storefront, url.QueryEscape(isrc))

	body, err := p.doGet(ctx, token, endpoint)
	if err != nil {
		return nil, err
	}

	var resp songsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	matched := toTrack(resp.Data[0])
	return &matched, nil
}

func (p *Provider) CreatePlaylist(ctx context.Context, token string, name string, description string) (string, error) {
	payload := map[string]interface{}{
		"attributes": map[string]string{
			"name":        name,
			"description": description,
		},
	}
	payloadBytes, _ := json.Marshal(payload)

	endpoint := p.baseURL + "/me/library/playlists"
	body, err := p.doPost(ctx, token, endpoint, payloadBytes)
	if err != nil {
		return "", fmt.Errorf("applemusic: failed to create playlist: %w", err)
	}

	var resp createPlaylistResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("applemusic: failed to parse create playlist response: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("applemusic: playlist creation rejected: %s", string(body))
	}

	return resp.Data[0].ID, nil
}

// AddTracks posts the whole batch of song references at once; a rejected
// call counts every track as failed rather than erroring.
func (p *Provider) AddTracks(ctx context.Context, token string, playlistID string, tracks []domain.Track) (domain.AddResult, error) {
	var result domain.AddResult
	if len(tracks) == 0 {
		return result, nil
	}

	refs := lo.Map(tracks, func(t domain.Track, _ int) map[string]string {
		return map[string]string{"id": t.ID, "type": "songs"}
	})
	payload := map[string]interface{}{"data": refs}
	payloadBytes, _ := json.Marshal(payload)

	endpoint := fmt.Sprintf("%s/me/library/playlists/%s/tracks", p.baseURL, playlistID)
	if _, err := p.doPost(ctx, token, endpoint, payloadBytes); err != nil {
		result.Failed = len(tracks)
		return result, nil
	}

	result.Added = len(tracks)
	return result, nil
}

// -- HTTP helpers ------------------------------------------------------------

func (p *Provider) doGet(ctx context.Context, token string, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.developerToken)
	req.Header.Set("Music-User-Token", token)

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
		return nil, fmt.Errorf("applemusic API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func (p *Provider) doPost(ctx context.Context, token string, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.developerToken)
	req.Header.Set("Music-User-Token", token)
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
		return nil, fmt.Errorf("applemusic API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

// nextURL resolves the relative "next" path Apple returns against the
// configured API base.
func (p *Provider) nextURL(next string) string {
	if next == "" {
		return ""
	}
	base := strings.TrimSuffix(p.baseURL, "/v1")
	return base + next
}

func toTrack(t songData) domain.Track {
	id := t.Attributes.PlayParams.CatalogID
	if id == "" {
		id = t.ID
	}
	return domain.Track{
		ID:         id,
		Name:       t.Attributes.Name,
		Artist:     t.Attributes.ArtistName,
		Album:      t.Attributes.AlbumName,
		DurationMS: t.Attributes.DurationInMillis,
		ISRC:       t.Attributes.ISRC,
	}
}
