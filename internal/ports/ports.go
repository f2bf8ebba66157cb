package ports

import (
	"context"

	"github.com/tunebridge/tunebridge/internal/domain"
)

// MusicProvider defines the contract that every streaming service adapter
// must implement. This is the primary driven port of the hexagonal
// architecture.
type MusicProvider interface {
	// Name returns the provider identifier (e.g., "spotify", "deezer").
	Name() string

	// DisplayName returns the human-readable provider name.
	DisplayName() string

	// AuthURL builds the provider's authorization-request URL. Pure string
	// construction, no network I/O.
	AuthURL(state string) string

	// HandleCallback exchanges an authorization code (or the platform's
	// equivalent) for a bearer credential.
	HandleCallback(ctx context.Context, code string) (*domain.TokenData, error)

	// GetPlaylists returns all playlists owned by the authenticated user,
	// following pagination to exhaustion. Tracks are left empty.
	GetPlaylists(ctx context.Context, token string) ([]domain.Playlist, error)

	// GetPlaylistTracks returns all tracks in a specific playlist in source
	// order, handling pagination internally.
	GetPlaylistTracks(ctx context.Context, token string, playlistID string) ([]domain.Track, error)

	// CreatePlaylist creates a new playlist and returns its ID.
	CreatePlaylist(ctx context.Context, token string, name string, description string) (string, error)

	// AddTracks adds the given tracks to a playlist, best-effort. Per-track
	// failures are reported through the returned counts, never as an error;
	// an error means the call as a whole could not be performed. An empty
	// track slice returns {0,0} without issuing a request.
	AddTracks(ctx context.Context, token string, playlistID string, tracks []domain.Track) (domain.AddResult, error)

	// SearchTrack looks up the best candidate for a track on this provider,
	// preferring an ISRC-exact lookup when the track carries one. Returns
	// (nil, nil) when nothing matches; an error only for transport failure.
	SearchTrack(ctx context.Context, token string, track domain.Track) (*domain.Track, error)
}

// TransferService defines the driving port for the core transfer use case.
type TransferService interface {
	// Transfer orchestrates the full transfer of a playlist from one
	// provider to another, reporting progress through onProgress (which may
	// be nil).
	Transfer(ctx context.Context, req domain.TransferRequest, onProgress domain.ProgressFunc) (*domain.TransferResult, error)

	// ListPlaylists returns playlists from a given provider for the
	// authenticated user.
	ListPlaylists(ctx context.Context, provider string, token string) ([]domain.Playlist, error)

	// AuthURL returns the authorization URL for a provider.
	AuthURL(provider string, state string) (string, error)

	// ExchangeCode trades an authorization code for a bearer credential.
	ExchangeCode(ctx context.Context, provider string, code string) (*domain.TokenData, error)

	// Providers lists the available providers in registration order.
	Providers() []domain.ProviderInfo
}
