package domain

import "time"

// Track represents a music track with the metadata used for cross-platform
// matching. Artist is the comma-joined list of artist names when a track
// has more than one.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	DurationMS int    `json:"duration_ms"`
	ISRC       string `json:"isrc,omitempty"`
}

// Playlist represents a collection of tracks from a streaming provider.
// Tracks is populated lazily; TrackCount is the provider-advertised count
// and may be stale until the tracks are actually read.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	TrackCount  int     `json:"track_count"`
	Tracks      []Track `json:"tracks,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// TokenData holds the bearer credential obtained from a provider's OAuth
// code exchange.
type TokenData struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// TransferPhase identifies one stage of the transfer sequence.
type TransferPhase string

const (
	PhaseFetching     TransferPhase = "fetching"
	PhaseReading      TransferPhase = "reading"
	PhaseCreating     TransferPhase = "creating"
	PhaseMatching     TransferPhase = "matching"
	PhaseTransferring TransferPhase = "transferring"
	PhaseComplete     TransferPhase = "complete"
)

// TransferProgress is a single progress notification. The meaning of
// Current and Total depends on the phase: during matching Current is the
// 1-based track index and Total the track count; elsewhere they describe
// item counts or are zero.
type TransferProgress struct {
	Phase   TransferPhase `json:"phase"`
	Current int           `json:"current"`
	Total   int           `json:"total"`
	Message string        `json:"message"`
}

// ProgressFunc receives progress notifications. It is called synchronously
// from the transfer and must not block for long.
type ProgressFunc func(TransferProgress)

// TransferRequest contains all information needed to transfer a playlist
// from one streaming provider to another.
type TransferRequest struct {
	SourceProvider string `json:"source_provider" binding:"required"`
	SourceToken    string `json:"source_token" binding:"required"`
	TargetProvider string `json:"target_provider" binding:"required"`
	TargetToken    string `json:"target_token" binding:"required"`
	PlaylistID     string `json:"playlist_id" binding:"required"`
}

// TransferResult summarizes the outcome of a full playlist transfer.
//
// Matched records the tracks resolved by target-side search, not the tracks
// actually added: the terminal bulk add is best-effort and may still drop a
// resolved track, so the count of tracks in the target playlist can be
// lower than len(Matched). The add counts are logged but not surfaced here.
type TransferResult struct {
	SourcePlaylist   Playlist `json:"source_playlist"`
	TargetPlaylistID string   `json:"target_playlist_id"`
	Matched          []Track  `json:"matched"`
	Unmatched        []Track  `json:"unmatched"`
	TotalTracks      int      `json:"total_tracks"`
}

// AddResult reports the outcome of a best-effort bulk add.
// Added+Failed always equals the number of tracks passed in.
type AddResult struct {
	Added  int `json:"added"`
	Failed int `json:"failed"`
}

// ProviderInfo describes a registered provider for listing purposes.
type ProviderInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
