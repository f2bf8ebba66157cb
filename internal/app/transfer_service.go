package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tunebridge/tunebridge/internal/adapters"
	"github.com/tunebridge/tunebridge/internal/domain"
)

// Service implements ports.TransferService. Transfers run as a single-pass
// linear sequence of phases; each adapter call is awaited before the next
// begins and no state is kept between invocations, so concurrent transfers
// for different credential pairs are independent.
type Service struct {
	registry *adapters.ProviderRegistry
	logger   *log.Logger
}

// NewService creates a transfer service backed by the given provider
// registry.
func NewService(registry *adapters.ProviderRegistry, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		registry: registry,
		logger:   logger,
	}
}

func (s *Service) Providers() []domain.ProviderInfo {
	return s.registry.List()
}

func (s *Service) AuthURL(provider string, state string) (string, error) {
	p, err := s.registry.Get(provider)
	if err != nil {
		return "", err
	}
	return p.AuthURL(state), nil
}

func (s *Service) ExchangeCode(ctx context.Context, provider string, code string) (*domain.TokenData, error) {
	p, err := s.registry.Get(provider)
	if err != nil {
		return nil, err
	}
	return p.HandleCallback(ctx, code)
}

func (s *Service) ListPlaylists(ctx context.Context, provider string, token string) ([]domain.Playlist, error) {
	p, err := s.registry.Get(provider)
	if err != nil {
		return nil, err
	}
	return p.GetPlaylists(ctx, token)
}

// Transfer moves one playlist from the source provider to the target
// provider in five phases: fetch the source listing, read the playlist's
// tracks, create the target playlist, match each track on the target via
// search, then bulk-add the matches. One progress event is emitted per
// phase transition plus one per track during matching.
//
// List, read, create and add failures abort the transfer; a target playlist
// created before a later failure is left in place. Search misses and search
// errors are not failures: those tracks accumulate into Unmatched.
func (s *Service) Transfer(ctx context.Context, req domain.TransferRequest, onProgress domain.ProgressFunc) (*domain.TransferResult, error) {
	emit := func(p domain.TransferProgress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	source, err := s.registry.Get(req.SourceProvider)
	if err != nil {
		return nil, fmt.Errorf("source provider error: %w", err)
	}

	target, err := s.registry.Get(req.TargetProvider)
	if err != nil {
		return nil, fmt.Errorf("target provider error: %w", err)
	}

	// Phase 1: locate the source playlist in the user's listing
	emit(domain.TransferProgress{
		Phase:   domain.PhaseFetching,
		Message: fmt.Sprintf("Fetching playlists from %s", req.SourceProvider),
	})

	playlists, err := source.GetPlaylists(ctx, req.SourceToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source playlists: %w", err)
	}

	var playlist *domain.Playlist
	for i := range playlists {
		if playlists[i].ID == req.PlaylistID {
			playlist = &playlists[i]
			break
		}
	}
	if playlist == nil {
		return nil, fmt.Errorf("playlist %s not found on %s", req.PlaylistID, req.SourceProvider)
	}

	// Phase 2: read the full track listing
	emit(domain.TransferProgress{
		Phase:   domain.PhaseReading,
		Message: fmt.Sprintf("Reading tracks from %q", playlist.Name),
	})

	tracks, err := source.GetPlaylistTracks(ctx, req.SourceToken, playlist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read source tracks: %w", err)
	}
	playlist.Tracks = tracks
	playlist.TrackCount = len(tracks)
	total := len(tracks)

	s.logger.Info("read source playlist",
		"provider", req.SourceProvider, "playlist", playlist.Name, "tracks", total)

	// Phase 3: create the target playlist
	emit(domain.TransferProgress{
		Phase:   domain.PhaseCreating,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist on %s", req.TargetProvider),
	})

	description := playlist.Description
	if description == "" {
		description = fmt.Sprintf("Transferred from %s", playlist.Name)
	}

	targetID, err := target.CreatePlaylist(ctx, req.TargetToken, playlist.Name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create target playlist: %w", err)
	}

	s.logger.Info("created target playlist",
		"provider", req.TargetProvider, "playlist_id", targetID)

	// Phase 4: match tracks one at a time. Searches stay strictly
	// sequential: one in-flight request bounds load on the target's search
	// API and keeps per-track progress ordering deterministic.
	var matched, unmatched []domain.Track
	for i, track := range tracks {
		emit(domain.TransferProgress{
			Phase:   domain.PhaseMatching,
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("Searching for %s - %s", track.Artist, track.Name),
		})

		found, err := target.SearchTrack(ctx, req.TargetToken, track)
		if err != nil {
			s.logger.Warn("track search failed",
				"artist", track.Artist, "name", track.Name, "err", err)
			unmatched = append(unmatched, track)
			continue
		}
		if found == nil {
			s.logger.Warn("track not found",
				"artist", track.Artist, "name", track.Name)
			unmatched = append(unmatched, track)
			continue
		}
		matched = append(matched, *found)
	}

	// Phase 5: bulk add in one best-effort call
	emit(domain.TransferProgress{
		Phase:   domain.PhaseTransferring,
		Total:   len(matched),
		Message: fmt.Sprintf("Adding %d tracks to target playlist", len(matched)),
	})

	added, err := target.AddTracks(ctx, req.TargetToken, targetID, matched)
	if err != nil {
		return nil, fmt.Errorf("failed to add tracks to target playlist: %w", err)
	}
	if added.Failed > 0 {
		s.logger.Info("some resolved tracks were not added",
			"added", added.Added, "failed", added.Failed)
	}

	emit(domain.TransferProgress{
		Phase:   domain.PhaseComplete,
		Current: len(matched),
		Total:   total,
		Message: fmt.Sprintf("Transferred %d of %d tracks (%d unmatched)", len(matched), total, len(unmatched)),
	})

	s.logger.Info("transfer complete",
		"source", req.SourceProvider, "target", req.TargetProvider,
		"matched", len(matched), "unmatched", len(unmatched))

	return &domain.TransferResult{
		SourcePlaylist:   *playlist,
		TargetPlaylistID: targetID,
		Matched:          matched,
		Unmatched:        unmatched,
		TotalTracks:      total,
	}, nil
}
