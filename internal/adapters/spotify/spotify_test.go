package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebridge/tunebridge/internal/domain"
)

func testProvider(server *httptest.Server) *Provider {
	p := NewProvider(server.Client(), "client-id", "client-secret", "http://localhost/callback")
	p.baseURL = server.URL
	return p
}

func TestAuthURL(t *testing.T) {
	p := NewProvider(nil, "client-id", "client-secret", "http://localhost/callback")

	u := p.AuthURL("state-abc")
	assert.Contains(t, u, "accounts.spotify.com/authorize")
	assert.Contains(t, u, "state=state-abc")
	assert.Contains(t, u, "client_id=client-id")
}

func TestSearchTrack_PrefersISRC(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")

		// The ISRC query and the text query return different tracks; the
		// ISRC hit must win.
		if strings.HasPrefix(q, "isrc:") {
			fmt.Fprint(w, `{"tracks":{"items":[{"id":"isrc-hit","name":"Song","artists":[{"name":"Artist"}],"album":{"name":"Album"},"duration_ms":200000,"external_ids":{"isrc":"USRC17607839"}}]}}`)
			return
		}
		fmt.Fprint(w, `{"tracks":{"items":[{"id":"text-hit","name":"Song","artists":[{"name":"Artist"}]}]}}`)
	}))
	defer server.Close()

	p := testProvider(server)

	track, err := p.SearchTrack(context.Background(), "token", domain.Track{
		Name:   "Song",
		Artist: "Artist",
		ISRC:   "USRC17607839",
	})
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "isrc-hit", track.ID)
}

func TestSearchTrack_TextFallbackWhenISRCMisses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")

		if strings.HasPrefix(q, "isrc:") {
			fmt.Fprint(w, `{"tracks":{"items":[]}}`)
			return
		}
		fmt.Fprint(w, `{"tracks":{"items":[{"id":"text-hit","name":"Song","artists":[{"name":"Artist"}]}]}}`)
	}))
	defer server.Close()

	p := testProvider(server)

	track, err := p.SearchTrack(context.Background(), "token", domain.Track{
		Name:   "Song",
		Artist: "Artist",
		ISRC:   "USRC17607839",
	})
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "text-hit", track.ID)
}

func TestSearchTrack_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"tracks":{"items":[]}}`)
	}))
	defer server.Close()

	p := testProvider(server)

	track, err := p.SearchTrack(context.Background(), "token", domain.Track{Name: "Nope", Artist: "Nobody"})
	require.NoError(t, err)
	assert.Nil(t, track)
}

func TestGetPlaylists_FollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		if r.URL.Query().Get("offset") == "" {
			fmt.Fprintf(w, `{"items":[{"id":"p1","name":"One","tracks":{"total":3}}],"next":"%s/me/playlists?offset=50"}`, server.URL)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":"p2","name":"Two","tracks":{"total":7}}],"next":""}`)
	}))
	defer server.Close()

	p := testProvider(server)

	playlists, err := p.GetPlaylists(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "p1", playlists[0].ID)
	assert.Equal(t, "p2", playlists[1].ID)
	assert.Equal(t, 7, playlists[1].TrackCount)
}

func TestGetPlaylistTracks_SkipsLocalTracks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"track":{"id":"t1","name":"Kept","artists":[{"name":"A"},{"name":"B"}],"album":{"name":"Al"},"duration_ms":1000}},
			{"track":{"id":"","name":"Local file"}}
		],"next":""}`)
	}))
	defer server.Close()

	p := testProvider(server)

	tracks, err := p.GetPlaylistTracks(context.Background(), "token", "p1")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "t1", tracks[0].ID)
	assert.Equal(t, "A, B", tracks[0].Artist)
}

func TestAddTracks_EmptyIssuesNoRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := testProvider(server)

	result, err := p.AddTracks(context.Background(), "token", "p1", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.AddResult{Added: 0, Failed: 0}, result)
	assert.Equal(t, 0, calls)
}

func TestAddTracks_CountsRejectedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	p := testProvider(server)

	tracks := []domain.Track{{ID: "t1"}, {ID: "t2"}}
	result, err := p.AddTracks(context.Background(), "token", "p1", tracks)
	require.NoError(t, err)
	assert.Equal(t, domain.AddResult{Added: 0, Failed: 2}, result)
}

func TestAddTracks_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"snapshot_id":"snap"}`)
	}))
	defer server.Close()

	p := testProvider(server)

	tracks := []domain.Track{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	result, err := p.AddTracks(context.Background(), "token", "p1", tracks)
	require.NoError(t, err)
	assert.Equal(t, domain.AddResult{Added: 3, Failed: 0}, result)
}
