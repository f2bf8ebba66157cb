package deezer

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
	p := NewProvider(server.Client(), "app-id", "app-secret", "http://localhost/callback")
	p.baseURL = server.URL
	p.authBase = server.URL + "/oauth"
	return p
}

func TestAuthURL(t *testing.T) {
	p := NewProvider(nil, "app-id", "app-secret", "http://localhost/callback")

	u := p.AuthURL("state-1")
	assert.Contains(t, u, "connect.deezer.com/oauth/auth.php")
	assert.Contains(t, u, "app_id=app-id")
	assert.Contains(t, u, "state=state-1")
}

func TestHandleCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/access_token.php", r.URL.Path)
		assert.Equal(t, "app-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "code-1", r.URL.Query().Get("code"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"dz-token","expires":3600}`)
	}))
	defer server.Close()

	p := testProvider(server)

	token, err := p.HandleCallback(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "dz-token", token.AccessToken)
	assert.False(t, token.ExpiresAt.IsZero())
}

func TestHandleCallback_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error":{"type":"OAuthException","message":"Invalid code"}}`)
	}))
	defer server.Close()

	p := testProvider(server)

	_, err := p.HandleCallback(context.Background(), "bad-code")
	require.Error(t, err)
}

func TestSearchTrack_ISRCLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "my-token", r.URL.Query().Get("access_token"))

		if strings.HasPrefix(r.URL.Path, "/track/isrc:") {
			fmt.Fprint(w, `{"id":42,"title":"Song","duration":180,"isrc":"FRXXX0000001","artist":{"name":"Artist"},"album":{"title":"Album"}}`)
			return
		}
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	p := testProvider(server)

	track, err := p.SearchTrack(context.Background(), "my-token", domain.Track{
		Name:   "Song",
		Artist: "Artist",
		ISRC:   "FRXXX0000001",
	})
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "42", track.ID)
	assert.Equal(t, 180000, track.DurationMS)
}

func TestSearchTrack_FallsBackToTextSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.HasPrefix(r.URL.Path, "/track/isrc:") {
			fmt.Fprint(w, `{"error":{"type":"DataException","message":"no data","code":800}}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":7,"title":"Song","duration":200,"artist":{"name":"Artist"},"album":{"title":"Album"}}]}`)
	}))
	defer server.Close()

	p := testProvider(server)

	track, err := p.SearchTrack(context.Background(), "my-token", domain.Track{
		Name:   "Song",
		Artist: "Artist",
		ISRC:   "FRXXX0000001",
	})
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "7", track.ID)
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
	assert.Equal(t, domain.AddResult{}, result)
	assert.Equal(t, 0, calls)
}

func TestAddTracks_JoinsSongIDs(t *testing.T) {
	var songs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		songs = r.URL.Query().Get("songs")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `true`)
	}))
	defer server.Close()

	p := testProvider(server)

	tracks := []domain.Track{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	result, err := p.AddTracks(context.Background(), "token", "p1", tracks)
	require.NoError(t, err)
	assert.Equal(t, domain.AddResult{Added: 3}, result)
	assert.Equal(t, "1,2,3", songs)
}

func TestGetPlaylists_FollowsNext(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("index") == "" {
			fmt.Fprintf(w, `{"data":[{"id":1,"title":"One","nb_tracks":2}],"next":"%s/user/me/playlists?access_token=token&index=50"}`, server.URL)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":2,"title":"Two","nb_tracks":5}]}`)
	}))
	defer server.Close()

	p := testProvider(server)

	playlists, err := p.GetPlaylists(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, "1", playlists[0].ID)
	assert.Equal(t, "Two", playlists[1].Name)
}
