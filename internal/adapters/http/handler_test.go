package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunebridge/tunebridge/internal/domain"
)

// -- Mock service ------------------------------------------------------------

type mockTransferService struct {
	playlists []domain.Playlist
	providers []domain.ProviderInfo
	token     *domain.TokenData
	result    *domain.TransferResult
	progress  []domain.TransferProgress
	err       error
}

func (m *mockTransferService) Transfer(_ context.Context, _ domain.TransferRequest, onProgress domain.ProgressFunc) (*domain.TransferResult, error) {
	for _, p := range m.progress {
		onProgress(p)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockTransferService) ListPlaylists(_ context.Context, _ string, _ string) ([]domain.Playlist, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.playlists, nil
}

func (m *mockTransferService) AuthURL(provider string, state string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "https://auth.example.com/" + provider + "?state=" + state, nil
}

func (m *mockTransferService) ExchangeCode(_ context.Context, _ string, _ string) (*domain.TokenData, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

func (m *mockTransferService) Providers() []domain.ProviderInfo {
	return m.providers
}

// -- Helpers -----------------------------------------------------------------

func setupRouter(svc *mockTransferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	h.RegisterRoutes(r)
	return r
}

// sseData extracts the JSON payloads from a server-sent event stream body.
func sseData(body string) []string {
	var payloads []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data:") {
			payloads = append(payloads, strings.TrimPrefix(line, "data:"))
		}
	}
	return payloads
}

// -- Tests -------------------------------------------------------------------

func TestHealth(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body["status"])
}

func TestListProviders(t *testing.T) {
	svc := &mockTransferService{
		providers: []domain.ProviderInfo{
			{ID: "spotify", DisplayName: "Spotify"},
			{ID: "youtube", DisplayName: "YouTube Music"},
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var providers []domain.ProviderInfo
	err := json.Unmarshal(w.Body.Bytes(), &providers)
	require.NoError(t, err)
	assert.Equal(t, svc.providers, providers)
}

func TestAuthURL_Success(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/url?provider=spotify", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AuthURLResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Contains(t, resp.URL, "spotify")
	assert.NotEmpty(t, resp.State)
	assert.Contains(t, resp.URL, resp.State)
}

func TestAuthURL_MissingProvider(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/url", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthCallback_Success(t *testing.T) {
	svc := &mockTransferService{
		token: &domain.TokenData{AccessToken: "at-123", RefreshToken: "rt-456"},
	}
	r := setupRouter(svc)

	body, _ := json.Marshal(AuthCallbackRequest{Provider: "spotify", Code: "code-1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var token domain.TokenData
	err := json.Unmarshal(w.Body.Bytes(), &token)
	require.NoError(t, err)
	assert.Equal(t, "at-123", token.AccessToken)
}

func TestAuthCallback_MissingCode(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/callback", bytes.NewReader([]byte(`{"provider":"spotify"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlaylists_Success(t *testing.T) {
	svc := &mockTransferService{
		playlists: []domain.Playlist{
			{ID: "1", Name: "Rock Classics", TrackCount: 25},
			{ID: "2", Name: "Jazz Vibes", TrackCount: 40},
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists?provider=spotify", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var playlists []domain.Playlist
	err := json.Unmarshal(w.Body.Bytes(), &playlists)
	require.NoError(t, err)
	assert.Len(t, playlists, 2)
}

func TestListPlaylists_MissingProvider(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPlaylists_MissingToken(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/playlists?provider=spotify", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func transferBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(domain.TransferRequest{
		SourceProvider: "spotify",
		SourceToken:    "token-s",
		TargetProvider: "youtube",
		TargetToken:    "token-y",
		PlaylistID:     "pl-1",
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestTransfer_StreamsProgressThenComplete(t *testing.T) {
	svc := &mockTransferService{
		progress: []domain.TransferProgress{
			{Phase: domain.PhaseFetching},
			{Phase: domain.PhaseReading},
			{Phase: domain.PhaseCreating, Total: 2},
			{Phase: domain.PhaseMatching, Current: 1, Total: 2},
			{Phase: domain.PhaseMatching, Current: 2, Total: 2},
			{Phase: domain.PhaseTransferring, Total: 2},
			{Phase: domain.PhaseComplete, Current: 2, Total: 2},
		},
		result: &domain.TransferResult{
			TargetPlaylistID: "new-pl",
			TotalTracks:      2,
			Matched: []domain.Track{
				{ID: "t1", Name: "A"},
				{ID: "t2", Name: "B"},
			},
		},
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer", transferBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	payloads := sseData(w.Body.String())
	require.Len(t, payloads, 8) // 7 progress + 1 terminal

	var first domain.TransferProgress
	require.NoError(t, json.Unmarshal([]byte(payloads[0]), &first))
	assert.Equal(t, domain.PhaseFetching, first.Phase)

	var terminal completeEvent
	require.NoError(t, json.Unmarshal([]byte(payloads[len(payloads)-1]), &terminal))
	assert.Equal(t, "complete", terminal.Type)
	require.NotNil(t, terminal.Result)
	assert.Equal(t, "new-pl", terminal.Result.TargetPlaylistID)
	assert.Len(t, terminal.Result.Matched, 2)
}

func TestTransfer_StreamsErrorTerminal(t *testing.T) {
	svc := &mockTransferService{
		progress: []domain.TransferProgress{
			{Phase: domain.PhaseFetching},
		},
		err: assert.AnError,
	}
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer", transferBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	payloads := sseData(w.Body.String())
	require.Len(t, payloads, 2)

	var terminal errorEvent
	require.NoError(t, json.Unmarshal([]byte(payloads[len(payloads)-1]), &terminal))
	assert.Equal(t, "error", terminal.Type)
	assert.NotEmpty(t, terminal.Error)
}

func TestTransfer_InvalidBody(t *testing.T) {
	r := setupRouter(&mockTransferService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
