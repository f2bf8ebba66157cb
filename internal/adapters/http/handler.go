package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tunebridge/tunebridge/internal/domain"
	"github.com/tunebridge/tunebridge/internal/ports"
)

// Handler holds the HTTP handlers for the transfer API.
type Handler struct {
	service ports.TransferService
}

// NewHandler creates a new HTTP handler with the given transfer service.
func NewHandler(service ports.TransferService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/providers", h.ListProviders)
		api.GET("/auth/url", h.AuthURL)
		api.POST("/auth/callback", h.AuthCallback)
		api.GET("/playlists", h.ListPlaylists)
		api.POST("/transfer", h.Transfer)
	}
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Description	Returns the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ListProviders returns the available streaming providers.
//
//	@Summary		List providers
//	@Description	Returns the identifiers and display names of every supported streaming provider.
//	@Tags			providers
//	@Produce		json
//	@Success		200	{array}	domain.ProviderInfo
//	@Router			/api/v1/providers [get]
func (h *Handler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Providers())
}

// AuthURLResponse carries an authorization URL and its CSRF state.
type AuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// AuthURL returns the authorization URL for a provider.
//
//	@Summary		Get authorization URL
//	@Description	Builds the OAuth authorization URL for the given provider, with a freshly minted state token.
//	@Tags			auth
//	@Produce		json
//	@Param			provider	query		string	true	"Streaming provider"	Enums(spotify, youtube, deezer, applemusic)
//	@Success		200	{object}	AuthURLResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/api/v1/auth/url [get]
func (h *Handler) AuthURL(c *gin.Context) {
	provider := c.Query("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter 'provider' is required",
		})
		return
	}

	state := uuid.NewString()
	authURL, err := h.service.AuthURL(provider, state)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, AuthURLResponse{URL: authURL, State: state})
}

// AuthCallbackRequest is the payload for the code-for-token exchange.
type AuthCallbackRequest struct {
	Provider string `json:"provider" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// AuthCallback exchanges an authorization code for a bearer token.
//
//	@Summary		Exchange authorization code
//	@Description	Trades the authorization code returned by the provider's consent screen for a bearer token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AuthCallbackRequest	true	"Provider and authorization code"
//	@Success		200		{object}	domain.TokenData
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/api/v1/auth/callback [post]
func (h *Handler) AuthCallback(c *gin.Context) {
	var req AuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	token, err := h.service.ExchangeCode(c.Request.Context(), req.Provider, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "auth_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, token)
}

// ListPlaylists returns playlists for the given provider and authenticated user.
//
//	@Summary		List user playlists
//	@Description	Returns all playlists for the authenticated user on the specified streaming provider.
//	@Tags			playlists
//	@Produce		json
//	@Param			provider	query		string	true	"Streaming provider"	Enums(spotify, youtube, deezer, applemusic)
//	@Param			Authorization	header	string	true	"Bearer token for the streaming provider"
//	@Success		200	{array}		domain.Playlist
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/playlists [get]
func (h *Handler) ListPlaylists(c *gin.Context) {
	provider := c.Query("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter 'provider' is required",
		})
		return
	}

	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authorization header with Bearer token is required",
		})
		return
	}

	playlists, err := h.service.ListPlaylists(c.Request.Context(), provider, token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, playlists)
}

// completeEvent is the terminal event of a successful transfer stream.
type completeEvent struct {
	Type   string                 `json:"type"`
	Result *domain.TransferResult `json:"result"`
}

// errorEvent is the terminal event of a failed transfer stream.
type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Transfer initiates a playlist transfer and streams progress as
// server-sent events. Zero or more progress events are followed by exactly
// one terminal event, either complete or error, after which the stream
// closes.
//
//	@Summary		Transfer playlist
//	@Description	Transfers a playlist from one streaming provider to another. The response is a server-sent
//	@Description	event stream: progress events carry phase/current/total/message, and the stream ends with a
//	@Description	single complete event holding the transfer result, or a single error event.
//	@Tags			transfer
//	@Accept			json
//	@Produce		text/event-stream
//	@Param			request	body		domain.TransferRequest	true	"Transfer request with source/target providers, tokens, and playlist ID"
//	@Success		200		{object}	domain.TransferProgress
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/v1/transfer [post]
func (h *Handler) Transfer(c *gin.Context) {
	var req domain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	result, err := h.service.Transfer(c.Request.Context(), req, func(p domain.TransferProgress) {
		c.SSEvent("progress", p)
		c.Writer.Flush()
	})

	if err != nil {
		c.SSEvent("error", errorEvent{Type: "error", Error: err.Error()})
	} else {
		c.SSEvent("complete", completeEvent{Type: "complete", Result: result})
	}
	c.Writer.Flush()
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// extractToken retrieves the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	return auth
}
