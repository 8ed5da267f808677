package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatbox-server/internal/announce"
	"chatbox-server/internal/gateway"
)

// RoomHandlers provides the HTTP handlers for the room join/create
// protocol and the announcement cipher helpers.
type RoomHandlers struct {
	gateway *gateway.Gateway
	cipher  *announce.Cipher // nil when sealing is disabled
	log     *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(gw *gateway.Gateway, cipher *announce.Cipher, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		gateway: gw,
		cipher:  cipher,
		log:     logger,
	}
}

// EntryForm is the urlencoded body the legacy join and create pages post.
type EntryForm struct {
	Username string `form:"username"`
	Room     string `form:"room"`
	Key      string `form:"key"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListRooms returns all room names for the lobby dropdown.
// GET /rooms
//
// Legacy clients expect 200 with an empty array on failure, never an
// error status.
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	names, err := h.gateway.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusOK, []string{})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

// Validate checks a join request against a stored room key and redirects
// to the chat entry URL or the denial page.
// POST /validate
func (h *RoomHandlers) Validate(c *gin.Context) {
	var form EntryForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Debug().Err(err).Msg("invalid validate form")
	}

	outcome := h.gateway.Validate(c.Request.Context(), form.Username, form.Room, form.Key)
	c.Redirect(http.StatusSeeOther, redirectFor(outcome))
}

// Create registers a new room and redirects to the chat entry URL or the
// matching error page.
// POST /create
func (h *RoomHandlers) Create(c *gin.Context) {
	var form EntryForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Debug().Err(err).Msg("invalid create form")
	}

	outcome := h.gateway.Create(c.Request.Context(), form.Username, form.Room, form.Key)
	c.Redirect(http.StatusSeeOther, redirectFor(outcome))
}

// Encrypt seals a message with the announcement cipher.
// GET /encrypt?message=...
func (h *RoomHandlers) Encrypt(c *gin.Context) {
	if h.cipher == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "announcement sealing is disabled"})
		return
	}

	sealed, err := h.cipher.Seal(c.Query("message"))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to seal message")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, sealed)
}

// Decrypt opens a sealed announcement for the legacy chat page.
// GET /decrypt?message=...
func (h *RoomHandlers) Decrypt(c *gin.Context) {
	if h.cipher == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "announcement sealing is disabled"})
		return
	}

	plaintext, err := h.cipher.Open(c.Query("message"))
	if err != nil {
		h.log.Debug().Err(err).Msg("failed to open sealed message")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sealed message"})
		return
	}
	c.JSON(http.StatusOK, plaintext)
}
