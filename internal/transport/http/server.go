package http

import (
	stdhttp "net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatbox-server/internal/announce"
	"chatbox-server/internal/auth"
	"chatbox-server/internal/config"
	"chatbox-server/internal/core"
	"chatbox-server/internal/gateway"
)

// NewServer builds the HTTP server with all routes attached.
// cipher and tickets may be nil when their secrets are not configured.
func NewServer(registry *core.SessionRegistry, broadcaster *core.Broadcaster, gw *gateway.Gateway, cipher *announce.Cipher, tickets *auth.Tickets, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	var sealer core.Sealer
	if cipher != nil {
		sealer = cipher
	}
	var verifier core.TicketVerifier
	if tickets != nil {
		verifier = tickets
	}

	rooms := NewRoomHandlers(gw, cipher, logger)
	ws := NewWSHandler(registry, broadcaster, sealer, verifier, cfg.BotName, logger)

	router.GET("/healthz", healthHandler)
	router.GET("/rooms", rooms.ListRooms)
	router.POST("/validate", rooms.Validate)
	router.POST("/create", rooms.Create)
	router.GET("/encrypt", rooms.Encrypt)
	router.GET("/decrypt", rooms.Decrypt)
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeHTTP(c.Writer, c.Request)
	})

	// The legacy chat pages are plain static files; serve them when the
	// directory is present so routes above still win.
	if cfg.PublicDir != "" {
		if _, err := os.Stat(cfg.PublicDir); err == nil {
			router.NoRoute(gin.WrapH(stdhttp.FileServer(stdhttp.Dir(cfg.PublicDir))))
		}
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
