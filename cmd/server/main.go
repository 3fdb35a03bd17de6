package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kittyfund/kittyfund/internal/api"
	"github.com/kittyfund/kittyfund/internal/auth"
	"github.com/kittyfund/kittyfund/internal/config"
	"github.com/kittyfund/kittyfund/internal/middleware"
	"github.com/kittyfund/kittyfund/internal/service"
	"github.com/kittyfund/kittyfund/internal/storage/sqlite"
	"github.com/kittyfund/kittyfund/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.JSONLogs)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	server := api.NewServer(
		service.NewBudgetService(store),
		service.NewLedgerService(store),
		service.NewConfirmationService(store),
		service.NewMembershipService(store),
		authenticator,
		jwtManager,
	)

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(server.Handler())))

	// h2c enables HTTP/2 without TLS for clients that want multiplexing.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
