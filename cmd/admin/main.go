package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hotel_manager/internal/adapters/backend"
	server "hotel_manager/internal/adapters/http_server"
	"hotel_manager/internal/adapters/observability"
	redisad "hotel_manager/internal/adapters/redis"
	"hotel_manager/internal/app"
	"hotel_manager/internal/shared"
	"hotel_manager/web"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger("admin", cfg.AppEnv)

	observability.Serve()

	// deps
	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)

	// the handlers own the actual session teardown; the hook only records
	// that the backend rejected a token
	client, err := backend.New(cfg.BackendBase, cfg.BackendRPS, func() {
		log.Warn().Msg("backend rejected bearer token")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("backend client init failed")
	}

	auth := app.NewAuthService(client, sessions)
	recovery := app.NewRecoveryService(client)
	dash := app.NewDashboardService(client, client, client)

	rend, err := server.NewRenderer(web.Templates, client.PhotoURL)
	if err != nil {
		log.Fatal().Err(err).Msg("template parsing failed")
	}

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Auth: auth, Recovery: recovery, Dash: dash, Render: rend})

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.BackendBase).Msg("admin console listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
