package api

import (
	"HereToHelp/internal/config"
	"HereToHelp/internal/http-server/handlers/errors"
	"HereToHelp/internal/http-server/handlers/health"
	"HereToHelp/internal/http-server/handlers/outbox"
	"HereToHelp/internal/http-server/handlers/wizard"
	"HereToHelp/internal/http-server/middleware/authenticate"
	"HereToHelp/internal/http-server/middleware/logger"
	"HereToHelp/internal/http-server/middleware/secure"
	"HereToHelp/internal/lib/sl"
	"HereToHelp/internal/ws"
	"HereToHelp/wizard/workflow"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	wizard.Core
	outbox.Core
	health.Core
	StepIDs() []workflow.StepID
}

// NewRouter builds the full route table.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(secure.New(conf.Local))
	router.Use(middleware.Compress(5))
	if conf.Listen.Timeout > 0 {
		router.Use(middleware.Timeout(conf.Listen.Timeout))
	}

	router.NotFound(errors.NotFound(log, handler))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/healthz", health.Healthz(log, handler))
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	router.Group(func(r chi.Router) {
		r.Use(authenticate.New(log, conf.Auth.TokenName, handler))
		r.Get("/", wizard.Index(log, handler))

		r.Route("/admin", func(admin chi.Router) {
			admin.Use(authenticate.RequireAdmin)
			admin.Use(render.SetContentType(render.ContentTypeJSON))
			admin.Get("/outbox", outbox.List(log, handler))
			admin.With(authenticate.RequireXHR).Post("/outbox/{id}/retry", outbox.Retry(log, handler))
			admin.Get("/outbox/ws", outbox.Events(log, hub))
		})
	})

	for _, id := range handler.StepIDs() {
		router.Post("/"+string(id), wizard.SubmitStep(log, handler, id))
	}
	router.Get("/{page}", wizard.Page(log, handler))

	return router
}

// New serves the router until ctx is done, then shuts down gracefully.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(conf, log, handler, hub),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := conf.ListenAddress()
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.With(sl.Err(err)).Error("shutdown api server")
		}
	}()

	server.log.Info("starting api server", slog.String("address", serverAddress))

	err = server.httpServer.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
