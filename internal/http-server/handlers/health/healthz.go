package health

import (
	"HereToHelp/internal/lib/api/response"
	"HereToHelp/internal/lib/sl"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

type Core interface {
	Ready(ctx context.Context) error
}

func Healthz(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := handler.Ready(ctx); err != nil {
			log.With(sl.Module("http.handlers.health"), sl.Err(err)).Warn("not ready")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("outbox unavailable"))
			return
		}
		render.JSON(w, r, response.Ok("ok"))
	}
}
