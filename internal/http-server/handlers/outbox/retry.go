package outbox

import (
	"HereToHelp/impl/core"
	"HereToHelp/internal/lib/api/cont"
	"HereToHelp/internal/lib/api/response"
	"HereToHelp/internal/lib/sl"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Retry(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.outbox")
		id := chi.URLParam(r, "id")

		logger := log.With(
			mod,
			slog.String("id", id),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if auth := cont.GetAuth(r.Context()); auth != nil {
			logger = logger.With(slog.String("user", auth.AuthName))
		}

		item, err := handler.RetryOutbox(r.Context(), id)
		switch {
		case errors.Is(err, core.ErrOutboxItemNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Outbox item not found"))
			return
		case errors.Is(err, core.ErrOutboxDisabled):
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Outbox not configured"))
			return
		case err != nil:
			logger.Error("failed to requeue outbox item", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to requeue outbox item"))
			return
		}

		logger.Info("outbox item requeued")
		render.JSON(w, r, response.Ok(item))
	}
}
