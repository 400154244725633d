package outbox

import (
	"HereToHelp/entity"
	"HereToHelp/impl/core"
	"HereToHelp/internal/lib/api/response"
	"HereToHelp/internal/lib/sl"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.outbox")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		status := r.URL.Query().Get("status")
		switch status {
		case "", entity.OutboxPending, entity.OutboxSent, entity.OutboxFailed:
		default:
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Unknown status"))
			return
		}

		items, err := handler.ListOutbox(r.Context(), status)
		if errors.Is(err, core.ErrOutboxDisabled) {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Outbox not configured"))
			return
		}
		if err != nil {
			logger.Error("failed to list outbox", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list outbox"))
			return
		}

		logger.Debug("outbox listed", slog.Int("count", len(items)))
		render.JSON(w, r, response.Ok(items))
	}
}
