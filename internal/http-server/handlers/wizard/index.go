package wizard

import (
	"HereToHelp/internal/lib/api/cont"
	"HereToHelp/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Index renders the first step with the staff identity, if any.
func Index(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.wizard"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		body, err := handler.RenderLanding(cont.GetAuth(r.Context()), r.URL.Query())
		if err != nil {
			logger.Error("render landing", sl.Err(err))
			writeHTML(w, http.StatusInternalServerError, handler.RenderError(genericError))
			return
		}
		writeHTML(w, http.StatusOK, body)
	}
}
