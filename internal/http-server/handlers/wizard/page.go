package wizard

import (
	"HereToHelp/impl/core"
	"HereToHelp/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Page renders any named page with the query string as its context.
func Page(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := chi.URLParam(r, "page")
		logger := log.With(
			sl.Module("http.handlers.wizard"),
			slog.String("page", page),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		body, err := handler.RenderPage(page, r.URL.Query())
		if core.IsNotFound(err) {
			logger.Debug("page not found")
			writeHTML(w, http.StatusNotFound, handler.RenderNotFound())
			return
		}
		if err != nil {
			logger.Error("render page", sl.Err(err))
			writeHTML(w, http.StatusInternalServerError, handler.RenderError(genericError))
			return
		}
		writeHTML(w, http.StatusOK, body)
	}
}
