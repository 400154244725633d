package wizard

import (
	"HereToHelp/impl/core"
	"HereToHelp/internal/lib/sl"
	"HereToHelp/wizard/workflow"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// maxFormSize bounds a posted step form.
const maxFormSize = 64 << 10

// SubmitStep handles the form posted for one step.
func SubmitStep(log *slog.Logger, handler Core, stepID workflow.StepID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.wizard"),
			slog.String("step", string(stepID)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseForm(); err != nil {
			logger.Warn("parse form", sl.Err(err))
			writeHTML(w, http.StatusBadRequest, handler.RenderError("The form could not be read. Go back and try again."))
			return
		}

		reply, err := handler.SubmitStep(r.Context(), stepID, r.PostForm)
		if core.IsNotFound(err) {
			writeHTML(w, http.StatusNotFound, handler.RenderNotFound())
			return
		}
		if err != nil {
			logger.Error("submit step", sl.Err(err))
			writeHTML(w, http.StatusInternalServerError, handler.RenderError(genericError))
			return
		}

		if reply.Redirect != "" {
			http.Redirect(w, r, reply.Redirect, http.StatusSeeOther)
			return
		}
		writeHTML(w, http.StatusOK, reply.Body)
	}
}
