package errors

import (
	"log/slog"
	"net/http"
)

type Pages interface {
	RenderNotFound() []byte
}

func NotFound(_ *slog.Logger, pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write(pages.RenderNotFound())
	}
}
