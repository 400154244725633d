package outbox

import (
	"HereToHelp/internal/ws"
	"log/slog"
	"net/http"
)

// Events upgrades an admin connection to the live outbox feed.
func Events(log *slog.Logger, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, log, w, r)
	}
}
