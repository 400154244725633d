package authenticate

import (
	"HereToHelp/entity"
	"HereToHelp/internal/lib/api/cont"
	"HereToHelp/internal/lib/api/response"
	"HereToHelp/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	Authenticate(token string) (*entity.Auth, error)
	RenderError(message string) []byte
}

// New reads the staff token cookie. A missing cookie leaves the request
// anonymous; a token that fails verification ends it with the error page.
func New(log *slog.Logger, cookieName string, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized", slog.String("cookie", cookieName))

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(cookie.Value)
			if err != nil {
				log.With(
					mod,
					sl.Err(err),
					sl.Secret("token", cookie.Value),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				).Error("token verification failed")
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(auth.RenderError("We could not verify your sign-in. Sign in again and retry."))
				return
			}

			var ctx = r.Context()
			if user != nil {
				ctx = cont.PutAuth(ctx, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireAdmin lets through only requests carrying an admin token.
func RequireAdmin(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		auth := cont.GetAuth(r.Context())
		if auth == nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Unauthorized"))
			return
		}
		if !auth.IsAdmin {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Forbidden"))
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// RequireXHR rejects state-changing admin calls that lack the
// X-Requested-With header. Cross-site forms cannot set it, and scripts
// from another origin would need a CORS preflight this service never grants.
func RequireXHR(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("Missing X-Requested-With header"))
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
