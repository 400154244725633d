package auth

import (
	"HereToHelp/entity"
	"HereToHelp/internal/config"
	"HereToHelp/internal/lib/sl"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// minKeySize is the shortest HS256 key go-jose accepts.
const minKeySize = 32

type Service struct {
	secret     []byte
	userGroup  string
	adminGroup string
	leeway     time.Duration
	now        func() time.Time
	log        *slog.Logger
}

func NewAuthService(conf *config.Config, logger *slog.Logger) *Service {
	s := &Service{
		secret:     hmacKey(conf.Auth.JwtSecret),
		userGroup:  conf.Auth.UserGroup,
		adminGroup: conf.Auth.AdminGroup,
		leeway:     jwt.DefaultLeeway,
		now:        time.Now,
		log:        logger.With(sl.Module("auth-service")),
	}
	if conf.Auth.JwtSecret == "" {
		s.log.Warn("jwt secret not configured, every token will be rejected")
	}
	return s
}

// hmacKey zero-pads a short secret to minKeySize. HMAC pads keys shorter than
// the hash block with zeros, so the MAC is unchanged.
func hmacKey(secret string) []byte {
	if secret == "" {
		return nil
	}
	key := []byte(secret)
	if len(key) < minKeySize {
		key = append(key, make([]byte, minKeySize-len(key))...)
	}
	return key
}

// Authenticate verifies an HS256 token and resolves the group flags.
func (s *Service) Authenticate(token string) (*entity.Auth, error) {
	if s.secret == nil {
		return nil, fmt.Errorf("%w: no secret configured", ErrInvalidToken)
	}
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var std jwt.Claims
	var user entity.TokenClaims
	if err = parsed.Claims(s.secret, &std, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err = std.ValidateWithLeeway(jwt.Expected{Time: s.now()}, s.leeway); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err = user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	auth := user.ToAuth(s.userGroup, s.adminGroup)
	s.log.Debug("token verified",
		slog.String("name", auth.AuthName),
		slog.Bool("admin", auth.IsAdmin),
	)
	return auth, nil
}
