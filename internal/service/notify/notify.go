package notify

import (
	"HereToHelp/internal/config"
	"HereToHelp/internal/lib/sl"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/goccy/go-json"
)

const uuidLength = 36

var ErrInvalidApiKey = errors.New("invalid notify api key")

type emailRequest struct {
	EmailAddress    string            `json:"email_address"`
	TemplateId      string            `json:"template_id"`
	Personalisation map[string]string `json:"personalisation"`
	Reference       string            `json:"reference,omitempty"`
}

type emailResponse struct {
	Id string `json:"id"`
}

type errorResponse struct {
	StatusCode int `json:"status_code"`
	Errors     []struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Service sends GOV.UK Notify template emails.
type Service struct {
	baseUrl    string
	serviceId  string
	secret     []byte
	templateId string
	timeout    time.Duration
	client     *http.Client
	now        func() time.Time
	log        *slog.Logger
}

func NewNotifyService(conf *config.Config, logger *slog.Logger) (*Service, error) {
	serviceId, secret, err := ParseApiKey(conf.Notify.ApiKey)
	if err != nil {
		return nil, err
	}
	return &Service{
		baseUrl:    strings.TrimRight(conf.Notify.BaseUrl, "/"),
		serviceId:  serviceId,
		secret:     []byte(secret),
		templateId: conf.Notify.TemplateId,
		timeout:    conf.Notify.Timeout,
		client:     &http.Client{},
		now:        time.Now,
		log:        logger.With(sl.Module("notify")),
	}, nil
}

// ParseApiKey splits a "{name}-{service id}-{secret}" key; both ids are UUIDs.
func ParseApiKey(key string) (serviceId, secret string, err error) {
	if len(key) < 2*uuidLength+1 {
		return "", "", ErrInvalidApiKey
	}
	secret = key[len(key)-uuidLength:]
	serviceId = key[len(key)-2*uuidLength-1 : len(key)-uuidLength-1]
	if key[len(key)-uuidLength-1] != '-' {
		return "", "", ErrInvalidApiKey
	}
	return serviceId, secret, nil
}

func (s *Service) token() (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: s.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", err
	}
	return jwt.Signed(signer).Claims(jwt.Claims{
		Issuer:   s.serviceId,
		IssuedAt: jwt.NewNumericDate(s.now()),
	}).Serialize()
}

// SendEmail sends the confirmation template and returns the notification id.
func (s *Service) SendEmail(ctx context.Context, email, firstName, reference string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(emailRequest{
		EmailAddress:    email,
		TemplateId:      s.templateId,
		Personalisation: map[string]string{"firstName": firstName},
		Reference:       reference,
	})
	if err != nil {
		return "", fmt.Errorf("marshal email request: %w", err)
	}

	token, err := s.token()
	if err != nil {
		return "", fmt.Errorf("sign notify token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseUrl+"/v2/notifications/email", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && len(e.Errors) > 0 {
			return "", fmt.Errorf("notify: status %d: %s: %s", resp.StatusCode, e.Errors[0].Error, e.Errors[0].Message)
		}
		return "", fmt.Errorf("notify: status %d", resp.StatusCode)
	}

	var r emailResponse
	if err = json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("decode notify response: %w", err)
	}

	s.log.Debug("email sent",
		slog.String("notification_id", r.Id),
		slog.String("reference", reference),
	)
	return r.Id, nil
}
