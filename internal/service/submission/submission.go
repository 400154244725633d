package submission

import (
	"HereToHelp/entity"
	"HereToHelp/internal/config"
	"HereToHelp/internal/lib/sl"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrRejected marks a response the API will never accept on retry.
var ErrRejected = entity.ErrSubmissionRejected

// Service posts final submissions to the resident support requests API.
type Service struct {
	url      string
	apiKey   string
	timeout  time.Duration
	retries  uint
	interval time.Duration
	client   *http.Client
	log      *slog.Logger
}

func NewSubmissionService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		url:      conf.SupportApi.Url,
		apiKey:   conf.SupportApi.ApiKey,
		timeout:  conf.SupportApi.Timeout,
		retries:  conf.SupportApi.Retries,
		interval: 500 * time.Millisecond,
		client:   &http.Client{},
		log:      logger.With(sl.Module("submission")),
	}
}

// Submit sends the JSON body, retrying transport errors and 5xx/429 replies
// with exponential backoff. Any 2xx is accepted.
func (s *Service) Submit(ctx context.Context, reference string, body []byte) error {
	if s.url == "" {
		return fmt.Errorf("support requests api url not configured")
	}

	log := s.log.With(slog.String("reference", reference))

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.interval

	tries := s.retries + 1
	_, err := backoff.Retry(ctx, func() (int, error) {
		return s.post(ctx, body)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.With(sl.Err(err)).Warn("submission failed, retrying", slog.Duration("in", next))
		}),
	)
	if err != nil {
		log.With(sl.Err(err)).Error("submission failed")
		return err
	}

	log.Info("submission accepted")
	return nil
}

func (s *Service) post(ctx context.Context, body []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return resp.StatusCode, fmt.Errorf("support requests api: status %d", resp.StatusCode)
	default:
		return resp.StatusCode, backoff.Permanent(fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode))
	}
}
