package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/baechuer/integrations-hub/internal/logger"
)

// ErrTimeout is returned when a delivery attempt exceeds its deadline.
var ErrTimeout = errors.New("httpclient: request timed out")

// Client is the outbound webhook HTTP caller. It implements
// delivery.HTTPDelivery and delivery.TimeoutClassifier: no global
// timeout on the base client, a fresh per-call deadline instead, taken
// from the timeout the caller passes to each Post.
type Client struct {
	base *http.Client
}

func New() *Client {
	return &Client{base: &http.Client{Timeout: 0}}
}

// Post issues the signed webhook request (§4.4 step 4) and returns the
// status code and response body for the caller to classify into an
// outcome. Only an error at the transport level (not a non-2xx status)
// is returned as err.
func (c *Client) Post(ctx context.Context, url string, headers map[string]string, body []byte, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.base.Do(req)
	duration := time.Since(start)

	log := logger.WithCtx(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Str("url", url).Dur("duration", duration).Msg("webhook_delivery_timed_out")
			return 0, nil, ErrTimeout
		}
		log.Warn().Err(err).Str("url", url).Dur("duration", duration).Msg("webhook_delivery_transport_error")
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, err
	}

	log.Debug().Str("url", url).Int("status", resp.StatusCode).Dur("duration", duration).Msg("webhook_delivery_completed")
	return resp.StatusCode, respBody, nil
}

// IsTimeout implements delivery.TimeoutClassifier.
func (c *Client) IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
