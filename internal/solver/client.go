// File: internal/solver/client.go
package solver

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/driftline/internal/config"
)

// successCode is the API's marker for a solved image.
const successCode = 10000

// Client talks to an external slider-captcha solving service. The service
// takes a base64 screenshot of the puzzle and answers with the horizontal
// offset, in image pixels, the piece has to travel.
type Client struct {
	cfg        config.SolverConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type solveRequest struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	Image string `json:"image"`
}

type solveResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Code int    `json:"code"`
		Data string `json:"data"`
	} `json:"data"`
}

// NewClient initializes the client.
func NewClient(cfg config.SolverConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("solver endpoint is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("solver token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// resilience: rate limiter for the external service. gotta be a
		// good net citizen.
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		logger:  logger.Named("solver"),
	}, nil
}

// SolveSlider submits a puzzle screenshot and returns the reported offset
// in image pixels. Network failures and 5xx answers are retried with
// exponential backoff; rejections and malformed answers are final.
func (c *Client) SolveSlider(ctx context.Context, image []byte) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for solver rate limit: %w", err)
	}

	body, err := json.Marshal(solveRequest{
		Token: c.cfg.Token,
		Type:  c.cfg.SolverType,
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal solve request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 90 * time.Second
	b.MaxInterval = 15 * time.Second

	var offset float64

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		startTime := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Network error during solve request, retrying...", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= http.StatusInternalServerError {
				c.logger.Warn("Solver service error, retrying...", zap.Int("status", resp.StatusCode))
				return fmt.Errorf("solver returned status %d", resp.StatusCode)
			}
			return backoff.Permanent(fmt.Errorf("solver returned status %d: %s", resp.StatusCode, respBody))
		}

		var decoded solveResponse
		if err := json.Unmarshal(respBody, &decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode solver response: %w", err))
		}
		if decoded.Code != successCode {
			return backoff.Permanent(fmt.Errorf("solver rejected the image (code %d): %s", decoded.Code, decoded.Msg))
		}

		parsed, err := strconv.ParseFloat(strings.TrimSpace(decoded.Data.Data), 64)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("solver offset %q is not numeric: %w", decoded.Data.Data, err))
		}

		c.logger.Debug("slider solved",
			zap.Float64("offset", parsed),
			zap.Duration("duration", time.Since(startTime)),
		)
		offset = parsed
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return 0, err
	}
	return offset, nil
}
