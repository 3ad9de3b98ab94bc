package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/littlelemon/internal/domain/reservation"
)

// Client hands confirmed reservations to an external reservation service over
// JSON/HTTP. It implements reservation.Backend.
type Client struct {
	hc       *http.Client
	endpoint string
	apiKey   string
	now      func() time.Time
}

type Options struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

func New(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("remote endpoint is required")
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{hc: hc, endpoint: endpoint, apiKey: opts.APIKey, now: time.Now}, nil
}

type reserveRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Guests          int    `json:"guests"`
	Occasion        string `json:"occasion"`
	SpecialRequests string `json:"specialRequests"`
}

type reserveResponse struct {
	Confirmation string `json:"confirmation"`
	Message      string `json:"message"`
}

// Reserve implements reservation.Backend. Any non-2xx response is a failure; the
// service's message field is carried into the error when present.
func (c *Client) Reserve(ctx context.Context, r reservation.Reservation) (reservation.Confirmation, error) {
	jb, err := json.Marshal(reserveRequest{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		Date:            r.Date.Format("2006-01-02"),
		Time:            r.Time,
		Guests:          r.Guests,
		Occasion:        string(r.Occasion),
		SpecialRequests: r.SpecialRequests,
	})
	if err != nil {
		return reservation.Confirmation{}, err
	}

	status, body, err := c.do(ctx, http.MethodPost, jb)
	if err != nil {
		return reservation.Confirmation{}, fmt.Errorf("remote reserve: %w", err)
	}

	var res reserveResponse
	_ = json.Unmarshal(body, &res)
	if status < 200 || status > 299 {
		if res.Message != "" {
			return reservation.Confirmation{}, fmt.Errorf("remote reserve failed: %s (status=%d)", res.Message, status)
		}
		return reservation.Confirmation{}, fmt.Errorf("remote reserve failed (status=%d)", status)
	}
	if strings.TrimSpace(res.Confirmation) == "" {
		return reservation.Confirmation{}, fmt.Errorf("remote reserve: response has no confirmation (status=%d)", status)
	}
	return reservation.Confirmation{Code: res.Confirmation, CreatedAt: c.now()}, nil
}

func (c *Client) do(ctx context.Context, method string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}

var _ reservation.Backend = (*Client)(nil)
