package fetch

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"matchday-app/internal/model"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 32 << 20
)

// Error is a failed call to the data endpoint: a transport failure, a non-2xx
// status or an {"error": ...} payload.
type Error struct {
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0 && (e.Status < 200 || e.Status > 299):
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	case e.Message != "":
		return e.Message
	case e.Status != 0:
		return fmt.Sprintf("HTTP error! status: %d", e.Status)
	case e.Err != nil:
		return e.Err.Error()
	}
	return "request failed"
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Options struct {
	HTTPClient *http.Client
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
}

// Client talks to GET {BaseURL}/get_data/{league}[?season=...].
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = "matchday-app/1.0"
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		userAgent: userAgent,
		timeout:   timeout,
	}
}

func (c *Client) FetchLeague(ctx context.Context, league string) (model.Document, error) {
	return c.get(ctx, league, "")
}

func (c *Client) FetchSeason(ctx context.Context, league, season string) (model.Document, error) {
	return c.get(ctx, league, season)
}

func (c *Client) endpoint(league, season string) string {
	u := c.baseURL + "/get_data/" + url.PathEscape(league)
	if season != "" {
		u += "?" + url.Values{"season": {season}}.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, league, season string) (model.Document, error) {
	if strings.TrimSpace(league) == "" {
		return model.Document{}, errors.New("league is required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.endpoint(league, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Document{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Document{}, &Error{URL: endpoint, Message: fmt.Sprintf("request timed out after %s", c.timeout), Err: err}
		}
		return model.Document{}, &Error{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return model.Document{}, &Error{URL: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	log.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("took", time.Since(started)).
		Msg("data endpoint responded")

	doc, skipped, decodeErr := model.DecodeDocument(body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr := &Error{URL: endpoint, Status: resp.StatusCode}
		var serverErr *model.ServerError
		if errors.As(decodeErr, &serverErr) {
			fetchErr.Message = serverErr.Message
		}
		return model.Document{}, fetchErr
	}
	if decodeErr != nil {
		var serverErr *model.ServerError
		if errors.As(decodeErr, &serverErr) {
			return model.Document{}, &Error{URL: endpoint, Status: resp.StatusCode, Message: serverErr.Message, Err: serverErr}
		}
		return model.Document{}, &Error{URL: endpoint, Status: resp.StatusCode, Err: decodeErr}
	}
	for _, reason := range skipped {
		log.Warn().Str("url", endpoint).Str("reason", reason).Msg("skipped payload entry")
	}
	return doc, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(io.LimitReader(reader, maxBodyBytes))
}
