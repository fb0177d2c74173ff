// Package ohsome is a small client for the ohsome-stats API, which reports
// OpenStreetMap contribution totals per changeset hashtag.
package ohsome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/partnerstats/internal/app/system/normalize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public ohsome-stats API.
const DefaultBaseURL = "https://stats.now.ohsome.org/api"

// ErrUnexpectedStatus is returned when the API answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("ohsome: unexpected status")

// Stats are the totals ohsome reports for one hashtag. Fields keeps the
// decoded object as-is so values without a typed field are not lost.
type Stats struct {
	Hashtag    string  `json:"hashtag"`
	Changesets float64 `json:"changesets"`
	Users      float64 `json:"users"`
	Roads      float64 `json:"roads"`
	Buildings  float64 `json:"buildings"`
	Edits      float64 `json:"edits"`
	Latest     string  `json:"latest"`

	Fields map[string]any `json:"-"`
}

// LatestTime parses Latest. ok is false when it is empty or not RFC 3339.
func (s Stats) LatestTime() (t time.Time, ok bool) {
	if s.Latest == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s.Latest)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Client queries the ohsome-stats API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	Log        *zap.Logger
}

// New creates a client. An empty baseURL selects DefaultBaseURL; a
// non-positive timeout selects 10 seconds.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		Log:        logger,
	}
}

type hashtagResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// HashtagStats fetches totals for hashtag. The hashtag is normalized before
// it is used in the path and as the result key.
//
// A response without a result, with an empty result, or without an entry
// for the hashtag yields (nil, nil).
func (c *Client) HashtagStats(ctx context.Context, hashtag string) (*Stats, error) {
	key := normalize.Hashtag(hashtag)
	if key == "" {
		return nil, nil
	}

	reqURL := c.baseURL + "/stats/hashtags/" + url.PathEscape(key)

	raw, err := c.fetch(ctx, reqURL, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	// Fields is authoritative; the typed fields are filled where the
	// values have the expected types.
	var stats Stats
	if err := json.Unmarshal(raw, &stats.Fields); err != nil {
		return nil, fmt.Errorf("decode ohsome stats for %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.Log.Debug("ohsome stats field type mismatch",
			zap.String("hashtag", key),
			zap.Error(err))
	}
	return &stats, nil
}

// fetch performs the request and returns the raw entry for key, or nil when
// the result has none.
func (c *Client) fetch(ctx context.Context, reqURL, key string) (json.RawMessage, error) {
	reqID := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ohsome hashtag stats (request %s): %w", reqID, err)
	}
	defer resp.Body.Close()

	c.Log.Debug("ohsome stats response",
		zap.String("hashtag", key),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d %s (request %s)", ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode), reqID)
	}

	var body hashtagResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode ohsome response (request %s): %w", reqID, err)
	}

	raw, ok := body.Result[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	return raw, nil
}
