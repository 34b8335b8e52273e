package streamed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/streamgoal/match-portal/internal/platform/logging"
	"github.com/streamgoal/match-portal/internal/platform/resilience"
	"github.com/streamgoal/match-portal/internal/usecase"
	"github.com/valyala/fasthttp"
)

const defaultBaseURL = "https://streamed.pk"

var errStreamedTransient = crerr.New("streamed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	ProbeTimeout   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the streamed matches API. Collection fetches go through
// net/http with a circuit breaker and in-flight deduplication; stream probes
// use a dedicated fasthttp client with a short timeout since they run in
// wide fan-out and must fail fast.
type Client struct {
	httpClient     *http.Client
	probeClient    *fasthttp.Client
	probeTimeout   time.Duration
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: httpClient,
		probeClient: &fasthttp.Client{
			ReadTimeout:         probeTimeout,
			WriteTimeout:        probeTimeout,
			MaxIdleConnDuration: time.Minute,
		},
		probeTimeout:   probeTimeout,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type apiMatch struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     int64  `json:"date"`
	Poster   string `json:"poster"`
	Popular  bool   `json:"popular"`
	Teams    *struct {
		Home *apiTeam `json:"home"`
		Away *apiTeam `json:"away"`
	} `json:"teams"`
	Sources []struct {
		Source string `json:"source"`
		ID     string `json:"id"`
	} `json:"sources"`
}

type apiTeam struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

type apiSport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiStream struct {
	ID       string `json:"id"`
	StreamNo int    `json:"streamNo"`
	Language string `json:"language"`
	HD       bool   `json:"hd"`
	EmbedURL string `json:"embedUrl"`
	Source   string `json:"source"`
}

// FetchCollection fetches one raw match collection
// (live, all, all-today or a sport id).
func (c *Client) FetchCollection(ctx context.Context, collection string) ([]usecase.UpstreamMatch, error) {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name is required", usecase.ErrInvalidInput)
	}

	var payload []apiMatch
	if err := c.doJSON(ctx, "/api/matches/"+url.PathEscape(collection), &payload); err != nil {
		return nil, fmt.Errorf("fetch collection %q: %w", collection, err)
	}

	out := make([]usecase.UpstreamMatch, 0, len(payload))
	for _, item := range payload {
		out = append(out, mapAPIMatch(item))
	}

	return out, nil
}

// FetchSports lists the provider's sport catalogue.
func (c *Client) FetchSports(ctx context.Context) ([]usecase.UpstreamSport, error) {
	var payload []apiSport
	if err := c.doJSON(ctx, "/api/sports", &payload); err != nil {
		return nil, fmt.Errorf("fetch sports: %w", err)
	}

	out := make([]usecase.UpstreamSport, 0, len(payload))
	for _, item := range payload {
		out = append(out, usecase.UpstreamSport{ID: item.ID, Name: item.Name})
	}

	return out, nil
}

// FetchStreams probes one (source, id) pair for candidate streams. Any
// transport or decode failure is returned as an error so callers can treat
// the source as unwatchable.
func (c *Client) FetchStreams(ctx context.Context, source, id string) ([]usecase.UpstreamStream, error) {
	source = strings.TrimSpace(source)
	id = strings.TrimSpace(id)
	if source == "" || id == "" {
		return nil, fmt.Errorf("%w: source and id are required", usecase.ErrInvalidInput)
	}

	deadline := c.probeTimeout
	if ctxDeadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(ctxDeadline); remaining < deadline {
			deadline = remaining
		}
	}
	if deadline <= 0 {
		return nil, ctx.Err()
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/api/stream/" + url.PathEscape(source) + "/" + url.PathEscape(id))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.probeClient.DoTimeout(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("probe stream %s/%s: %w", source, id, err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return nil, fmt.Errorf("probe stream %s/%s: status=%d", source, id, code)
	}

	var payload []apiStream
	if err := sonic.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("probe stream %s/%s: decode payload: %w", source, id, err)
	}

	out := make([]usecase.UpstreamStream, 0, len(payload))
	for _, item := range payload {
		out = append(out, usecase.UpstreamStream{
			ID:       item.ID,
			StreamNo: item.StreamNo,
			Language: item.Language,
			HD:       item.HD,
			EmbedURL: item.EmbedURL,
			Source:   item.Source,
		})
	}

	return out, nil
}

// BadgeURL resolves a badge path fragment to an absolute webp URL. Empty
// input yields an empty string so callers can omit the field entirely.
func (c *Client) BadgeURL(badgePath string) string {
	if badgePath == "" {
		return ""
	}
	return c.baseURL + "/api/images/badge/" + strings.TrimPrefix(badgePath, "/") + ".webp"
}

// PosterURL resolves poster values, which arrive as full URLs, /api/images/
// relative paths, or bare path fragments.
func (c *Client) PosterURL(posterPath string) string {
	switch {
	case posterPath == "":
		return ""
	case strings.HasPrefix(posterPath, "http://"), strings.HasPrefix(posterPath, "https://"):
		return posterPath
	case strings.HasPrefix(posterPath, "/api/images/"):
		if strings.HasSuffix(posterPath, ".webp") {
			return c.baseURL + posterPath
		}
		return c.baseURL + posterPath + ".webp"
	default:
		return c.baseURL + "/api/images/poster/" + strings.TrimPrefix(posterPath, "/") + ".webp"
	}
}

func mapAPIMatch(item apiMatch) usecase.UpstreamMatch {
	out := usecase.UpstreamMatch{
		ID:       item.ID,
		Title:    item.Title,
		Category: item.Category,
		Date:     item.Date,
		Poster:   item.Poster,
		Popular:  item.Popular,
	}
	if item.Teams != nil {
		teams := &usecase.UpstreamTeams{}
		if item.Teams.Home != nil {
			teams.Home = &usecase.UpstreamTeam{Name: item.Teams.Home.Name, Badge: item.Teams.Home.Badge}
		}
		if item.Teams.Away != nil {
			teams.Away = &usecase.UpstreamTeam{Name: item.Teams.Away.Name, Badge: item.Teams.Away.Badge}
		}
		out.Teams = teams
	}
	for _, src := range item.Sources {
		out.Sources = append(out.Sources, usecase.UpstreamSource{Source: src.Source, ID: src.ID})
	}
	return out
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "streamed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isStreamedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errStreamedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStreamedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStreamedTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "streamed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isStreamedCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errStreamedTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
