// Package gateway is the shared read path to the upstream data sources: a
// caching HTTP fetcher with single-flight de-duplication and a circuit
// breaker per source.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/kleium/casters-tool/internal/platform/cache"
	"github.com/kleium/casters-tool/internal/platform/logging"
	"github.com/kleium/casters-tool/internal/platform/resilience"
)

// ErrUpstream marks any failure talking to a data source, including an open
// circuit. Handlers map it to a 503.
var ErrUpstream = crerr.New("upstream source unavailable")

// ErrNotFound marks a 404 from the source for a well-formed request.
var ErrNotFound = crerr.New("resource not found at source")

// Error carries the source name and request path of a failed fetch.
type Error struct {
	Source string
	Path   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	Name           string
	BaseURL        string
	Headers        map[string]string
	TTL            time.Duration
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Gateway fronts one upstream REST source. Successful payloads are cached
// raw for the configured TTL; concurrent fetches of the same path collapse
// into one request.
type Gateway struct {
	name           string
	baseURL        string
	headers        map[string]string
	httpClient     *http.Client
	logger         *logging.Logger
	store          *cache.Store
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func New(cfg Config) *Gateway {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Gateway{
		name:           cfg.Name,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		headers:        headers,
		httpClient:     httpClient,
		logger:         logger,
		store:          cache.NewStore(cfg.TTL),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// GetJSON fetches path (plus optional query) from the source and decodes
// the payload into target. Cached payloads are served without touching the
// network.
func (g *Gateway) GetJSON(ctx context.Context, path string, query map[string]string, target any) error {
	key := cacheKey(path, query)

	raw, err := g.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return g.fetch(ctx, path, query)
	})
	if err != nil {
		return &Error{Source: g.name, Path: path, Err: err}
	}

	payload, ok := raw.([]byte)
	if !ok {
		return &Error{Source: g.name, Path: path, Err: fmt.Errorf("unexpected cached payload type %T", raw)}
	}

	if err := sonic.Unmarshal(payload, target); err != nil {
		return &Error{Source: g.name, Path: path, Err: crerr.Wrap(err, "decode payload")}
	}

	return nil
}

// Invalidate drops every cached payload under the given path prefix.
func (g *Gateway) Invalidate(ctx context.Context, pathPrefix string) {
	g.store.DeletePrefix(ctx, pathPrefix)
}

// InvalidateAll drops the entire cache for this source.
func (g *Gateway) InvalidateAll(ctx context.Context) {
	g.store.DeletePrefix(ctx, "/")
}

func (g *Gateway) fetch(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if g.circuitEnabled {
		if err := g.breaker.Allow(); err != nil {
			g.logger.WarnContext(ctx, "circuit breaker rejected request", "source", g.name, "path", path, "state", g.breaker.State())
			return nil, crerr.Wrapf(ErrUpstream, "circuit open for %s", g.name)
		}
	}

	raw, err := g.executeRequest(ctx, path, query)
	if g.circuitEnabled {
		if err != nil && crerr.Is(err, ErrUpstream) {
			g.breaker.RecordFailure()
		} else {
			g.breaker.RecordSuccess()
		}
	}

	return raw, err
}

func (g *Gateway) executeRequest(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	fullURL := g.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		fullURL += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range g.headers {
		req.Header.Set(k, v)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(ErrUpstream, "send request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, crerr.Wrapf(ErrUpstream, "read response body: %v", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		g.logger.WarnContext(ctx, "source request failed", "source", g.name, "path", path, "status", resp.StatusCode)
		return nil, crerr.Wrapf(ErrUpstream, "source status=%d", resp.StatusCode)
	default:
		return nil, crerr.Newf("source status=%d body=%s", resp.StatusCode, abbreviate(raw))
	}
}

func cacheKey(path string, query map[string]string) string {
	if len(query) == 0 {
		return path
	}
	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	return path + "?" + values.Encode()
}

func abbreviate(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
