package anubis

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/fgcfantasy/draft-league/internal/domain/user"
	"github.com/fgcfantasy/draft-league/internal/platform/logging"
	"github.com/fgcfantasy/draft-league/internal/platform/resilience"
	"github.com/fgcfantasy/draft-league/internal/usecase"
)

var errAnubisTransient = crerr.New("anubis transient failure")

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheMaxSize   int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client verifies bearer tokens against the anubis introspection
// endpoint. Verified principals are cached by token hash so a burst of
// requests from one session costs one upstream call.
type Client struct {
	http           *fasthttp.Client
	introspectURL  string
	adminKey       string
	timeout        time.Duration
	cache          *principalCache
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	logger         *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL < 0 {
		cacheTTL = 0
	}
	cacheMaxSize := cfg.CacheMaxSize
	if cacheMaxSize <= 0 {
		cacheMaxSize = 1024
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:       strings.TrimSpace(cfg.AdminKey),
		timeout:        timeout,
		cache:          newPrincipalCache(cacheTTL, cacheMaxSize),
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		logger:         logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "anubis circuit breaker rejected request", "state", c.breaker.State())
			return user.Principal{}, fmt.Errorf("%w: anubis is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}
	if err := ctx.Err(); err != nil {
		return user.Principal{}, fmt.Errorf("introspect context done: %w", err)
	}

	body, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.introspectURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	c.logger.DebugContext(ctx, "anubis introspection request",
		"curl_preview", buildIntrospectCurlPreview(c.introspectURL, c.adminKey != ""),
	)

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		callErr := fmt.Errorf("%w: request introspection: %v", errAnubisTransient, err)
		c.recordCircuitResult(callErr)
		return user.Principal{}, fmt.Errorf("%w: anubis unreachable", usecase.ErrDependencyUnavailable)
	}

	statusCode := resp.StatusCode()
	switch {
	case statusCode == http.StatusUnauthorized:
		c.recordCircuitResult(nil)
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case statusCode == http.StatusForbidden:
		c.recordCircuitResult(nil)
		c.logger.WarnContext(ctx, "anubis rejected admin key")
		return user.Principal{}, fmt.Errorf("%w: anubis refused introspection credentials", usecase.ErrDependencyUnavailable)
	case isRetryableStatus(statusCode):
		callErr := fmt.Errorf("%w: introspection status %d", errAnubisTransient, statusCode)
		c.recordCircuitResult(callErr)
		c.logger.WarnContext(ctx, "anubis introspection transient failure", "status_code", statusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, statusCode)
	case statusCode != http.StatusOK:
		c.recordCircuitResult(nil)
		return user.Principal{}, crerr.Newf("anubis introspection failed with status %d", statusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(resp.Body(), &decoded); err != nil {
		c.recordCircuitResult(nil)
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		c.recordCircuitResult(nil)
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		c.recordCircuitResult(nil)
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	principal := user.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
		Email:    decoded.Email,
	}
	c.cache.Set(cacheKey, principal)
	c.recordCircuitResult(nil)

	return principal, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
		return
	}
	if isCircuitFailure(err) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
