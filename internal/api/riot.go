package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/MahdiRahman4/CodeJam2025/internal/config"
	"github.com/MahdiRahman4/CodeJam2025/internal/constants"
	"github.com/MahdiRahman4/CodeJam2025/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const tokenHeader = "X-Riot-Token"

const (
	EndpointAccount  = "account"
	EndpointMatchIDs = "match_ids"
	EndpointMatch    = "match"
)

var ErrMalformedPayload = errors.New("malformed upstream payload")

// APIError is how every upstream failure is reported. Status is the final
// HTTP status, or 0 when the request never produced a response.
type APIError struct {
	Status int
	URL    string
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("riot api %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("riot api %s: status %d", e.URL, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusOf returns the upstream status carried by err, or -1 if err did not
// come from the client.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// Region is one regional routing endpoint. Name is the first host label.
type Region struct {
	Name    string
	BaseURL string
}

func NewRegion(baseURL string) Region {
	return Region{Name: regionName(baseURL), BaseURL: strings.TrimRight(baseURL, "/")}
}

func regionName(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return baseURL
	}
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return u.Host
	}
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	return host
}

type RiotClient struct {
	apiKey      string
	accountBase string
	regions     []Region
	timeout     time.Duration

	client   *fasthttp.Client
	limiter  *RateLimiter
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	// replaced in tests to observe 429 backoff without waiting
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRiotClient(cfg *config.Config, limiter *RateLimiter, m *metrics.Metrics, logger zerolog.Logger) *RiotClient {
	regions := make([]Region, 0, len(cfg.RegionalBaseURLs))
	for _, base := range cfg.RegionalBaseURLs {
		regions = append(regions, NewRegion(base))
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = constants.ExternalAPITimeout
	}

	return &RiotClient{
		apiKey:      cfg.RiotAPIKey,
		accountBase: strings.TrimRight(cfg.AccountBaseURL, "/"),
		regions:     regions,
		timeout:     timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter:  limiter,
		validate: validator.New(),
		metrics:  m,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Regions returns the regional endpoints in failover order.
func (c *RiotClient) Regions() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	return out
}

func (c *RiotClient) GetAccount(ctx context.Context, gameName, tagLine string) (*AccountResponse, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s", c.accountBase, url.PathEscape(gameName), url.PathEscape(tagLine))
	return doRequest[AccountResponse](ctx, c, EndpointAccount, u)
}

func (c *RiotClient) GetMatchIDs(ctx context.Context, region Region, puuid string, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?count=%d", region.BaseURL, url.PathEscape(puuid), count)
	ids, err := doRequest[[]string](ctx, c, EndpointMatchIDs, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) GetMatch(ctx context.Context, region Region, matchID string) (*MatchResponse, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", region.BaseURL, url.PathEscape(matchID))
	return doRequest[MatchResponse](ctx, c, EndpointMatch, u)
}

func doRequest[T any](ctx context.Context, client *RiotClient, endpoint, url string) (*T, error) {
	body, err := client.get(ctx, endpoint, url)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &APIError{Status: fasthttp.StatusOK, URL: url, Err: fmt.Errorf("%w: %v", ErrMalformedPayload, err)}
	}

	if reflect.TypeOf(result).Kind() == reflect.Struct {
		if err := client.validate.Struct(&result); err != nil {
			return nil, &APIError{Status: fasthttp.StatusOK, URL: url, Err: fmt.Errorf("%w: %v", ErrMalformedPayload, err)}
		}
	}
	return &result, nil
}

// get is the single outbound path: pace, issue, and on 429 back off for
// Retry-After+1 seconds and retry exactly once.
func (c *RiotClient) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	status, retryAfter, body, err := c.issue(ctx, url)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, 0)
		c.logger.Warn().Err(err).Str("url", url).Msg("upstream request failed")
		return nil, &APIError{Status: 0, URL: url, Err: err}
	}

	if status == fasthttp.StatusTooManyRequests {
		c.metrics.ObserveThrottled()
		backoff := parseRetryAfter(retryAfter) + constants.RetryAfterPadding
		c.logger.Warn().
			Str("url", url).
			Dur("backoff", backoff).
			Msg("rate limited by upstream, retrying once")

		if err := c.sleep(ctx, backoff); err != nil {
			c.metrics.ObserveRequest(endpoint, 0)
			return nil, &APIError{Status: 0, URL: url, Err: err}
		}

		status, _, body, err = c.issue(ctx, url)
		if err != nil {
			c.metrics.ObserveRequest(endpoint, 0)
			c.logger.Warn().Err(err).Str("url", url).Msg("upstream retry failed")
			return nil, &APIError{Status: 0, URL: url, Err: err}
		}
	}

	c.metrics.ObserveRequest(endpoint, status)

	if status != fasthttp.StatusOK {
		c.logger.Warn().
			Int("status", status).
			Str("url", url).
			Str("body", truncate(body, 200)).
			Msg("non-200 status from upstream")
		return nil, &APIError{Status: status, URL: url}
	}
	return body, nil
}

func (c *RiotClient) issue(ctx context.Context, url string) (int, string, []byte, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return 0, "", nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(tokenHeader, c.apiKey)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, "", nil, err
		}
	} else if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return 0, "", nil, err
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), string(resp.Header.Peek("Retry-After")), body, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return constants.DefaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
