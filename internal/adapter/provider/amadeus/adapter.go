// Package amadeus implements the lookup collaborator against the Amadeus
// Self-Service flight offers API.
package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/retry"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// ProviderName is the unique identifier of the Amadeus lookup.
const ProviderName = "amadeus"

// DefaultBaseURL is the Amadeus test environment.
const DefaultBaseURL = "https://test.api.amadeus.com"

const (
	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	// tokenExpiryMargin renews tokens slightly before the server expires them
	tokenExpiryMargin = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 64 << 10
)

// ErrMissingCredentials is returned by NewAdapter without an API key or secret.
var ErrMissingCredentials = errors.New("amadeus API key and secret are required")

// Config holds the adapter configuration.
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string

	// HTTPClient is used for every request; nil uses a client with a 30s timeout
	HTTPClient *http.Client

	// Retry applies to each lookup; zero value uses retry.LookupConfig
	Retry retry.Config

	// Clock drives token expiry; nil uses the real clock
	Clock timeutil.Clock
}

// Adapter implements domain.FlightLookup over the Amadeus API.
type Adapter struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	retryCfg   retry.Config
	clock      timeutil.Clock
	logger     zerolog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	tokens    singleflight.Group
}

// NewAdapter creates an adapter.
func NewAdapter(cfg Config, logger zerolog.Logger) (*Adapter, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.LookupConfig
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.NewRealClock()
	}

	a := &Adapter{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: cfg.HTTPClient,
		clock:      cfg.Clock,
		logger:     logger.With().Str("lookup", ProviderName).Logger(),
	}
	a.retryCfg = cfg.Retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		a.logger.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying flight offers request")
	})
	return a, nil
}

// Name implements domain.FlightLookup.
func (a *Adapter) Name() string {
	return ProviderName
}

// Lookup implements domain.FlightLookup.
//
// Rate limiting and server errors are retried with backoff; other client
// errors fail at once. The returned error is always a *domain.LookupError.
func (a *Adapter) Lookup(ctx context.Context, req domain.LookupRequest) ([]domain.Offer, error) {
	body, err := json.Marshal(buildSearchRequest(req))
	if err != nil {
		return nil, domain.NewLookupError(ProviderName, fmt.Errorf("encoding request: %w", err))
	}

	offers, err := retry.DoWithResult(ctx, a.retryCfg, func() ([]domain.Offer, error) {
		return a.searchOnce(ctx, body, req.Currency)
	})
	if err != nil {
		return nil, classify(err)
	}
	return offers, nil
}

// buildSearchRequest maps a lookup to the flight-offers body. Round trips
// and open-jaw routes send a second origin-destination for the return.
func buildSearchRequest(req domain.LookupRequest) searchRequest {
	out := req.Route.Outbound
	body := searchRequest{
		CurrencyCode: req.Currency,
		OriginDestinations: []originDestination{{
			ID:                      "1",
			OriginLocationCode:      out.Origin,
			DestinationLocationCode: out.Destination,
			DepartureDateTimeRange:  dateTimeRange{Date: timeutil.FormatDate(req.Departure)},
		}},
		Sources:        []string{"GDS"},
		SearchCriteria: searchCriteria{MaxFlightOffers: req.MaxResults},
	}

	if req.Return != nil {
		in := req.Route.Inbound()
		body.OriginDestinations = append(body.OriginDestinations, originDestination{
			ID:                      "2",
			OriginLocationCode:      in.Origin,
			DestinationLocationCode: in.Destination,
			DepartureDateTimeRange:  dateTimeRange{Date: timeutil.FormatDate(*req.Return)},
		})
	}

	passengers := req.Passengers
	if passengers < 1 {
		passengers = 1
	}
	for i := 1; i <= passengers; i++ {
		body.Travelers = append(body.Travelers, traveler{ID: strconv.Itoa(i), TravelerType: "ADULT"})
	}
	return body
}

// searchOnce performs one attempt. A 401 drops the cached token and the
// request is repeated once with a fresh one.
func (a *Adapter) searchOnce(ctx context.Context, body []byte, currency string) ([]domain.Offer, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	offers, err := a.postOffers(ctx, token, body, currency)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		a.invalidate(token)
		if token, err = a.accessToken(ctx); err != nil {
			return nil, err
		}
		offers, err = a.postOffers(ctx, token, body, currency)
	}
	return offers, err
}

func (a *Adapter) postOffers(ctx context.Context, token string, body []byte, currency string) ([]domain.Offer, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+offersPath, bytes.NewReader(body))
	if err != nil {
		return nil, retry.NewPermanent(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-HTTP-Method-Override", "GET")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("flight offers request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, a.responseError(resp)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, retry.NewPermanent(fmt.Errorf("decoding flight offers: %w", err))
	}
	return normalize(parsed.Data, currency, a.logger), nil
}

// accessToken returns a cached token or fetches a new one. Concurrent
// callers share a single fetch.
func (a *Adapter) accessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	if a.token != "" && a.clock.Now().Before(a.expiresAt) {
		token := a.token
		a.mu.Unlock()
		return token, nil
	}
	a.mu.Unlock()

	v, err, _ := a.tokens.Do("token", func() (interface{}, error) {
		return retry.DoWithResult(ctx, retry.TokenConfig, func() (string, error) {
			return a.fetchToken(ctx)
		})
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			// rejected credentials will not improve on retry
			return "", retry.NewPermanent(err)
		}
		return "", err
	}
	return v.(string), nil
}

func (a *Adapter) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.apiKey},
		"client_secret": {a.apiSecret},
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", retry.NewPermanent(err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", a.responseError(resp)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", retry.NewPermanent(fmt.Errorf("decoding token: %w", err))
	}
	if tok.AccessToken == "" {
		return "", retry.NewPermanent(errors.New("token response without access_token"))
	}

	a.mu.Lock()
	a.token = tok.AccessToken
	a.expiresAt = a.clock.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryMargin)
	a.mu.Unlock()

	a.logger.Debug().Int("expires_in", tok.ExpiresIn).Msg("access token refreshed")
	return tok.AccessToken, nil
}

// invalidate drops the cached token if it is still the one that was rejected.
func (a *Adapter) invalidate(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == token {
		a.token = ""
		a.expiresAt = time.Time{}
	}
}

// responseError converts a non-200 response into an *APIError marked for
// the retry package: permanent unless retryable, with a Retry-After hint.
func (a *Adapter) responseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope errorResponse
	if json.Unmarshal(data, &envelope) == nil && len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		apiErr.Code = first.Code
		if first.Title != "" {
			apiErr.Title = first.Title
		}
		apiErr.Detail = first.Detail
	}

	// a 401 is handled by searchOnce before the retry package sees it
	if !apiErr.Retryable() {
		return retry.NewPermanent(apiErr)
	}
	if wait, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
		return retry.After(apiErr, wait)
	}
	return apiErr
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// classify wraps a final error as a domain lookup error.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewLookupError(ProviderName, err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Retryable() {
			return domain.NewRetryableLookupError(ProviderName, apiErr)
		}
		return domain.NewLookupError(ProviderName, apiErr)
	}

	// transport failures
	return domain.NewRetryableLookupError(ProviderName, fmt.Errorf("%w: %v", domain.ErrLookupUnavailable, err))
}

var _ domain.FlightLookup = (*Adapter)(nil)
