// Package integration provides helpers and integration tests for the flexible-date search engine.
// Integration tests verify that components work together correctly: the HTTP
// handlers, the use case, the rate governor, the run stores and the fixture lookup.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	httpAdapter "github.com/flight-search/flexible-date-search/internal/adapter/http"
	"github.com/flight-search/flexible-date-search/internal/adapter/http/middleware"
	"github.com/flight-search/flexible-date-search/internal/adapter/provider/fixture"
	"github.com/flight-search/flexible-date-search/internal/adapter/store/memory"
	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/logger"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/ratelimit"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
	"github.com/flight-search/flexible-date-search/internal/usecase"
	"github.com/flight-search/flexible-date-search/test/testutil"
)

// Engine bundles a use case with the collaborators tests inspect.
type Engine struct {
	UseCase  usecase.FlexibleSearchUseCase
	Governor *ratelimit.Governor
	Clock    *timeutil.MockClock
	Store    domain.RunStore
	Lookup   domain.FlightLookup
}

// EngineOptions customizes NewEngine. Zero values use defaults.
type EngineOptions struct {
	Lookup domain.FlightLookup
	Store  domain.RunStore
	Quota  ratelimit.Config
	Config *usecase.Config
}

// NewEngine wires the engine the way the server does, with a mock clock so
// governor waits complete instantly.
func NewEngine(t *testing.T, opts EngineOptions) *Engine {
	t.Helper()

	clock := timeutil.NewMockClockFromString("2025-10-01T09:00:00Z")
	if opts.Lookup == nil {
		opts.Lookup = fixture.NewAdapter(testutil.FixturePath(t, "routes.json"))
	}
	if opts.Store == nil {
		opts.Store = memory.New()
	}

	governor := ratelimit.New(opts.Quota, clock, zerolog.Nop())
	executor := usecase.NewBatchExecutor(governor, clock, 5*time.Second, zerolog.Nop())
	uc := usecase.NewFlexibleSearchUseCase(opts.Lookup, executor, opts.Store, clock, logger.Nop(), opts.Config)

	t.Cleanup(func() {
		_ = uc.Shutdown(context.Background())
	})

	return &Engine{
		UseCase:  uc,
		Governor: governor,
		Clock:    clock,
		Store:    opts.Store,
		Lookup:   opts.Lookup,
	}
}

// TestServer wraps an Echo instance and provides helper methods for integration testing.
type TestServer struct {
	Echo   *echo.Echo
	Engine *Engine
}

// NewTestServer creates a test server around the engine with the production middleware.
func NewTestServer(engine *Engine) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.Setup(e, zerolog.Nop())
	handler := httpAdapter.NewSearchHandler(engine.UseCase, engine.Lookup.Name())
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:   e,
		Engine: engine,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	RawBody     string
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	switch {
	case req.RawBody != "":
		bodyReader = bytes.NewReader([]byte(req.RawBody))
	case req.Body != nil:
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	default:
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil || req.RawBody != "" {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// Estimate posts a body to the estimate endpoint.
func (ts *TestServer) Estimate(body interface{}) Response {
	return ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/searches/estimate", Body: body})
}

// StartSearch posts a body to the searches endpoint.
func (ts *TestServer) StartSearch(body interface{}) Response {
	return ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/searches", Body: body})
}

// GetSearch fetches a run by ID.
func (ts *TestServer) GetSearch(id string) Response {
	return ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/searches/" + id})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{Method: http.MethodGet, Path: "/health"})
}

// WaitForRun polls the run until it reaches a final status.
func (ts *TestServer) WaitForRun(t *testing.T, id string) httpAdapter.RunDTO {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp := ts.GetSearch(id)
		if resp.Code != http.StatusOK {
			t.Fatalf("GET run %s: status %d: %s", id, resp.Code, resp.Body)
		}
		var run httpAdapter.RunDTO
		if err := resp.Decode(&run); err != nil {
			t.Fatalf("decode run %s: %v", id, err)
		}
		if domain.RunStatus(run.Status).IsFinal() {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s did not finish in time", id)
	return httpAdapter.RunDTO{}
}

// ResponseEnvelope mirrors response.Response with a raw data field.
type ResponseEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// Envelope parses the standard response envelope.
func (r *Response) Envelope() (*ResponseEnvelope, error) {
	var env ResponseEnvelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Decode unmarshals the envelope data into v.
func (r *Response) Decode(v interface{}) error {
	env, err := r.Envelope()
	if err != nil {
		return err
	}
	return json.Unmarshal(env.Data, v)
}

// SearchBody is a helper struct for building search request bodies.
type SearchBody struct {
	Routes       []map[string]string    `json:"routes"`
	Departure    map[string]string      `json:"departure"`
	Return       map[string]string      `json:"return,omitempty"`
	Stay         map[string]int         `json:"stay"`
	SampleTarget int                    `json:"sampleTarget,omitempty"`
	Currency     string                 `json:"currency,omitempty"`
	Ranking      string                 `json:"ranking,omitempty"`
	TopN         int                    `json:"topN,omitempty"`
	Filter       map[string]interface{} `json:"filter,omitempty"`
}

// DefaultSearchBody returns ZRH-LIS with a 3x3 date grid and stays of at
// least five days, giving nine combinations.
func DefaultSearchBody() SearchBody {
	return SearchBody{
		Routes:    []map[string]string{{"origin": "ZRH", "destination": "LIS"}},
		Departure: map[string]string{"start": "2025-11-10", "end": "2025-11-12"},
		Return:    map[string]string{"start": "2025-11-20", "end": "2025-11-22"},
		Stay:      map[string]int{"min": 5},
	}
}

// DefaultSearchRequest is DefaultSearchBody as a domain request.
func DefaultSearchRequest(t *testing.T) domain.FlexibleSearchRequest {
	t.Helper()
	ret := testutil.Range(t, "2025-11-20", "2025-11-22")
	return domain.FlexibleSearchRequest{
		Routes:    []domain.RouteSpec{domain.NewRoute("ZRH", "LIS")},
		Departure: testutil.Range(t, "2025-11-10", "2025-11-12"),
		Return:    &ret,
		Stay:      domain.StayConstraint{Min: 5},
	}
}
