// Package http provides the HTTP handler layer for the flexible-date search API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flight-search/flexible-date-search/internal/adapter/http/response"
	"github.com/flight-search/flexible-date-search/internal/adapter/render"
	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/usecase"
)

// formatJSON selects the JSON representation on the matrix and deals endpoints.
const formatJSON = "json"

// errRunStillRunning rejects views that need a finished run.
var errRunStillRunning = errors.New("search run still running")

// SearchHandler handles HTTP requests for flexible-date search runs.
type SearchHandler struct {
	useCase    usecase.FlexibleSearchUseCase
	lookupName string
}

// NewSearchHandler creates a new SearchHandler with the given use case.
// lookupName is reported by the health endpoint.
func NewSearchHandler(uc usecase.FlexibleSearchUseCase, lookupName string) *SearchHandler {
	return &SearchHandler{
		useCase:    uc,
		lookupName: lookupName,
	}
}

// Estimate handles POST /api/v1/searches/estimate
//
// @Summary Estimate a search run
// @Description Validate the request, generate and sample date combinations, and report the lookup count and minimum duration. No lookups are issued.
// @Tags searches
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search criteria"
// @Success 200 {object} response.Response{data=EstimateDTO}
// @Failure 400 {object} response.Response "Validation error"
// @Router /searches/estimate [post]
func (h *SearchHandler) Estimate(c echo.Context) error {
	var req SearchRequest

	// Bind request body
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	// Validate request shape
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	est, err := h.useCase.Estimate(c.Request().Context(), ToDomainRequest(&req))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToEstimateDTO(est))
}

// StartSearch handles POST /api/v1/searches
//
// @Summary Start a search run
// @Description Validate the request and start a background batch run. Requests needing more lookups than the configured limit are rejected.
// @Tags searches
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search criteria"
// @Success 202 {object} response.Response{data=RunDTO}
// @Failure 400 {object} response.Response "Validation error"
// @Failure 429 {object} response.Response "Too many active runs"
// @Router /searches [post]
func (h *SearchHandler) StartSearch(c echo.Context) error {
	var req SearchRequest

	// Bind request body
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	// Validate request shape
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	run, err := h.useCase.Start(c.Request().Context(), ToDomainRequest(&req))
	if err != nil {
		return h.handleError(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/searches/"+run.ID)
	return response.Accepted(c, ToRunDTO(run, false))
}

// GetSearch handles GET /api/v1/searches/:id
//
// @Summary Get a search run
// @Description Return the status, progress, summary and raw outcomes of a run
// @Tags searches
// @Produce json
// @Param id path string true "Run ID"
// @Param items query bool false "Include raw outcomes (default true)"
// @Success 200 {object} response.Response{data=RunDTO}
// @Failure 404 {object} response.Response "Run not found"
// @Router /searches/{id} [get]
func (h *SearchHandler) GetSearch(c echo.Context) error {
	withItems := true
	if raw := c.QueryParam("items"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "items must be true or false")
		}
		withItems = parsed
	}

	run, err := h.useCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToRunDTO(run, withItems))
}

// GetMatrix handles GET /api/v1/searches/:id/matrix
//
// @Summary Get the price matrix of a run
// @Description Departure x return grid of cheapest prices. Missing cells are null in JSON and "-" in tables.
// @Tags searches
// @Produce json,plain
// @Param id path string true "Run ID"
// @Param format query string false "json, table or markdown" Enums(json, table, markdown)
// @Success 200 {object} response.Response{data=MatrixDTO}
// @Failure 404 {object} response.Response "Run not found"
// @Failure 409 {object} response.Response "Run still running"
// @Failure 422 {object} response.Response "Insufficient data"
// @Router /searches/{id}/matrix [get]
func (h *SearchHandler) GetMatrix(c echo.Context) error {
	format, textFormat, err := parseOutputFormat(c.QueryParam("format"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	agg, err := h.finishedAggregate(c)
	if err != nil {
		return h.handleError(c, err)
	}

	if agg.Matrix == nil {
		return response.InsufficientData(c, agg.MatrixUnavailable)
	}

	if format == formatJSON {
		return response.OK(c, ToMatrixDTO(agg.Matrix))
	}
	return response.Text(c, render.Matrix(agg.Matrix, textFormat))
}

// GetDeals handles GET /api/v1/searches/:id/deals
//
// @Summary Get the best deals of a run
// @Description Top offers ordered by the ranking chosen when the run started
// @Tags searches
// @Produce json,plain
// @Param id path string true "Run ID"
// @Param format query string false "json, table or markdown" Enums(json, table, markdown)
// @Success 200 {object} response.Response{data=[]DealDTO}
// @Failure 404 {object} response.Response "Run not found"
// @Failure 409 {object} response.Response "Run still running"
// @Router /searches/{id}/deals [get]
func (h *SearchHandler) GetDeals(c echo.Context) error {
	format, textFormat, err := parseOutputFormat(c.QueryParam("format"))
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	agg, err := h.finishedAggregate(c)
	if err != nil {
		return h.handleError(c, err)
	}

	if format == formatJSON {
		return response.OK(c, ToDealDTOs(agg.Ranked))
	}
	return response.Text(c, render.Deals(agg.Ranked, textFormat))
}

// CancelSearch handles DELETE /api/v1/searches/:id
//
// @Summary Cancel a search run
// @Description Request cancellation of a running search. Outcomes completed so far are kept.
// @Tags searches
// @Produce json
// @Param id path string true "Run ID"
// @Success 202 {object} response.Response{data=RunDTO}
// @Failure 404 {object} response.Response "Run not found"
// @Failure 409 {object} response.Response "Run not active"
// @Router /searches/{id} [delete]
func (h *SearchHandler) CancelSearch(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.useCase.Cancel(ctx, id); err != nil {
		return h.handleError(c, err)
	}

	run, err := h.useCase.Get(ctx, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Accepted(c, ToRunDTO(run, false))
}

// Health handles GET /health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *SearchHandler) Health(c echo.Context) error {
	return response.Health(c, h.lookupName)
}

// finishedAggregate loads the run and returns its aggregate. Runs that have
// not finished yet are rejected with errRunStillRunning.
func (h *SearchHandler) finishedAggregate(c echo.Context) (*domain.Aggregate, error) {
	run, err := h.useCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if !run.Status.IsFinal() || run.Aggregate == nil {
		return nil, errRunStillRunning
	}
	return run.Aggregate, nil
}

// parseOutputFormat accepts json (default) or a text format known to render.
func parseOutputFormat(value string) (string, render.Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" || normalized == formatJSON {
		return formatJSON, "", nil
	}

	textFormat, err := render.ParseFormat(normalized)
	if err != nil {
		return "", "", err
	}
	return string(textFormat), textFormat, nil
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *SearchHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return response.ValidationError(c, map[string]string{fieldErr.Field: fieldErr.Message})
	}

	// Fallback for non-structured validation errors
	return response.BadRequest(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *SearchHandler) handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return h.handleValidationError(c, err)
	case errors.Is(err, domain.ErrRunNotFound):
		return response.NotFound(c)
	case errors.Is(err, domain.ErrRunNotActive):
		return response.Conflict(c, response.MsgRunNotActive)
	case errors.Is(err, errRunStillRunning):
		return response.Conflict(c, response.MsgRunStillRunning)
	case errors.Is(err, domain.ErrInsufficientData):
		return response.InsufficientData(c, "")
	case errors.Is(err, domain.ErrRunLimitReached):
		return response.TooManyRuns(c)
	case errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)
	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	default:
		return response.InternalServerError(c)
	}
}
