package api

import (
	"errors"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/wealthproj/projection-engine/internal/calculation"
	"github.com/wealthproj/projection-engine/internal/domain"
)

// ProjectionRequest is the POST /project payload: an asset snapshot,
// the projection parameters, and the applicable tax rule sets.
type ProjectionRequest struct {
	Assets      []domain.AssetRecord    `json:"assets"`
	Projection  domain.ProjectionConfig `json:"projection"`
	TaxRuleSets []domain.TaxRuleSet     `json:"taxRuleSets,omitempty"`
	Defaults    *domain.EngineDefaults  `json:"defaults,omitempty"`
}

// ErrorResponse is the error envelope returned for failed requests.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Handler serves projection requests over fasthttp. The engine itself
// stays free of I/O; the handler only decodes, delegates, and encodes.
type Handler struct {
	Logger calculation.Logger
}

// NewHandler creates a handler.
func NewHandler(logger calculation.Logger) *Handler {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Handler{Logger: logger}
}

// Route dispatches fasthttp requests.
func (h *Handler) Route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/project":
		h.HandleProjection(ctx)
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

// HandleProjection runs one projection for a POSTed snapshot.
func (h *Handler) HandleProjection(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ProjectionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ruleSets, err := domain.NewTaxRuleSets(req.TaxRuleSets)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid tax rule sets: "+err.Error())
		return
	}

	engine := calculation.NewProjectionEngine()
	if req.Defaults != nil {
		engine = calculation.NewProjectionEngineWithDefaults(*req.Defaults)
	}
	engine.SetLogger(h.Logger)

	result, err := engine.Generate(req.Assets, &req.Projection, ruleSets)
	if err != nil {
		status := fasthttp.StatusUnprocessableEntity
		if errors.Is(err, calculation.ErrInvalidInput) || errors.Is(err, calculation.ErrNoTaxRuleSet) {
			status = fasthttp.StatusBadRequest
		}
		writeError(ctx, status, err.Error())
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.Logger.Errorf("encoding projection result: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to encode result")
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetBody(body)
}
