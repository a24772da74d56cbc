package api

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/wealthproj/projection-engine/internal/domain"
)

func postJSON(t *testing.T, h *Handler, path string, payload any) *fasthttp.RequestCtx {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetBody(body)
	h.Route(ctx)
	return ctx
}

func sampleRequest() ProjectionRequest {
	return ProjectionRequest{
		Assets: []domain.AssetRecord{
			{
				ID:           "savings",
				AssetClass:   domain.AssetClassCash,
				HoldingType:  domain.HoldingPersonal,
				CurrentValue: decimal.NewFromInt(10000),
				IncomeYield:  decimal.NewFromFloat(0.02),
			},
		},
		Projection: domain.ProjectionConfig{
			HorizonYears:        1,
			Scenario:            domain.ScenarioMedium,
			IncludeIncome:       true,
			ReinvestIncome:      true,
			EnabledAssetClasses: []domain.AssetClass{domain.AssetClassCash},
			EnabledHoldingTypes: []domain.HoldingType{domain.HoldingPersonal},
		},
	}
}

func TestHandleProjection_Success(t *testing.T) {
	h := NewHandler(nil)

	ctx := postJSON(t, h, "/project", sampleRequest())
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "body: %s", ctx.Response.Body())

	var result domain.ProjectionResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &result))
	require.Len(t, result.NetWorth, 2)

	// 10,000 at 2% with monthly compounding reinvested for one year.
	expected := decimal.NewFromFloat(10201.84)
	diff := result.NetWorth[1].Sub(expected).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)), "expected ~%s, got %s", expected, result.NetWorth[1])
}

func TestHandleProjection_MethodNotAllowed(t *testing.T) {
	h := NewHandler(nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/project")
	h.Route(ctx)

	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestHandleProjection_MalformedBody(t *testing.T) {
	h := NewHandler(nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/project")
	ctx.Request.SetBodyString("{not json")
	h.Route(ctx)

	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	assert.Equal(t, fasthttp.StatusBadRequest, envelope.Status)
	assert.Contains(t, envelope.Message, "invalid request body")
}

func TestHandleProjection_InvalidConfig(t *testing.T) {
	h := NewHandler(nil)

	req := sampleRequest()
	req.Projection.HorizonYears = 0
	ctx := postJSON(t, h, "/project", req)

	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	assert.Contains(t, envelope.Message, "horizon")
}

func TestHandleProjection_MissingRuleSet(t *testing.T) {
	h := NewHandler(nil)

	req := sampleRequest()
	req.Projection.ReinvestIncome = false
	req.Projection.CalculateAfterTax = true
	req.Projection.Country = "AU" // no rule sets supplied
	ctx := postJSON(t, h, "/project", req)

	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	assert.Contains(t, envelope.Message, "no tax rule set")
}

func TestRoute_Health(t *testing.T) {
	h := NewHandler(nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/healthz")
	h.Route(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestRoute_NotFound(t *testing.T) {
	h := NewHandler(nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/nope")
	h.Route(ctx)

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}
