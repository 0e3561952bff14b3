package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/custdir/api/transport"
	"github.com/fastygo/custdir/domain"
	"github.com/fastygo/custdir/internal/infrastructure/monitor"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrCustomerNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicateEmail, http.StatusConflict, "CONFLICT"},
		{domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.WrapError(domain.ErrCodePersistence, "persist directory", assert.AnError), http.StatusInternalServerError, "PERSISTENCE"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

type staticStatus monitor.Status

func (s staticStatus) GetStatus() monitor.Status { return monitor.Status(s) }

type staticCount int

func (c staticCount) Count() int { return int(c) }

func TestHealthCheck(t *testing.T) {
	t.Run("healthy storage", func(t *testing.T) {
		h := NewHealthHandler(staticStatus{Driver: "bolt", Storage: true}, staticCount(3), nil, nil)
		ctx := &fasthttp.RequestCtx{}
		h.Check(ctx)

		assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
		var env struct {
			Data struct {
				Customers int            `json:"customers"`
				Storage   monitor.Status `json:"storage"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
		assert.Equal(t, 3, env.Data.Customers)
		assert.Equal(t, "bolt", env.Data.Storage.Driver)
	})

	t.Run("unreachable storage", func(t *testing.T) {
		h := NewHealthHandler(staticStatus{Driver: "redis", Error: "dial tcp: refused"}, staticCount(0), nil, nil)
		ctx := &fasthttp.RequestCtx{}
		h.Check(ctx)

		assert.Equal(t, http.StatusServiceUnavailable, ctx.Response.StatusCode())
		var env transport.Envelope
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
		assert.Equal(t, "DEGRADED", env.Code)
	})
}

func TestDecodeRejectsInvalidBodies(t *testing.T) {
	h := newBaseHandler(nil, nil)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBodyString(`{"name":"Asha","email":"bad"}`)
	var req transport.CustomerCreateRequest
	assert.False(t, h.decode(ctx, &req))
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"field":"email"`)

	ctx = &fasthttp.RequestCtx{}
	ctx.Request.SetBodyString(`{"name":"Asha"}`)
	var ok transport.CustomerCreateRequest
	assert.True(t, h.decode(ctx, &ok))
	assert.Equal(t, "Asha", ok.Name)
}
