package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/custdir/api/transport"
	"github.com/fastygo/custdir/internal/infrastructure/monitor"
	"github.com/fastygo/custdir/pkg/httpcontext"
)

// StatusSource reports the last observed storage health.
type StatusSource interface {
	GetStatus() monitor.Status
}

// Counter reports how many customers the directory holds.
type Counter interface {
	Count() int
}

type HealthHandler struct {
	baseHandler
	monitor   StatusSource
	directory Counter
}

func NewHealthHandler(mon StatusSource, directory Counter, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		directory:   directory,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"storage":   status,
		"customers": h.directory.Count(),
	}

	if status.Storage {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "directory storage unhealthy").WithData(payload))
}
