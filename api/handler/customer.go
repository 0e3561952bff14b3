package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/custdir/api/transport"
	"github.com/fastygo/custdir/domain"
	"github.com/fastygo/custdir/pkg/httpcontext"
	"github.com/fastygo/custdir/usecase/directory"
)

type CustomerHandler struct {
	baseHandler
	uc *directory.UseCase
}

func NewCustomerHandler(uc *directory.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List or search customers
// @Tags customers
// @Router /api/v1/customers [get]
func (h *CustomerHandler) List(ctx *fasthttp.RequestCtx) {
	query := string(ctx.QueryArgs().Peek("q"))
	if strings.TrimSpace(query) == "" {
		h.respondSuccess(ctx, http.StatusOK, h.uc.List())
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.uc.Search(query))
}

// @Summary Create customer
// @Tags customers
// @Router /api/v1/customers [post]
func (h *CustomerHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CustomerCreateRequest
	if !h.decode(ctx, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.respondInvalid(ctx, "name is required", nil)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, req.Input(), req.Provenance())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Get customer
// @Tags customers
// @Router /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customer, err := h.uc.Get(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customer)
}

// @Summary Update customer
// @Tags customers
// @Router /api/v1/customers/{id} [put]
func (h *CustomerHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.CustomerUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		h.respondInvalid(ctx, "name must not be blank", nil)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, pathParam(ctx, "id"), req.Patch())
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete customer
// @Tags customers
// @Router /api/v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, pathParam(ctx, "id")); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

// @Summary Record purchase
// @Tags customers
// @Router /api/v1/customers/{id}/purchases [post]
func (h *CustomerHandler) RecordPurchase(ctx *fasthttp.RequestCtx) {
	var req transport.PurchaseRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathParam(ctx, "id")
	if err := h.uc.RecordPurchase(stdCtx, id, req.Amount.InexactFloat64()); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}

	customer, err := h.uc.Peek(id)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		// Purchases for unknown ids are kept as orphan stats.
		h.respondSuccess(ctx, http.StatusAccepted, map[string]interface{}{"customerId": id})
		return
	}
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customer)
}

// @Summary Recently accessed customers
// @Tags customers
// @Router /api/v1/recent-customers [get]
func (h *CustomerHandler) Recent(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 10)
	h.respondSuccess(ctx, http.StatusOK, h.uc.ListRecent(limit))
}

// @Summary Lookup customer by phone
// @Tags customers
// @Router /api/v1/lookup/phone/{phone} [get]
func (h *CustomerHandler) ByPhone(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customer, err := h.uc.GetByPhone(stdCtx, pathParam(ctx, "phone"))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, customer)
}
