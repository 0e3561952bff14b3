package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/custdir/domain"
	"github.com/fastygo/custdir/pkg/httpcontext"
	appLogger "github.com/fastygo/custdir/pkg/logger"
	"github.com/fastygo/custdir/usecase/directory"
)

type BackupHandler struct {
	baseHandler
	uc *directory.UseCase
}

func NewBackupHandler(uc *directory.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Export returns the raw backup document so it can be re-imported as is.
//
// @Summary Export backup
// @Tags backup
// @Router /api/v1/backup [get]
func (h *BackupHandler) Export(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	backup, err := h.uc.ExportBackup(stdCtx)
	if err != nil && backup == nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	if err != nil {
		appLogger.WithRequestID(stdCtx, h.logger).Warn("backup exported without persisting metadata", zap.Error(err))
	}

	body, err := json.Marshal(backup)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="customers-backup.json"`)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
}

// @Summary Import backup
// @Tags backup
// @Router /api/v1/backup/import [post]
func (h *BackupHandler) Import(ctx *fasthttp.RequestCtx) {
	mode, err := domain.ParseImportMode(string(ctx.QueryArgs().Peek("mode")))
	if err != nil {
		h.respondInvalid(ctx, err.Error(), nil)
		return
	}

	var backup domain.Backup
	if err := json.Unmarshal(ctx.PostBody(), &backup); err != nil {
		h.respondInvalid(ctx, "invalid backup document", nil)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.ImportBackup(stdCtx, &backup, mode)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	appLogger.WithRequestID(stdCtx, h.logger).Info("backup imported",
		zap.String("mode", string(mode)),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	h.respondSuccess(ctx, http.StatusOK, result)
}
