package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/SscSPs/trade_credit_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type accrualHandler struct {
	accrualService portssvc.AccrualSvc
}

func registerAccrualRoutes(rg *gin.RouterGroup, accrualService portssvc.AccrualSvc) {
	h := &accrualHandler{accrualService: accrualService}
	rg.POST("/accruals/run", h.runAccrual)
}

// runAccrual godoc
// @Summary Run interest accrual
// @Description Charges one period of interest to every due account of the frequency, or previews it with dryRun
// @Tags accruals
// @Accept  json
// @Produce  json
// @Param   body body dto.RunAccrualRequest true "Run options"
// @Success 200 {object} domain.AccrualSummary
// @Failure 400 {object} map[string]string "Invalid frequency"
// @Failure 409 {object} map[string]string "Another run of this frequency is in progress"
// @Security BearerAuth
// @Router /accruals/run [post]
func (h *accrualHandler) runAccrual(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.RunAccrualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "request format")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	freq, err := domain.ParseFrequency(req.Frequency)
	if err != nil {
		respondError(c, logger, err, "Failed to run accrual")
		return
	}

	summary, err := h.accrualService.Run(c.Request.Context(), domain.AccrualRequest{
		Frequency: freq,
		AccountID: req.AccountID,
		Force:     req.Force,
		DryRun:    req.DryRun,
		ActorID:   actorID,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to run accrual")
		return
	}

	logger.Info("Accrual run finished",
		slog.String("frequency", freq.String()),
		slog.Bool("dry_run", req.DryRun),
		slog.Int("processed", summary.ProcessedCount),
		slog.Int("failed", len(summary.Errors)),
	)
	c.JSON(http.StatusOK, summary)
}
