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

// rateHandler handles HTTP requests for rate configuration, risk tiers and quotes.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

// registerRateRoutes registers routes related to rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := &rateHandler{rateService: rateService}

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getSettings)
		rates.PUT("", h.updateSystemRate)
		rates.PUT("/calculation-method", h.setCalculationMethod)
		rates.GET("/history", h.listRateHistory)
	}

	tiers := rg.Group("/risk-tiers")
	{
		tiers.GET("", h.listRiskTiers)
		tiers.POST("", h.createRiskTier)
		tiers.PUT("/:tierID", h.updateRiskTier)
	}

	rg.GET("/interest/quote", h.quoteInterest)
}

// getSettings godoc
// @Summary Show the current rate settings
// @Tags rates
// @Produce  json
// @Success 200 {object} domain.RateSettings
// @Security BearerAuth
// @Router /rates [get]
func (h *rateHandler) getSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	settings, err := h.rateService.CurrentSettings(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to load rate settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateSystemRate godoc
// @Summary Replace a system rate
// @Description Stores a new settings version and a SYSTEM history entry
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   body body dto.UpdateSystemRateRequest true "Rate"
// @Success 200 {object} domain.RateSettings
// @Failure 400 {object} map[string]string "Invalid rate"
// @Failure 409 {object} map[string]string "Concurrent settings change"
// @Security BearerAuth
// @Router /rates [put]
func (h *rateHandler) updateSystemRate(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.UpdateSystemRateRequest
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
		respondError(c, logger, err, "Failed to update system rate")
		return
	}
	setting := domain.RateSetting{
		Key:       req.Key,
		Rate:      req.Rate,
		Frequency: freq,
		AutoApply: req.AutoApply,
		ApplyDay:  req.ApplyDay,
	}

	settings, err := h.rateService.UpdateSystemRate(c.Request.Context(), setting, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to update system rate")
		return
	}
	logger.Info("System rate updated", slog.Int("version", settings.Version))
	c.JSON(http.StatusOK, settings)
}

// setCalculationMethod godoc
// @Summary Switch between simple and compound interest
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   body body dto.SetCalculationMethodRequest true "Method"
// @Success 200 {object} domain.RateSettings
// @Failure 400 {object} map[string]string "Invalid method"
// @Security BearerAuth
// @Router /rates/calculation-method [put]
func (h *rateHandler) setCalculationMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.SetCalculationMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "request format")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	settings, err := h.rateService.SetCalculationMethod(c.Request.Context(), req.Method, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to set calculation method")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// listRateHistory godoc
// @Summary List rate changes
// @Tags rates
// @Produce  json
// @Param   accountID query string false "Only changes for this account"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListRateHistoryResponse
// @Security BearerAuth
// @Router /rates/history [get]
func (h *rateHandler) listRateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListRateHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "query parameters")
		return
	}

	resp, err := h.rateService.ListRateHistory(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list rate history")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listRiskTiers godoc
// @Summary List risk tiers
// @Tags risk-tiers
// @Produce  json
// @Success 200 {array} domain.RiskTier
// @Security BearerAuth
// @Router /risk-tiers [get]
func (h *rateHandler) listRiskTiers(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	tiers, err := h.rateService.ListRiskTiers(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list risk tiers")
		return
	}
	if tiers == nil {
		tiers = []domain.RiskTier{}
	}
	c.JSON(http.StatusOK, tiers)
}

func toRiskTier(req dto.RiskTierRequest) (domain.RiskTier, error) {
	tier := domain.RiskTier{
		Name:                req.Name,
		Rate:                req.Rate,
		CreditMultiplier:    req.CreditMultiplier,
		EligibilityCriteria: req.EligibilityCriteria,
	}
	if req.Frequency != "" {
		freq, err := domain.ParseFrequency(req.Frequency)
		if err != nil {
			return domain.RiskTier{}, err
		}
		tier.Frequency = freq
	}
	return tier, nil
}

// createRiskTier godoc
// @Summary Create a risk tier
// @Tags risk-tiers
// @Accept  json
// @Produce  json
// @Param   body body dto.RiskTierRequest true "Tier"
// @Success 201 {object} domain.RiskTier
// @Failure 400 {object} map[string]string "Invalid tier"
// @Failure 409 {object} map[string]string "Tier name already used"
// @Security BearerAuth
// @Router /risk-tiers [post]
func (h *rateHandler) createRiskTier(c *gin.Context) {
	h.saveRiskTier(c, "")
}

// updateRiskTier godoc
// @Summary Edit a risk tier
// @Tags risk-tiers
// @Accept  json
// @Produce  json
// @Param   tierID path string true "Tier ID"
// @Param   body body dto.RiskTierRequest true "Tier"
// @Success 200 {object} domain.RiskTier
// @Failure 404 {object} map[string]string "Tier not found"
// @Security BearerAuth
// @Router /risk-tiers/{tierID} [put]
func (h *rateHandler) updateRiskTier(c *gin.Context) {
	h.saveRiskTier(c, c.Param("tierID"))
}

func (h *rateHandler) saveRiskTier(c *gin.Context, tierID string) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.RiskTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "request format")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	tier, err := toRiskTier(req)
	if err != nil {
		respondError(c, logger, err, "Failed to save risk tier")
		return
	}

	var saved *domain.RiskTier
	status := http.StatusCreated
	if tierID == "" {
		saved, err = h.rateService.CreateRiskTier(c.Request.Context(), tier, actorID)
	} else {
		tier.TierID = tierID
		status = http.StatusOK
		saved, err = h.rateService.UpdateRiskTier(c.Request.Context(), tier, actorID)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to save risk tier")
		return
	}
	logger.Info("Risk tier saved", slog.String("tier_id", saved.TierID))
	c.JSON(status, saved)
}

// quoteInterest godoc
// @Summary Compute interest without applying it
// @Description With accountID the account's debt and effective rate fill any parameter left out
// @Tags rates
// @Produce  json
// @Param   accountID query string false "Account ID"
// @Param   principal query string false "Principal"
// @Param   rate query string false "Rate per period"
// @Param   frequency query string false "Rate frequency"
// @Param   elapsedDays query int false "Days elapsed; one period when omitted"
// @Success 200 {object} dto.InterestQuoteResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /interest/quote [get]
func (h *rateHandler) quoteInterest(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.InterestQuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, logger, err, "query parameters")
		return
	}

	quote, err := h.rateService.QuoteInterest(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to quote interest")
		return
	}
	c.JSON(http.StatusOK, quote)
}
