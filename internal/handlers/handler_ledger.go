package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/SscSPs/trade_credit_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler handles HTTP requests for ledger accounts and their balance operations.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	rateService   portssvc.RateSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, rs portssvc.RateSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls, rateService: rs}
}

// registerLedgerRoutes registers routes related to ledger accounts.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, rateService portssvc.RateSvcFacade) {
	h := newLedgerHandler(ledgerService, rateService)

	accounts := rg.Group("/ledger-accounts")
	{
		accounts.POST("", h.createLedgerAccount)
		accounts.GET("", h.listLedgerAccounts)
		accounts.GET("/:id", h.getLedgerAccount)
		accounts.POST("/:id/deactivate", h.deactivateLedgerAccount)
		accounts.POST("/:id/activate", h.activateLedgerAccount)
		accounts.GET("/:id/validate", h.validateLedgerAccount)
		accounts.GET("/:id/can-afford", h.canAfford)
		accounts.GET("/:id/transactions", h.listTransactionLog)

		accounts.POST("/:id/initial-credit", h.assignInitialCredit)
		accounts.GET("/:id/purchase-orders", h.listPurchaseOrders)
		accounts.POST("/:id/purchase-orders", h.createPurchaseOrder)
		accounts.POST("/:id/purchase-orders/:poID/cancel", h.cancelPurchaseOrder)
		accounts.POST("/:id/purchase-orders/:poID/fulfill", h.fulfillPurchaseOrder)
		accounts.GET("/:id/payments", h.listPayments)
		accounts.POST("/:id/payments", h.submitPayment)
		accounts.POST("/:id/payments/:paymentID/approve", h.approvePayment)
		accounts.POST("/:id/payments/:paymentID/reject", h.rejectPayment)
		accounts.POST("/:id/interest", h.applyInterest)
		accounts.POST("/:id/credit-adjustments", h.adjustAssignedCredit)
		accounts.POST("/:id/treasury", h.updateTreasury)
		accounts.POST("/:id/reconcile", h.reconcile)

		accounts.PUT("/:id/custom-rate", h.setCustomRate)
		accounts.PUT("/:id/risk-tier", h.assignRiskTier)
		accounts.GET("/:id/rate", h.resolveAccountRate)
	}
}

// actorFrom returns the authenticated user, writing 401 when absent.
func actorFrom(c *gin.Context, logger *slog.Logger) (string, bool) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actorID, ok
}

// createLedgerAccount godoc
// @Summary Onboard a business
// @Description Creates a ledger account with every balance at zero
// @Tags ledger-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateLedgerAccountRequest true "Business details"
// @Success 201 {object} dto.LedgerAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Risk tier not found"
// @Failure 500 {object} map[string]string "Failed to create ledger account"
// @Security BearerAuth
// @Router /ledger-accounts [post]
func (h *ledgerHandler) createLedgerAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateLedgerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "request format")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	account, err := h.ledgerService.CreateLedgerAccount(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create ledger account")
		return
	}

	logger.Info("Ledger account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToLedgerAccountResponse(account))
}

// listLedgerAccounts godoc
// @Summary List ledger accounts
// @Tags ledger-accounts
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListLedgerAccountsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list ledger accounts"
// @Security BearerAuth
// @Router /ledger-accounts [get]
func (h *ledgerHandler) listLedgerAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListLedgerAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "query parameters")
		return
	}

	accounts, err := h.ledgerService.ListLedgerAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListLedgerAccountsResponse{Accounts: dto.ToLedgerAccountResponses(accounts)})
}

// getLedgerAccount godoc
// @Summary Get a ledger account
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.LedgerAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve ledger account"
// @Security BearerAuth
// @Router /ledger-accounts/{id} [get]
func (h *ledgerHandler) getLedgerAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", c.Param("id")))

	account, err := h.ledgerService.GetLedgerAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ledger account")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerAccountResponse(account))
}

// deactivateLedgerAccount godoc
// @Summary Deactivate a ledger account
// @Description Blocks every further balance mutation on the account
// @Tags ledger-accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/deactivate [post]
func (h *ledgerHandler) deactivateLedgerAccount(c *gin.Context) {
	h.setActive(c, false)
}

// activateLedgerAccount godoc
// @Summary Re-activate a ledger account
// @Tags ledger-accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/activate [post]
func (h *ledgerHandler) activateLedgerAccount(c *gin.Context) {
	h.setActive(c, true)
}

func (h *ledgerHandler) setActive(c *gin.Context, active bool) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID), slog.Bool("active", active))
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	var err error
	if active {
		err = h.ledgerService.ActivateAccount(c.Request.Context(), accountID, actorID)
	} else {
		err = h.ledgerService.DeactivateAccount(c.Request.Context(), accountID, actorID)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to change ledger account status")
		return
	}
	logger.Info("Ledger account status changed")
	c.Status(http.StatusNoContent)
}

// validateLedgerAccount godoc
// @Summary Check balance invariants
// @Description Lists invariant violations without changing the account
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.ValidationResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/validate [get]
func (h *ledgerHandler) validateLedgerAccount(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	violations, err := h.ledgerService.ValidateAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to validate ledger account")
		return
	}
	if violations == nil {
		violations = []domain.InvariantViolation{}
	}
	c.JSON(http.StatusOK, dto.ValidationResponse{AccountID: accountID, Valid: len(violations) == 0, Violations: violations})
}

// canAfford godoc
// @Summary Check whether a purchase fits the available balance
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   amount query string true "Amount"
// @Success 200 {object} dto.CanAffordResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/can-afford [get]
func (h *ledgerHandler) canAfford(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		badRequest(c, logger, err, "amount")
		return
	}

	canAfford, err := h.ledgerService.CanAfford(c.Request.Context(), accountID, amount)
	if err != nil {
		respondError(c, logger, err, "Failed to check available balance")
		return
	}
	c.JSON(http.StatusOK, dto.CanAffordResponse{AccountID: accountID, Amount: amount, CanAfford: canAfford})
}

// listTransactionLog godoc
// @Summary List the account's balance log
// @Description Newest entries first with token-based pagination
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionLogResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/transactions [get]
func (h *ledgerHandler) listTransactionLog(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	var params dto.ListTransactionLogParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "query parameters")
		return
	}

	resp, err := h.ledgerService.ListTransactionLog(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transaction log")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listPurchaseOrders godoc
// @Summary List the account's purchase orders
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.ListPurchaseOrdersResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/purchase-orders [get]
func (h *ledgerHandler) listPurchaseOrders(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	orders, err := h.ledgerService.ListPurchaseOrders(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to list purchase orders")
		return
	}
	c.JSON(http.StatusOK, dto.ListPurchaseOrdersResponse{PurchaseOrders: orders})
}

// listPayments godoc
// @Summary List the account's payments
// @Tags ledger-accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/payments [get]
func (h *ledgerHandler) listPayments(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	payments, err := h.ledgerService.ListPayments(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: payments})
}

// ledgerMutation binds the JSON body into req, resolves the actor and runs op, answering
// with the resulting account and log entries.
func ledgerMutation[T any](c *gin.Context, name string, status int, req *T, op func(accountID, actorID string) (*domain.LedgerResult, error)) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID), slog.String("operation", name))

	if req != nil {
		if err := c.ShouldBindJSON(req); err != nil {
			badRequest(c, logger, err, "request format")
			return
		}
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	result, err := op(accountID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to "+name)
		return
	}

	logger.Info("Ledger operation applied", slog.Int("entries", len(result.Entries)))
	c.JSON(status, dto.ToLedgerOperationResponse(result))
}

// assignInitialCredit godoc
// @Summary Assign the initial credit line
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.AmountRequest true "Credit amount"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 409 {object} map[string]string "Account inactive or credit already assigned"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/initial-credit [post]
func (h *ledgerHandler) assignInitialCredit(c *gin.Context) {
	var req dto.AmountRequest
	ledgerMutation(c, "assign initial credit", http.StatusOK, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.AssignInitialCredit(c.Request.Context(), accountID, req.Amount, actorID)
	})
}

// createPurchaseOrder godoc
// @Summary Charge a purchase order to the credit line
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.CreatePurchaseOrderRequest true "Purchase order"
// @Success 201 {object} dto.LedgerOperationResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 422 {object} map[string]string "Insufficient available balance"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/purchase-orders [post]
func (h *ledgerHandler) createPurchaseOrder(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
	ledgerMutation(c, "create purchase order", http.StatusCreated, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.CreatePurchaseOrder(c.Request.Context(), accountID, req, actorID)
	})
}

// cancelPurchaseOrder godoc
// @Summary Cancel a purchase order
// @Description Releases the order's net amount from the debt and restores spending power
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   poID path string true "Purchase order ID"
// @Param   body body dto.CancelPurchaseOrderRequest false "Cancellation reason"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 409 {object} map[string]string "Purchase order already closed"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/purchase-orders/{poID}/cancel [post]
func (h *ledgerHandler) cancelPurchaseOrder(c *gin.Context) {
	var req dto.CancelPurchaseOrderRequest
	body := &req
	if c.Request.ContentLength == 0 {
		body = nil
	}
	ledgerMutation(c, "cancel purchase order", http.StatusOK, body, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.CancelPurchaseOrder(c.Request.Context(), accountID, c.Param("poID"), req.Reason, actorID)
	})
}

// fulfillPurchaseOrder godoc
// @Summary Mark an approved purchase order as fulfilled
// @Tags ledger-operations
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   poID path string true "Purchase order ID"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 409 {object} map[string]string "Purchase order not approved"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/purchase-orders/{poID}/fulfill [post]
func (h *ledgerHandler) fulfillPurchaseOrder(c *gin.Context) {
	ledgerMutation[struct{}](c, "fulfill purchase order", http.StatusOK, nil, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.FulfillPurchaseOrder(c.Request.Context(), accountID, c.Param("poID"), actorID)
	})
}

// submitPayment godoc
// @Summary Submit a payment for review
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.SubmitPaymentRequest true "Payment"
// @Success 201 {object} dto.LedgerOperationResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 409 {object} map[string]string "Duplicate reference"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/payments [post]
func (h *ledgerHandler) submitPayment(c *gin.Context) {
	var req dto.SubmitPaymentRequest
	ledgerMutation(c, "submit payment", http.StatusCreated, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.SubmitPayment(c.Request.Context(), accountID, req, actorID)
	})
}

// approvePayment godoc
// @Summary Approve a pending payment
// @Description Settles the payment against outstanding debt. Amount defaults to the submitted amount.
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   paymentID path string true "Payment ID"
// @Param   body body dto.ApprovePaymentRequest false "Approved amount"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 409 {object} map[string]string "Payment already decided"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/payments/{paymentID}/approve [post]
func (h *ledgerHandler) approvePayment(c *gin.Context) {
	var req dto.ApprovePaymentRequest
	body := &req
	if c.Request.ContentLength == 0 {
		body = nil
	}
	ledgerMutation(c, "approve payment", http.StatusOK, body, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.ApprovePayment(c.Request.Context(), accountID, c.Param("paymentID"), req.Amount, actorID)
	})
}

// rejectPayment godoc
// @Summary Reject a pending payment
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   paymentID path string true "Payment ID"
// @Param   body body dto.RejectPaymentRequest true "Rejection reason"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 409 {object} map[string]string "Payment already decided"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/payments/{paymentID}/reject [post]
func (h *ledgerHandler) rejectPayment(c *gin.Context) {
	var req dto.RejectPaymentRequest
	ledgerMutation(c, "reject payment", http.StatusOK, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.RejectPayment(c.Request.Context(), accountID, c.Param("paymentID"), req.Reason, actorID)
	})
}

// applyInterest godoc
// @Summary Charge interest manually
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.ApplyInterestRequest true "Interest amount"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/interest [post]
func (h *ledgerHandler) applyInterest(c *gin.Context) {
	var req dto.ApplyInterestRequest
	ledgerMutation(c, "apply interest", http.StatusOK, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		appliedAt := time.Now().UTC()
		if req.AppliedAt != nil {
			appliedAt = *req.AppliedAt
		}
		return h.ledgerService.ApplyInterest(c.Request.Context(), accountID, req.Amount, req.Reason, appliedAt, actorID)
	})
}

// adjustAssignedCredit godoc
// @Summary Move the assigned credit line
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.AdjustCreditRequest true "New credit line"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/credit-adjustments [post]
func (h *ledgerHandler) adjustAssignedCredit(c *gin.Context) {
	var req dto.AdjustCreditRequest
	ledgerMutation(c, "adjust assigned credit", http.StatusOK, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.AdjustAssignedCredit(c.Request.Context(), accountID, req.NewAmount, req.Reason, actorID)
	})
}

// updateTreasury godoc
// @Summary Add to or subtract from the treasury balance
// @Tags ledger-operations
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.TreasuryRequest true "Treasury movement"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 422 {object} map[string]string "Insufficient treasury balance"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/treasury [post]
func (h *ledgerHandler) updateTreasury(c *gin.Context) {
	var req dto.TreasuryRequest
	ledgerMutation(c, "update treasury", http.StatusOK, &req, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.UpdateTreasury(c.Request.Context(), accountID, req, actorID)
	})
}

// reconcile godoc
// @Summary Recompute balances from order and payment history
// @Tags ledger-operations
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.LedgerOperationResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/reconcile [post]
func (h *ledgerHandler) reconcile(c *gin.Context) {
	ledgerMutation[struct{}](c, "reconcile", http.StatusOK, nil, func(accountID, actorID string) (*domain.LedgerResult, error) {
		return h.ledgerService.Reconcile(c.Request.Context(), accountID, actorID)
	})
}

// setCustomRate godoc
// @Summary Set or clear a per-business rate override
// @Description Send both rate and frequency to set the override, neither to clear it
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.SetCustomRateRequest true "Override"
// @Success 200 {object} dto.LedgerAccountResponse
// @Failure 400 {object} map[string]string "Invalid override"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/custom-rate [put]
func (h *ledgerHandler) setCustomRate(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	var req dto.SetCustomRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "request format")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	var freq *domain.Frequency
	if req.Frequency != nil {
		f, err := domain.ParseFrequency(*req.Frequency)
		if err != nil {
			respondError(c, logger, err, "Failed to set custom rate")
			return
		}
		freq = &f
	}

	account, err := h.rateService.SetCustomRate(c.Request.Context(), accountID, req.Rate, freq, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to set custom rate")
		return
	}
	logger.Info("Custom rate updated", slog.Bool("cleared", req.Rate == nil))
	c.JSON(http.StatusOK, dto.ToLedgerAccountResponse(account))
}

// assignRiskTier godoc
// @Summary Link an account to a risk tier
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   body body dto.AssignRiskTierRequest true "Tier, null to unlink"
// @Success 200 {object} dto.LedgerAccountResponse
// @Failure 404 {object} map[string]string "Account or tier not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/risk-tier [put]
func (h *ledgerHandler) assignRiskTier(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	var req dto.AssignRiskTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "request format")
		return
	}
	actorID, ok := actorFrom(c, logger)
	if !ok {
		return
	}

	account, err := h.rateService.AssignRiskTier(c.Request.Context(), accountID, req.TierID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to assign risk tier")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerAccountResponse(account))
}

// resolveAccountRate godoc
// @Summary Show the effective rate of an account
// @Description Custom override first, then risk tier, then the system rate for the key
// @Tags rates
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   key query string false "Rate key" default(default)
// @Success 200 {object} domain.RateConfig
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /ledger-accounts/{id}/rate [get]
func (h *ledgerHandler) resolveAccountRate(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", accountID))

	cfg, err := h.rateService.ResolveAccountRate(c.Request.Context(), accountID, c.Query("key"))
	if err != nil {
		respondError(c, logger, err, "Failed to resolve account rate")
		return
	}
	c.JSON(http.StatusOK, cfg)
}
