package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/rider-tracker/internal/api/dto"
	"github.com/gocomet/rider-tracker/internal/domain/wallet"
	apperrors "github.com/gocomet/rider-tracker/pkg/errors"
	"github.com/gocomet/rider-tracker/pkg/logger"
)

// GetWallet handles GET /api/wallet/:id
func (h *Handlers) GetWallet(c *gin.Context) {
	riderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Rider ID must be an integer", err))
		return
	}

	w, err := h.Wallets.GetByRiderID(c.Request.Context(), riderID)
	if err != nil {
		h.respondError(c, apperrors.Unavailable("Failed to read wallet", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "wallet": w})
}

// CreditWallet handles POST /api/wallet/:id/credit
func (h *Handlers) CreditWallet(c *gin.Context) {
	h.mutateWallet(c, "credit", h.Wallets.Credit)
}

// DebitWallet handles POST /api/wallet/:id/debit
func (h *Handlers) DebitWallet(c *gin.Context) {
	h.mutateWallet(c, "debit", h.Wallets.Debit)
}

func (h *Handlers) mutateWallet(c *gin.Context, op string,
	fn func(ctx context.Context, riderID, amountCents int64) (*wallet.Wallet, error)) {
	riderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.respondError(c, apperrors.BadRequest("Rider ID must be an integer", err))
		return
	}

	var req dto.WalletAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.BadRequest("Amount is required", err))
		return
	}

	w, err := fn(c.Request.Context(), riderID, req.AmountCents)
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount):
		h.respondError(c, apperrors.BadRequest("Amount must be positive", err))
		return
	case errors.Is(err, wallet.ErrInsufficientBalance):
		h.respondError(c, apperrors.ErrInsufficientBalance)
		return
	case errors.Is(err, wallet.ErrNotFound):
		h.respondError(c, apperrors.ErrWalletNotFound)
		return
	case err != nil:
		h.respondError(c, apperrors.Unavailable("Failed to update wallet", err))
		return
	}

	h.Logger.Info("Wallet updated",
		logger.Int64("rider_id", riderID),
		logger.String("op", op),
		logger.Int64("amount_cents", req.AmountCents),
		logger.Int64("balance_cents", w.BalanceCents),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "wallet": w})
}
