package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles HTTP requests related to parties.
type partyHandler struct {
	partyService   portssvc.PartySvcFacade
	balanceService portssvc.BalanceSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

func newPartyHandler(ps portssvc.PartySvcFacade, bs portssvc.BalanceSvcFacade, pay portssvc.PaymentSvcFacade) *partyHandler {
	return &partyHandler{
		partyService:   ps,
		balanceService: bs,
		paymentService: pay,
	}
}

// registerPartyRoutes registers routes related to parties.
func registerPartyRoutes(rg *gin.RouterGroup, ps portssvc.PartySvcFacade, bs portssvc.BalanceSvcFacade, pay portssvc.PaymentSvcFacade) {
	h := newPartyHandler(ps, bs, pay)

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("/:id", h.getParty)
		parties.GET("", h.listParties)
		parties.PUT("/:id", h.updateParty)
		parties.DELETE("/:id", h.deleteParty)
		parties.GET("/:id/balance", h.getPartyBalance)
		parties.POST("/:id/recalculate", h.recalculatePartyBalance)
	}
}

func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newParty, err := h.partyService.CreateParty(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create party in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		}
		return
	}

	logger.Info("Party created successfully", slog.String("party_id", newParty.PartyID))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(newParty))
}

func (h *partyHandler) getParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("id")

	party, err := h.partyService.GetPartyByID(c.Request.Context(), partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			logger.Error("Failed to get party from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list parties from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list parties"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPartiesResponse(parties))
}

func (h *partyHandler) updateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("id")

	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partyService.UpdateParty(c.Request.Context(), partyID, req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update party in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *partyHandler) deleteParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("id")

	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.partyService.DeleteParty(c.Request.Context(), partyID, deleterUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to delete party in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete party"})
		}
		return
	}

	logger.Info("Party deleted successfully", slog.String("party_id", partyID))
	c.Status(http.StatusNoContent)
}

// getPartyBalance returns the derived balance with its aggregate breakdown,
// independent of the cached current_balance column.
func (h *partyHandler) getPartyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("id")

	ledger, err := h.balanceService.GetPartyLedger(c.Request.Context(), partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			logger.Error("Failed to compute party balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.PartyBalanceResponse{
		PartyID: partyID,
		Balance: ledger.Balance(),
		Ledger:  *ledger,
	})
}

// recalculatePartyBalance repairs the cached balance from the derived one.
func (h *partyHandler) recalculatePartyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyID := c.Param("id")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.paymentService.RecalculateParty(c.Request.Context(), partyID, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			logger.Error("Failed to recalculate party balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate balance"})
		}
		return
	}

	logger.Info("Party balance recalculated", slog.String("party_id", partyID))
	c.JSON(http.StatusOK, dto.RecalculateResponse{ID: partyID, Balance: balance})
}
