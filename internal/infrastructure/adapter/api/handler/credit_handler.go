package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/credit-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/dto"
)

// CreditHandler handles the credit balance endpoints
type CreditHandler struct {
	creditUseCase usecase.CreditUseCase
	logger        coreport.Logger
}

// NewCreditHandler creates a new credit handler instance
func NewCreditHandler(creditUseCase usecase.CreditUseCase, logger coreport.Logger) *CreditHandler {
	return &CreditHandler{
		creditUseCase: creditUseCase,
		logger:        logger,
	}
}

// GetCredits handles GET /api/credits/:userId
func (h *CreditHandler) GetCredits(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	credit, err := h.creditUseCase.GetBalance(c.Request.Context(), userID)
	h.respond(c, credit, err)
}

// AddCredits handles POST /api/credits/:userId/add
func (h *CreditHandler) AddCredits(c *gin.Context) {
	h.withAmount(c, h.creditUseCase.AddCredits)
}

// DeductCredits handles POST /api/credits/:userId/deduct
func (h *CreditHandler) DeductCredits(c *gin.Context) {
	h.withAmount(c, h.creditUseCase.DeductCredits)
}

// ResetCredits handles PATCH /api/credits/:userId/reset
func (h *CreditHandler) ResetCredits(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	credit, err := h.creditUseCase.ResetCredits(c.Request.Context(), userID)
	h.respond(c, credit, err)
}

type amountOperation func(ctx context.Context, userID uint64, amount int64) (*entity.Credit, error)

func (h *CreditHandler) withAmount(c *gin.Context, op amountOperation) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid credit request format", map[string]any{
			"user_id":    userID,
			"error":      err.Error(),
			"request_id": coreport.RequestIDFrom(c.Request.Context()),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: amount must be an integer",
		})
		return
	}

	credit, err := op(c.Request.Context(), userID, *req.Amount)
	h.respond(c, credit, err)
}

func (h *CreditHandler) respond(c *gin.Context, credit *entity.Credit, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCreditResponse(credit))
}
