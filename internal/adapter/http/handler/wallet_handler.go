package handler

import (
	"teen-wallet-service/internal/adapter/http/dto"
	"teen-wallet-service/internal/adapter/http/middleware"
	"teen-wallet-service/internal/core/domain"
	"teen-wallet-service/internal/core/ports"
	"teen-wallet-service/pkg/apperror"
	"teen-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		OwnerID:              ownerID,
		Currency:             req.Currency,
		InitialBalance:       req.InitialBalance,
		Type:                 req.Type,
		ParentWalletID:       req.ParentWalletID,
		PerTransactionLimit:  req.PerTransactionLimit,
		WhitelistedWalletIDs: req.WhitelistedWalletIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewWalletResponse(wallet))
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	walletID, err := domain.ParseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// Deposit handles POST /api/v1/wallets/:id/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	walletID, err := domain.ParseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		WalletID:    walletID,
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// Withdraw handles POST /api/v1/wallets/:id/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	walletID, err := domain.ParseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		WalletID:    walletID,
		Amount:      req.Amount,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// Transfer handles POST /api/v1/wallets/:id/transfer.
func (h *WalletHandler) Transfer(c *gin.Context) {
	sourceID, err := domain.ParseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	destID, err := domain.ParseWalletID(req.DestinationWalletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.walletSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SourceWalletID:      sourceID,
		DestinationWalletID: destID,
		Amount:              req.Amount,
		ReferenceID:         req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TransferResponse{
		Source:      dto.NewWalletResponse(result.Source),
		Destination: dto.NewWalletResponse(result.Destination),
	})
}

// Pay handles POST /api/v1/wallets/:id/pay.
func (h *WalletHandler) Pay(c *gin.Context) {
	walletID, err := domain.ParseWalletID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	wallet, err := h.walletSvc.Pay(c.Request.Context(), ports.PayRequest{
		WalletID:       walletID,
		Amount:         req.Amount,
		TargetWalletID: req.TargetWalletID,
		ReferenceID:    req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewWalletResponse(wallet))
}

// callerID extracts the authenticated user id set by the JWT middleware.
func callerID(c *gin.Context) (domain.UserID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return domain.UserID{}, false
	}
	id, ok := v.(domain.UserID)
	return id, ok
}
