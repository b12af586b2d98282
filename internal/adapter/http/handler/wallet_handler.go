package handler

import (
	"strconv"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet and transfer endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.ledgerSvc.CreateWallet(c.Request.Context(), req.OwnerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toWalletResponse(wallet))
}

// GetWallet handles GET /api/v1/wallets/:id.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	id, ok := parseWalletID(c)
	if !ok {
		return
	}

	wallet, err := h.ledgerSvc.GetWallet(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

// GetUserWallets handles GET /api/v1/users/:ownerId/wallets.
func (h *WalletHandler) GetUserWallets(c *gin.Context) {
	wallets, err := h.ledgerSvc.GetUserWallets(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		out = append(out, toWalletResponse(&wallets[i]))
	}
	response.OK(c, out)
}

// FundWallet handles POST /api/v1/wallets/:id/fund.
func (h *WalletHandler) FundWallet(c *gin.Context) {
	id, ok := parseWalletID(c)
	if !ok {
		return
	}

	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount(err))
		return
	}

	result, err := h.ledgerSvc.FundWallet(c.Request.Context(), id, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FundResponse{
		Wallet:      toWalletResponse(result.Wallet),
		Transaction: toTransactionResponse(result.Transaction),
	})
}

// Transfer handles POST /api/v1/transfers.
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	fromID, err := uuid.Parse(req.FromWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("from_wallet_id must be a valid UUID"))
		return
	}
	toID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		response.Error(c, apperror.Validation("to_wallet_id must be a valid UUID"))
		return
	}
	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount(err))
		return
	}

	result, err := h.ledgerSvc.Transfer(c.Request.Context(), fromID, toID, amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.TransferResponse{
		Source:         toWalletResponse(result.Source),
		Destination:    toWalletResponse(result.Destination),
		OutTransaction: toTransactionResponse(result.OutTransaction),
		InTransaction:  toTransactionResponse(result.InTransaction),
	})
}

// GetWalletHistory handles GET /api/v1/wallets/:id/transactions.
func (h *WalletHandler) GetWalletHistory(c *gin.Context) {
	id, ok := parseWalletID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	txns, err := h.ledgerSvc.GetWalletHistory(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		out = append(out, toTransactionResponse(&txns[i]))
	}
	response.OK(c, out)
}

func parseWalletID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		OwnerID:   w.OwnerID,
		Balance:   w.Balance.String(),
		Version:   w.Version,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toTransactionResponse(t *domain.WalletTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:        t.ID.String(),
		WalletID:  t.WalletID.String(),
		Amount:    t.Amount.String(),
		Type:      string(t.Type),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}
