package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testWallet(t *testing.T, ownerID, balance string) *domain.Wallet {
	t.Helper()
	w, err := domain.NewWallet(ownerID)
	require.NoError(t, err)
	if balance != "" {
		amount, err := domain.ParseMoney(balance)
		require.NoError(t, err)
		require.NoError(t, w.Fund(amount))
	}
	return w
}

func testTransaction(t *testing.T, walletID uuid.UUID, amount string, txType domain.TransactionType) *domain.WalletTransaction {
	t.Helper()
	m, err := domain.ParseMoney(amount)
	require.NoError(t, err)
	txn, err := domain.NewWalletTransaction(walletID, m, txType, domain.TransactionStatusCompleted)
	require.NoError(t, err)
	return txn
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- CreateWallet ---

func TestCreateWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	wallet := testWallet(t, "alice", "")
	mockSvc.EXPECT().CreateWallet(gomock.Any(), "alice").Return(wallet, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/wallets", dto.CreateWalletRequest{OwnerID: "alice"})

	h.CreateWallet(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, wallet.ID.String(), data["id"])
	assert.Equal(t, "alice", data["owner_id"])
	assert.Equal(t, "0.0000", data["balance"])
	assert.Equal(t, float64(0), data["version"])
}

func TestCreateWallet_MissingOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockLedgerService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/wallets", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateWallet(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- GetWallet ---

func TestGetWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	wallet := testWallet(t, "alice", "100.0000")
	mockSvc.EXPECT().GetWallet(gomock.Any(), wallet.ID).Return(wallet, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+wallet.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: wallet.ID.String()}}

	h.GetWallet(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "100.0000", data["balance"])
}

func TestGetWallet_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockLedgerService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetWallet(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWallet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	id := uuid.New()
	mockSvc.EXPECT().GetWallet(gomock.Any(), id).Return(nil, apperror.ErrWalletNotFound())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetWallet(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeWalletNotFound, resp["error_code"])
}

// --- GetUserWallets ---

func TestGetUserWallets_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	w1 := testWallet(t, "alice", "10.0000")
	w2 := testWallet(t, "alice", "20.0000")
	mockSvc.EXPECT().GetUserWallets(gomock.Any(), "alice").Return([]domain.Wallet{*w1, *w2}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/alice/wallets", nil)
	c.Params = gin.Params{{Key: "ownerId", Value: "alice"}}

	h.GetUserWallets(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestGetUserWallets_EmptyList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	mockSvc.EXPECT().GetUserWallets(gomock.Any(), "nobody").Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/nobody/wallets", nil)
	c.Params = gin.Params{{Key: "ownerId", Value: "nobody"}}

	h.GetUserWallets(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	assert.Empty(t, data, "owner with no wallets gets an empty list, not an error")
}

// --- FundWallet ---

func TestFundWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	wallet := testWallet(t, "alice", "125.5000")
	txn := testTransaction(t, wallet.ID, "25.5000", domain.TransactionTypeFund)
	amount, err := domain.ParseMoney("25.5000")
	require.NoError(t, err)

	mockSvc.EXPECT().FundWallet(gomock.Any(), wallet.ID, amount).
		Return(&ports.FundResult{Wallet: wallet, Transaction: txn}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/wallets/"+wallet.ID.String()+"/fund", dto.FundRequest{Amount: "25.5000"})
	c.Params = gin.Params{{Key: "id", Value: wallet.ID.String()}}

	h.FundWallet(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	walletData := data["wallet"].(map[string]interface{})
	txnData := data["transaction"].(map[string]interface{})
	assert.Equal(t, "125.5000", walletData["balance"])
	assert.Equal(t, "FUND", txnData["type"])
	assert.Equal(t, "COMPLETED", txnData["status"])
}

func TestFundWallet_TooManyDecimalPlaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockLedgerService(ctrl))
	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/wallets/"+id.String()+"/fund", dto.FundRequest{Amount: "10.00001"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.FundWallet(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeInvalidAmount, resp["error_code"])
}

// --- Transfer ---

func TestTransfer_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	source := testWallet(t, "alice", "70.0000")
	dest := testWallet(t, "bob", "80.0000")
	outTxn := testTransaction(t, source.ID, "30.0000", domain.TransactionTypeTransferOut)
	inTxn := testTransaction(t, dest.ID, "30.0000", domain.TransactionTypeTransferIn)
	amount, err := domain.ParseMoney("30.0000")
	require.NoError(t, err)

	mockSvc.EXPECT().Transfer(gomock.Any(), source.ID, dest.ID, amount).
		Return(&ports.TransferResult{
			Source:         source,
			Destination:    dest,
			OutTransaction: outTxn,
			InTransaction:  inTxn,
		}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/transfers", dto.TransferRequest{
		FromWalletID: source.ID.String(),
		ToWalletID:   dest.ID.String(),
		Amount:       "30.0000",
	})

	h.Transfer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "70.0000", data["source"].(map[string]interface{})["balance"])
	assert.Equal(t, "80.0000", data["destination"].(map[string]interface{})["balance"])
	assert.Equal(t, "TRANSFER_OUT", data["out_transaction"].(map[string]interface{})["type"])
	assert.Equal(t, "TRANSFER_IN", data["in_transaction"].(map[string]interface{})["type"])
}

func TestTransfer_BadUUID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockLedgerService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/transfers", dto.TransferRequest{
		FromWalletID: "nope",
		ToWalletID:   uuid.New().String(),
		Amount:       "10.0000",
	})

	h.Transfer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	fromID := uuid.New()
	toID := uuid.New()
	mockSvc.EXPECT().Transfer(gomock.Any(), fromID, toID, gomock.Any()).
		Return(nil, apperror.ErrInsufficientFunds("20.0000", "30.0000"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/transfers", dto.TransferRequest{
		FromWalletID: fromID.String(),
		ToWalletID:   toID.String(),
		Amount:       "30.0000",
	})

	h.Transfer(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeInsufficientFunds, resp["error_code"])
	assert.Contains(t, resp["message"], "20.0000")
}

func TestTransfer_SelfTransfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	id := uuid.New()
	mockSvc.EXPECT().Transfer(gomock.Any(), id, id, gomock.Any()).
		Return(nil, apperror.ErrSelfTransfer())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/transfers", dto.TransferRequest{
		FromWalletID: id.String(),
		ToWalletID:   id.String(),
		Amount:       "10.0000",
	})

	h.Transfer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeSelfTransfer, resp["error_code"])
}

// --- GetWalletHistory ---

func TestGetWalletHistory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	id := uuid.New()
	fund := testTransaction(t, id, "100.0000", domain.TransactionTypeFund)
	out := testTransaction(t, id, "30.0000", domain.TransactionTypeTransferOut)
	mockSvc.EXPECT().GetWalletHistory(gomock.Any(), id, 10).
		Return([]domain.WalletTransaction{*out, *fund}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+id.String()+"/transactions?limit=10", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetWalletHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "TRANSFER_OUT", data[0].(map[string]interface{})["type"])
	assert.Equal(t, "FUND", data[1].(map[string]interface{})["type"])
}

func TestGetWalletHistory_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockLedgerService(ctrl)
	h := NewWalletHandler(mockSvc)

	id := uuid.New()
	mockSvc.EXPECT().GetWalletHistory(gomock.Any(), id, 0).Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+id.String()+"/transactions", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetWalletHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetWalletHistory_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockLedgerService(ctrl))
	id := uuid.New()

	for _, limit := range []string{"0", "-5", "abc"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/wallets/"+id.String()+"/transactions?limit="+limit, nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		h.GetWalletHistory(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}
