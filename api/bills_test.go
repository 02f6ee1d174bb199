package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KoboPoint/KoboPoint-Backend/providers/bills"
	"github.com/KoboPoint/KoboPoint-Backend/services/fulfillment"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/KoboPoint/KoboPoint-Backend/services/pricing"
	"github.com/KoboPoint/KoboPoint-Backend/services/transaction"
	"github.com/KoboPoint/KoboPoint-Backend/services/wallet"
	"github.com/KoboPoint/KoboPoint-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	price *pricing.Price
	err   error
}

func (s *stubResolver) ResolvePrice(ctx context.Context, query pricing.PriceQuery) (*pricing.Price, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.price, nil
}

type stubLedger struct {
	balance     decimal.Decimal
	adjustments []decimal.Decimal
}

func (s *stubLedger) AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	next := s.balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, wallet.ErrInsufficientFunds
	}
	s.balance = next
	s.adjustments = append(s.adjustments, delta)
	return s.balance, nil
}

type stubVendor struct {
	resp *bills.ClubKonnectResponse
	err  error
}

func (s *stubVendor) BuyAirtime(request bills.AirtimeRequest) (*bills.ClubKonnectResponse, error) {
	return s.resp, s.err
}

func (s *stubVendor) BuyData(request bills.DataRequest) (*bills.ClubKonnectResponse, error) {
	return s.resp, s.err
}

type stubRecorder struct{}

func (s *stubRecorder) RecordBillOutcome(ctx context.Context, rec transaction.BillOutcomeRecord) (*transaction.TransactionModel, error) {
	return &transaction.TransactionModel{Reference: "REFAPI", RequestID: rec.RequestID}, nil
}

func acceptedOrder() *bills.ClubKonnectResponse {
	return &bills.ClubKonnectResponse{
		OrderID: "9001",
		Status:  "ORDER_RECEIVED",
		Raw:     json.RawMessage(`{"orderid":9001,"status":"ORDER_RECEIVED"}`),
	}
}

// testBillsServer mounts the bills router on a bare engine with the saga's
// collaborators stubbed out, and mints a bearer token for the requests.
func testBillsServer(t *testing.T, resolver fulfillment.PriceResolver, ledger fulfillment.LedgerGateway, vendor fulfillment.BillVendor) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)

	config := &utils.Config{SigningKey: "api-test-signing-key"}
	TokenController = utils.NewJWTToken(config)

	token, err := TokenController.CreateToken(utils.TokenObject{
		UserID:   7,
		Role:     "regular",
		Verified: true,
	})
	require.NoError(t, err)

	logger := logging.NewLogger()
	server := &Server{
		router:             gin.New(),
		config:             config,
		logger:             logger,
		fulfillmentService: fulfillment.NewFulfillmentService(resolver, ledger, vendor, &stubRecorder{}, logger),
	}
	Bills{}.router(server)

	return server.router, token
}

func doPurchase(t *testing.T, router *gin.Engine, token string, body map[string]interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bills/purchase", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var decoded map[string]interface{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

func airtimeBody() map[string]interface{} {
	return map[string]interface{}{
		"type":       "airtime",
		"network":    "mtn",
		"phone":      "08030001122",
		"amount":     "1000",
		"request_id": "req-api-1",
	}
}

func TestPurchaseEndpoint_Success(t *testing.T) {
	resolver := &stubResolver{price: &pricing.Price{
		Charge:    decimal.NewFromInt(1000),
		FaceValue: decimal.NewFromInt(1000),
	}}
	ledger := &stubLedger{balance: decimal.NewFromInt(5000)}
	router, token := testBillsServer(t, resolver, ledger, &stubVendor{resp: acceptedOrder()})

	recorder, decoded := doPurchase(t, router, token, airtimeBody())

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, true, decoded["success"])
	require.Equal(t, "req-api-1", decoded["request_id"])

	data, ok := decoded["data"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, false, data["refunded"])
	require.Equal(t, "REFAPI", data["reference"])
	require.Equal(t, "9001", data["order_id"])
}

func TestPurchaseEndpoint_ProviderFailureReportsRefund(t *testing.T) {
	resolver := &stubResolver{price: &pricing.Price{
		Charge:    decimal.NewFromInt(1000),
		FaceValue: decimal.NewFromInt(1000),
	}}
	ledger := &stubLedger{balance: decimal.NewFromInt(5000)}
	vendor := &stubVendor{err: &bills.ProviderError{
		Status:  "ORDER_FAILED",
		Message: "network busy",
	}}
	router, token := testBillsServer(t, resolver, ledger, vendor)

	recorder, decoded := doPurchase(t, router, token, airtimeBody())

	// Failures ride in-band on HTTP 200 and the refund is visible to the
	// client.
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, false, decoded["success"])
	require.Equal(t, "purchase failed, your wallet has been refunded", decoded["error"])

	data, ok := decoded["data"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, data["refunded"])
	require.True(t, ledger.balance.Equal(decimal.NewFromInt(5000)))
}

func TestPurchaseEndpoint_InsufficientFunds(t *testing.T) {
	resolver := &stubResolver{price: &pricing.Price{
		Charge:    decimal.NewFromInt(1000),
		FaceValue: decimal.NewFromInt(1000),
	}}
	ledger := &stubLedger{balance: decimal.NewFromInt(40)}
	router, token := testBillsServer(t, resolver, ledger, &stubVendor{resp: acceptedOrder()})

	recorder, decoded := doPurchase(t, router, token, airtimeBody())

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, false, decoded["success"])
	require.Equal(t, "insufficient wallet balance", decoded["error"])
}

func TestPurchaseEndpoint_InvalidPlan(t *testing.T) {
	router, token := testBillsServer(t,
		&stubResolver{err: pricing.ErrInvalidPlan},
		&stubLedger{balance: decimal.NewFromInt(5000)},
		&stubVendor{resp: acceptedOrder()})

	recorder, decoded := doPurchase(t, router, token, map[string]interface{}{
		"type":    "data",
		"network": "mtn",
		"phone":   "08030001122",
		"plan_id": "no-such-plan",
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, false, decoded["success"])
	require.Contains(t, decoded["error"], "invalid request")
}

func TestPurchaseEndpoint_UnknownNetworkMovesNoMoney(t *testing.T) {
	ledger := &stubLedger{balance: decimal.NewFromInt(5000)}
	router, token := testBillsServer(t,
		&stubResolver{price: &pricing.Price{
			Charge:    decimal.NewFromInt(1000),
			FaceValue: decimal.NewFromInt(1000),
		}},
		ledger,
		&stubVendor{resp: acceptedOrder()})

	body := airtimeBody()
	body["network"] = "vodafone"
	recorder, decoded := doPurchase(t, router, token, body)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, false, decoded["success"])
	require.Contains(t, decoded["error"], "invalid request")
	require.Empty(t, ledger.adjustments)
}

func TestPurchaseEndpoint_BindingFailure(t *testing.T) {
	router, token := testBillsServer(t,
		&stubResolver{},
		&stubLedger{balance: decimal.NewFromInt(5000)},
		&stubVendor{resp: acceptedOrder()})

	body := airtimeBody()
	delete(body, "phone")
	recorder, decoded := doPurchase(t, router, token, body)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, false, decoded["success"])
	require.Contains(t, decoded["error"], "invalid request")
}

func TestPurchaseEndpoint_RequiresAuth(t *testing.T) {
	router, _ := testBillsServer(t,
		&stubResolver{},
		&stubLedger{balance: decimal.NewFromInt(5000)},
		&stubVendor{resp: acceptedOrder()})

	recorder, _ := doPurchase(t, router, "", airtimeBody())
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
