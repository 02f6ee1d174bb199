package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/KoboPoint/KoboPoint-Backend/providers/bills"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/KoboPoint/KoboPoint-Backend/services/pricing"
	"github.com/KoboPoint/KoboPoint-Backend/services/transaction"
	"github.com/KoboPoint/KoboPoint-Backend/services/wallet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	price *pricing.Price
	err   error
}

func (f *fakeResolver) ResolvePrice(ctx context.Context, query pricing.PriceQuery) (*pricing.Price, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.price, nil
}

// fakeLedger mirrors the real gateway's contract: debits are rejected below
// zero, credits always succeed unless rigged to fail.
type fakeLedger struct {
	balance     decimal.Decimal
	adjustments []decimal.Decimal
	failCredits bool
}

func (f *fakeLedger) AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if delta.IsPositive() && f.failCredits {
		return decimal.Zero, fmt.Errorf("ledger store offline")
	}
	next := f.balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, wallet.ErrInsufficientFunds
	}
	f.balance = next
	f.adjustments = append(f.adjustments, delta)
	return f.balance, nil
}

type fakeVendor struct {
	resp     *bills.ClubKonnectResponse
	err      error
	panics   bool
	airtime  []bills.AirtimeRequest
	databuys []bills.DataRequest
}

func (f *fakeVendor) BuyAirtime(request bills.AirtimeRequest) (*bills.ClubKonnectResponse, error) {
	f.airtime = append(f.airtime, request)
	if f.panics {
		panic("vendor exploded")
	}
	return f.resp, f.err
}

func (f *fakeVendor) BuyData(request bills.DataRequest) (*bills.ClubKonnectResponse, error) {
	f.databuys = append(f.databuys, request)
	if f.panics {
		panic("vendor exploded")
	}
	return f.resp, f.err
}

type fakeRecorder struct {
	records []transaction.BillOutcomeRecord
}

func (f *fakeRecorder) RecordBillOutcome(ctx context.Context, rec transaction.BillOutcomeRecord) (*transaction.TransactionModel, error) {
	f.records = append(f.records, rec)
	return &transaction.TransactionModel{Reference: "REF123", RequestID: rec.RequestID}, nil
}

func airtimePrice(amount int64) *pricing.Price {
	return &pricing.Price{
		Charge:    decimal.NewFromInt(amount),
		FaceValue: decimal.NewFromInt(amount),
	}
}

func orderReceived() *bills.ClubKonnectResponse {
	raw := json.RawMessage(`{"orderid":9001,"status":"ORDER_RECEIVED"}`)
	resp := &bills.ClubKonnectResponse{
		OrderID: "9001",
		Status:  "ORDER_RECEIVED",
		Raw:     raw,
	}
	return resp
}

func newSaga(resolver PriceResolver, ledger LedgerGateway, vendor BillVendor, recorder OutcomeRecorder) *FulfillmentService {
	return NewFulfillmentService(resolver, ledger, vendor, recorder, logging.NewLogger())
}

func TestPurchase_Completed(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{resp: orderReceived()}
	recorder := &fakeRecorder{}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, recorder)

	outcome, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:      pricing.KindAirtime,
		Network:   "mtn",
		Phone:     "08030001122",
		Amount:    decimal.NewFromInt(1000),
		RequestID: "req-001",
	})
	require.NoError(t, err)
	require.True(t, outcome.Success)
	require.False(t, outcome.Refunded)
	require.True(t, outcome.Charged.Equal(decimal.NewFromInt(1000)))

	// Debited exactly once, by exactly the resolved charge.
	require.True(t, ledger.balance.Equal(decimal.NewFromInt(4000)))
	require.Len(t, ledger.adjustments, 1)

	// Idempotency key reached the vendor verbatim.
	require.Len(t, vendor.airtime, 1)
	require.Equal(t, "req-001", vendor.airtime[0].RequestID)

	require.Len(t, recorder.records, 1)
	require.Equal(t, transaction.StatusCompleted, recorder.records[0].Status)
	require.Equal(t, "REF123", outcome.Reference)
}

func TestPurchase_ProviderFailureRefunds(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{err: &bills.ProviderError{
		Status:  "ORDER_FAILED",
		Message: "network busy",
		Response: &bills.ClubKonnectResponse{
			Status: "ORDER_FAILED",
			Remark: "network busy",
			Raw:    json.RawMessage(`{"status":"ORDER_FAILED"}`),
		},
	}}
	recorder := &fakeRecorder{}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, recorder)

	outcome, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "mtn",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.Error(t, err)

	// Debit and refund net to zero.
	require.True(t, ledger.balance.Equal(decimal.NewFromInt(5000)))
	require.Len(t, ledger.adjustments, 2)
	require.True(t, ledger.adjustments[0].Neg().Equal(ledger.adjustments[1]))

	require.False(t, outcome.Success)
	require.True(t, outcome.Refunded)
	require.Equal(t, "ORDER_FAILED", outcome.ProviderStatus)
	require.Equal(t, "network busy", outcome.ProviderMessage)

	require.Len(t, recorder.records, 1)
	require.Equal(t, transaction.StatusRefunded, recorder.records[0].Status)
}

func TestPurchase_TransportErrorRefunds(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{err: fmt.Errorf("%w: connection reset", bills.ErrProviderUnreachable)}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, &fakeRecorder{})

	outcome, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "mtn",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.ErrorIs(t, err, bills.ErrProviderUnreachable)
	require.True(t, outcome.Refunded)
	require.True(t, ledger.balance.Equal(decimal.NewFromInt(5000)))
}

func TestPurchase_VendorPanicStillRefunds(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{panics: true}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, &fakeRecorder{})

	outcome, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "mtn",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.Error(t, err)
	require.True(t, outcome.Refunded)
	require.True(t, ledger.balance.Equal(decimal.NewFromInt(5000)))
}

func TestPurchase_UnknownNetworkNeverMovesMoney(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{resp: orderReceived()}
	recorder := &fakeRecorder{}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, recorder)

	_, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "vodafone",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.ErrorIs(t, err, bills.ErrUnknownNetwork)
	require.Empty(t, ledger.adjustments)
	require.Empty(t, vendor.airtime)
	require.Empty(t, recorder.records)
}

func TestPurchase_InvalidPlanNeverMovesMoney(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{}
	saga := newSaga(&fakeResolver{err: pricing.ErrInvalidPlan}, ledger, vendor, &fakeRecorder{})

	_, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:   pricing.KindData,
		PlanID: "no-such-plan",
	})
	require.ErrorIs(t, err, pricing.ErrInvalidPlan)
	require.Empty(t, ledger.adjustments)
	require.Empty(t, vendor.databuys)
}

func TestPurchase_InsufficientFundsNeverReachesProvider(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(40)}
	vendor := &fakeVendor{resp: orderReceived()}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, &fakeRecorder{})

	_, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "mtn",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.ErrorIs(t, err, wallet.ErrInsufficientFunds)
	require.True(t, ledger.balance.Equal(decimal.NewFromInt(40)))
	require.Empty(t, vendor.airtime)
}

func TestPurchase_RefundFailureIsFatal(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000), failCredits: true}
	vendor := &fakeVendor{err: &bills.ProviderError{Status: "ORDER_FAILED", Message: "busy"}}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, &fakeRecorder{})

	_, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "mtn",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.ErrorIs(t, err, ErrRefundFailed)
}

func TestPurchase_GeneratesRequestIDWhenAbsent(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{resp: orderReceived()}
	saga := newSaga(&fakeResolver{price: airtimePrice(1000)}, ledger, vendor, &fakeRecorder{})

	outcome, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindAirtime,
		Network: "mtn",
		Phone:   "08030001122",
		Amount:  decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.NotEmpty(t, outcome.RequestID)
	require.Equal(t, outcome.RequestID, vendor.airtime[0].RequestID)
}

func TestPurchase_DataUsesResolvedPlan(t *testing.T) {
	ledger := &fakeLedger{balance: decimal.NewFromInt(5000)}
	vendor := &fakeVendor{resp: orderReceived()}
	price := &pricing.Price{
		Charge:    decimal.RequireFromString("300.00"),
		FaceValue: decimal.RequireFromString("300.00"),
		PlanID:    "mtn-1gb-30d",
		PlanName:  "MTN 1GB 30 Days",
	}
	saga := newSaga(&fakeResolver{price: price}, ledger, vendor, &fakeRecorder{})

	outcome, err := saga.Purchase(context.Background(), 7, PurchaseRequest{
		Type:    pricing.KindData,
		Network: "mtn",
		Phone:   "08030001122",
		PlanID:  "mtn-1gb-30d",
	})
	require.NoError(t, err)
	require.True(t, outcome.Charged.Equal(decimal.RequireFromString("300.00")))
	require.Len(t, vendor.databuys, 1)
	require.Equal(t, "mtn-1gb-30d", vendor.databuys[0].PlanID)
}
