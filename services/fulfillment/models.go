package fulfillment

import (
	"context"

	"github.com/KoboPoint/KoboPoint-Backend/providers/bills"
	"github.com/KoboPoint/KoboPoint-Backend/services/pricing"
	"github.com/KoboPoint/KoboPoint-Backend/services/transaction"
	"github.com/shopspring/decimal"
)

// PurchaseRequest is one fulfillment attempt. RequestID doubles as the
// provider-side idempotency key; a retry with the same id lets the provider
// deduplicate, a retry with a fresh id is a new attempt.
type PurchaseRequest struct {
	Type      pricing.BillKind
	Network   string
	Phone     string
	Amount    decimal.Decimal
	PlanID    string
	RequestID string
}

// PurchaseOutcome is the saga's result. Refunded is set when the debit was
// reversed after a failed provider call, so the caller can tell the customer
// their money is back.
type PurchaseOutcome struct {
	Success         bool            `json:"success"`
	Refunded        bool            `json:"refunded"`
	Charged         decimal.Decimal `json:"charged"`
	RequestID       string          `json:"request_id"`
	Reference       string          `json:"reference,omitempty"`
	ProviderStatus  string          `json:"provider_status,omitempty"`
	ProviderMessage string          `json:"provider_message,omitempty"`
	OrderID         string          `json:"order_id,omitempty"`
}

// Collaborator contracts, kept to exactly what the saga needs.

type PriceResolver interface {
	ResolvePrice(ctx context.Context, query pricing.PriceQuery) (*pricing.Price, error)
}

type LedgerGateway interface {
	AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type BillVendor interface {
	BuyAirtime(request bills.AirtimeRequest) (*bills.ClubKonnectResponse, error)
	BuyData(request bills.DataRequest) (*bills.ClubKonnectResponse, error)
}

type OutcomeRecorder interface {
	RecordBillOutcome(ctx context.Context, rec transaction.BillOutcomeRecord) (*transaction.TransactionModel, error)
}
