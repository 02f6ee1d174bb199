package transaction

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusCompleted = "completed"
	StatusRefunded  = "refunded"
)

// BillOutcomeRecord is the audit shape of one finished fulfillment attempt,
// written regardless of whether the purchase succeeded.
type BillOutcomeRecord struct {
	RequestID       string
	CustomerID      int64
	BillType        string
	Network         string
	Phone           string
	Amount          decimal.Decimal
	Status          string
	ProviderStatus  string
	ProviderMessage string
	OrderID         string
	ProviderPayload json.RawMessage
}

type TransactionModel struct {
	Reference       string          `json:"reference"`
	RequestID       string          `json:"request_id"`
	BillType        string          `json:"bill_type"`
	Network         string          `json:"network"`
	Phone           string          `json:"phone"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	ProviderStatus  string          `json:"provider_status,omitempty"`
	ProviderMessage string          `json:"provider_message,omitempty"`
	OrderID         string          `json:"order_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
