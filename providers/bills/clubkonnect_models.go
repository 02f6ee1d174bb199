package bills

import (
	"encoding/json"
	"strings"
)

// ClubKonnectResponse is the normalized shape of every provider reply. The
// provider's own payloads are inconsistent across endpoints, so only the
// fields we rely on are typed; the full body is retained in Raw for auditing.
type ClubKonnectResponse struct {
	OrderID       json.Number `json:"orderid"`
	StatusCode    string      `json:"statuscode"`
	Status        string      `json:"status"`
	Remark        string      `json:"remark"`
	OrderType     string      `json:"ordertype"`
	MobileNetwork string      `json:"mobilenetwork"`
	MobileNumber  string      `json:"mobilenumber"`
	AmountCharged json.Number `json:"amountcharged"`
	WalletBalance json.Number `json:"walletbalance"`
	RequestID     string      `json:"requestid"`
	Date          string      `json:"date"`

	Raw json.RawMessage `json:"-"`
}

// Successful reports whether the provider accepted the order. ORDER_RECEIVED
// means queued for delivery, which ClubKonnect treats as a committed purchase.
func (r *ClubKonnectResponse) Successful() bool {
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case OrderReceived, OrderCompleted, OrderSuccess:
		return true
	}
	return false
}

// Message returns the most descriptive text the provider gave us.
func (r *ClubKonnectResponse) Message() string {
	if r.Remark != "" {
		return r.Remark
	}
	return r.Status
}

type WalletBalanceResponse struct {
	UserID  string      `json:"userid"`
	Balance json.Number `json:"balance"`
}

// Purchase parameter structs. RequestID is the caller's idempotency key and is
// forwarded verbatim so the provider can deduplicate retried orders.

type AirtimeRequest struct {
	Network   string
	Phone     string
	Amount    string
	RequestID string
}

type DataRequest struct {
	Network   string
	Phone     string
	PlanID    string
	RequestID string
}

type CableTVRequest struct {
	Provider    string // dstv, gotv, startimes
	PackageCode string
	SmartCardNo string
	Phone       string
	RequestID   string
}

type ElectricityRequest struct {
	Company   string
	MeterType string // 01 prepaid, 02 postpaid
	MeterNo   string
	Amount    string
	Phone     string
	RequestID string
}

type RechargeCardRequest struct {
	Network   string
	Value     string
	Quantity  string
	RequestID string
}

type ExamPinRequest struct {
	ExamType  string // waec, neco, nabteb
	Phone     string
	RequestID string
}
