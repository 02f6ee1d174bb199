package bills

import "fmt"

// ClubKonnect order statuses. A purchase is only considered fulfilled when the
// provider reports one of the success statuses below; everything else is a
// provider-level failure.
const (
	OrderReceived  = "ORDER_RECEIVED"
	OrderCompleted = "ORDER_COMPLETED"
	OrderSuccess   = "SUCCESS"

	OrderFailed        = "ORDER_FAILED"
	OrderCancelled     = "ORDER_CANCELLED"
	InvalidCredentials = "INVALID_CREDENTIALS"
	InvalidRecipient   = "INVALID_RECIPIENT"
	InsufficientFloat  = "INSUFFICIENT_BALANCE"
	MissingNetwork     = "MISSING_MOBILENETWORK"
	MissingAmount      = "MISSING_AMOUNT"
	InvalidAmount      = "INVALID_AMOUNT"
	MinimumAmount50    = "MINIMUM_50"
	MaximumExceeded    = "MAXIMUM_EXCEEDED"
)

// ClubKonnect addresses mobile networks by numeric codes, not names.
var networkCodes = map[string]string{
	"mtn":     "01",
	"glo":     "02",
	"9mobile": "03",
	"airtel":  "04",
}

func NetworkCode(network string) (string, error) {
	code, ok := networkCodes[network]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}
	return code, nil
}

// SupportedNetworks returns the human network names the provider can serve.
func SupportedNetworks() []string {
	return []string{"mtn", "glo", "9mobile", "airtel"}
}
