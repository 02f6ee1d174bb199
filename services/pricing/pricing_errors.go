package pricing

import "fmt"

var (
	ErrInvalidPlan  = fmt.Errorf("no active plan matches the requested plan id")
	ErrBelowMinimum = fmt.Errorf("airtime amount is below the 50 NGN minimum")
	ErrUnknownKind  = fmt.Errorf("unknown bill kind")
)
