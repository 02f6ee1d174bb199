package fulfillment

import "fmt"

// ErrRefundFailed means a wallet was debited, the provider call failed, and
// the compensating credit was rejected too. The ledger never rejects credits,
// so seeing this error is a paging event, not something to retry around.
var ErrRefundFailed = fmt.Errorf("refund failed after unfulfilled debit")
