package transaction

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/speps/go-hashids/v2"
	"github.com/sqlc-dev/pqtype"
)

// TransactionService persists the audit trail of fulfillment outcomes. It
// never moves money; a write failure here is logged and swallowed by callers
// so it can never affect a debit or refund.
type TransactionService struct {
	store  *db.Store
	logger *logging.Logger
	hasher *hashids.HashID
}

func NewTransactionService(store *db.Store, logger *logging.Logger, salt string) (*TransactionService, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 12
	hasher, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("could not initialise reference hasher: %w", err)
	}

	return &TransactionService{
		store:  store,
		logger: logger,
		hasher: hasher,
	}, nil
}

// newReference derives a short customer-facing reference. Nanosecond input
// keeps references unique without a database round trip.
func (s *TransactionService) newReference() (string, error) {
	return s.hasher.EncodeInt64([]int64{time.Now().UnixNano()})
}

func (s *TransactionService) RecordBillOutcome(ctx context.Context, rec BillOutcomeRecord) (*TransactionModel, error) {
	reference, err := s.newReference()
	if err != nil {
		return nil, fmt.Errorf("generate reference: %w", err)
	}

	params := db.CreateBillTransactionParams{
		Reference:       reference,
		RequestID:       rec.RequestID,
		CustomerID:      rec.CustomerID,
		BillType:        rec.BillType,
		Network:         rec.Network,
		Phone:           rec.Phone,
		Amount:          rec.Amount.StringFixed(2),
		Status:          rec.Status,
		ProviderStatus:  sql.NullString{String: rec.ProviderStatus, Valid: rec.ProviderStatus != ""},
		ProviderMessage: sql.NullString{String: rec.ProviderMessage, Valid: rec.ProviderMessage != ""},
		OrderID:         sql.NullString{String: rec.OrderID, Valid: rec.OrderID != ""},
		ProviderPayload: pqtype.NullRawMessage{RawMessage: rec.ProviderPayload, Valid: len(rec.ProviderPayload) > 0},
	}

	row, err := s.store.CreateBillTransaction(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create bill transaction: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Recorded bill transaction %v (%v)", row.Reference, row.Status))
	return ToTransactionModel(&row), nil
}

func (s *TransactionService) ListForCustomer(ctx context.Context, customerID int64, limit int32) ([]*TransactionModel, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.store.ListBillTransactionsByCustomer(ctx, db.ListBillTransactionsByCustomerParams{
		CustomerID: customerID,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list bill transactions: %w", err)
	}

	models := make([]*TransactionModel, 0, len(rows))
	for i := range rows {
		models = append(models, ToTransactionModel(&rows[i]))
	}
	return models, nil
}
