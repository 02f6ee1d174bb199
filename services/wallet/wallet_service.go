package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// WalletService is the only writer of wallet balances. Every balance change
// goes through AdjustBalance, whose row lock serializes concurrent
// adjustments on the same account.
type WalletService struct {
	store  *db.Store
	logger *logging.Logger
}

func NewWalletService(store *db.Store, logger *logging.Logger) *WalletService {
	return &WalletService{
		store:  store,
		logger: logger,
	}
}

func (w *WalletService) GetWallet(ctx context.Context, customerID int64) (*WalletModel, error) {
	dbWallet, err := w.store.GetWalletByCustomerID(ctx, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}
	return ToWalletModel(dbWallet)
}

// GetOrCreateWallet returns the customer's NGN wallet, opening one with a
// zero balance on first touch.
func (w *WalletService) GetOrCreateWallet(ctx context.Context, customerID int64) (*WalletModel, error) {
	model, err := w.GetWallet(ctx, customerID)
	if err == nil {
		return model, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, err
	}

	w.logger.Info(fmt.Sprintf("Opening wallet for customer -> %v", customerID))
	dbWallet, err := w.store.CreateWallet(ctx, db.CreateWalletParams{
		CustomerID: customerID,
		Currency:   "NGN",
	})
	if err != nil {
		// Lost a first-touch race; the concurrent insert won, so read its row.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == db.DuplicateEntry {
			return w.GetWallet(ctx, customerID)
		}
		return nil, NewWalletError(ErrWalletNotPossible, "", err)
	}
	return ToWalletModel(dbWallet)
}

// AdjustBalance applies delta to the customer's balance in a single database
// transaction. A negative delta that would take the balance below zero is
// rejected with ErrInsufficientFunds and leaves the row untouched. Positive
// deltas (refunds, top-ups) always succeed.
func (w *WalletService) AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := w.store.ExecTx(ctx, func(q *db.Queries) error {
		row, err := q.GetWalletByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWalletNotFound
		} else if err != nil {
			return err
		}

		if row.Status != "active" {
			return NewWalletError(ErrWalletInactive, row.ID.String())
		}

		balance, err := decimal.NewFromString(row.Balance)
		if err != nil {
			return fmt.Errorf("corrupt balance on wallet %v: %w", row.ID, err)
		}

		next := balance.Add(delta)
		if next.IsNegative() {
			return ErrInsufficientFunds
		}

		updated, err := q.UpdateWalletBalance(ctx, db.UpdateWalletBalanceParams{
			ID:      row.ID,
			Balance: next.StringFixed(2),
		})
		if err != nil {
			// The row lock should make the balance check here authoritative,
			// but the schema-level floor is still the last word.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == db.CheckViolation {
				return ErrInsufficientFunds
			}
			return err
		}

		newBalance, err = decimal.NewFromString(updated.Balance)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	w.logger.Info(fmt.Sprintf("Adjusted wallet for customer %v by %v, new balance %v", customerID, delta, newBalance))
	return newBalance, nil
}
