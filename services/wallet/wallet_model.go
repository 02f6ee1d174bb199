package wallet

import (
	"time"

	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletModel struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func ToWalletModel(wallet db.KoboWallet) (*WalletModel, error) {
	balance, err := decimal.NewFromString(wallet.Balance)
	if err != nil {
		return nil, err
	}
	return &WalletModel{
		ID:         wallet.ID,
		CustomerID: wallet.CustomerID,
		Currency:   wallet.Currency,
		Balance:    balance,
		Status:     wallet.Status,
		CreatedAt:  wallet.CreatedAt,
		UpdatedAt:  wallet.UpdatedAt,
	}, nil
}
