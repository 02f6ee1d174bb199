package transaction

import (
	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/shopspring/decimal"
)

func ToTransactionModel(tx *db.BillTransaction) *TransactionModel {
	return &TransactionModel{
		Reference:       tx.Reference,
		RequestID:       tx.RequestID,
		BillType:        tx.BillType,
		Network:         tx.Network,
		Phone:           tx.Phone,
		Amount:          decimal.RequireFromString(tx.Amount),
		Status:          tx.Status,
		ProviderStatus:  tx.ProviderStatus.String,
		ProviderMessage: tx.ProviderMessage.String,
		OrderID:         tx.OrderID.String,
		CreatedAt:       tx.CreatedAt,
	}
}
