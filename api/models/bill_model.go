package models

import (
	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/shopspring/decimal"
)

// PurchaseBillRequest is the inbound purchase body. Amount applies to
// airtime, PlanID to data; RequestID is the optional caller-supplied
// idempotency key.
type PurchaseBillRequest struct {
	Type      string          `json:"type" binding:"required,oneof=airtime data"`
	Network   string          `json:"network" binding:"required"`
	Phone     string          `json:"phone" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	PlanID    string          `json:"plan_id"`
	RequestID string          `json:"request_id"`
}

// PurchaseBillResponse is always delivered with HTTP 200; failures ride
// in-band so mobile clients only ever branch on the success flag.
type PurchaseBillResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
}

type DataPlanModel struct {
	PlanID       string `json:"plan_id"`
	Network      string `json:"network"`
	Name         string `json:"name"`
	SellingPrice string `json:"selling_price"`
}

func ToDataPlanModel(plan db.DataPlan) DataPlanModel {
	return DataPlanModel{
		PlanID:       plan.PlanID,
		Network:      plan.Network,
		Name:         plan.Name,
		SellingPrice: plan.SellingPrice,
	}
}

func ToDataPlanModels(plans []db.DataPlan) []DataPlanModel {
	out := make([]DataPlanModel, 0, len(plans))
	for _, plan := range plans {
		out = append(out, ToDataPlanModel(plan))
	}
	return out
}
