package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/shopspring/decimal"
)

type BillKind string

const (
	KindAirtime BillKind = "airtime"
	KindData    BillKind = "data"
)

// MinimumAirtime is the provider's floor for a single airtime order.
var MinimumAirtime = decimal.NewFromInt(50)

// PriceQuery identifies the product being priced. Amount is the requested
// face value for airtime; PlanID selects a catalog record for data.
type PriceQuery struct {
	Kind    BillKind
	Network string
	Amount  decimal.Decimal
	PlanID  string
}

// Price is the resolved charge plus the provider-facing details the saga
// needs, so fulfillment never re-queries the catalog.
type Price struct {
	Charge    decimal.Decimal
	FaceValue decimal.Decimal
	PlanID    string
	PlanName  string
}

// PricingService resolves the wallet charge for a requested product. It is
// read-only: nothing here touches balances.
type PricingService struct {
	store  *db.Store
	logger *logging.Logger
}

func NewPricingService(store *db.Store, logger *logging.Logger) *PricingService {
	return &PricingService{
		store:  store,
		logger: logger,
	}
}

func (p *PricingService) ResolvePrice(ctx context.Context, query PriceQuery) (*Price, error) {
	switch query.Kind {
	case KindData:
		return p.resolveDataPrice(ctx, query)
	case KindAirtime:
		return p.resolveAirtimePrice(ctx, query)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, query.Kind)
	}
}

func (p *PricingService) resolveDataPrice(ctx context.Context, query PriceQuery) (*Price, error) {
	plan, err := p.store.GetActiveDataPlan(ctx, query.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidPlan
	} else if err != nil {
		return nil, fmt.Errorf("looking up plan %q: %w", query.PlanID, err)
	}

	if query.Network != "" && plan.Network != query.Network {
		return nil, ErrInvalidPlan
	}

	selling, err := decimal.NewFromString(plan.SellingPrice)
	if err != nil {
		return nil, fmt.Errorf("corrupt selling price on plan %q: %w", plan.PlanID, err)
	}

	return &Price{
		Charge:    selling.Round(2),
		FaceValue: selling,
		PlanID:    plan.PlanID,
		PlanName:  plan.Name,
	}, nil
}

// resolveAirtimePrice passes the configured discount to the customer: charge
// is the face value less sell_percentage of it. Without a margin config the
// customer pays full face value.
func (p *PricingService) resolveAirtimePrice(ctx context.Context, query PriceQuery) (*Price, error) {
	if query.Amount.LessThan(MinimumAirtime) {
		return nil, ErrBelowMinimum
	}

	charge := query.Amount

	config, err := p.store.GetAirtimeConfig(ctx, query.Network)
	if err == nil {
		sellPct, perr := decimal.NewFromString(config.SellPercentage)
		if perr != nil {
			return nil, fmt.Errorf("corrupt sell percentage for network %q: %w", query.Network, perr)
		}
		discount := query.Amount.Mul(sellPct).Div(decimal.NewFromInt(100))
		charge = query.Amount.Sub(discount)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up airtime config for %q: %w", query.Network, err)
	}

	return &Price{
		Charge:    charge.Round(2),
		FaceValue: query.Amount,
	}, nil
}
