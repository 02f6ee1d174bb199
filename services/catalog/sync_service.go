package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CatalogVendor is the single provider call the sync needs.
type CatalogVendor interface {
	GetDataPlans() (json.RawMessage, error)
}

// PlanCache is invalidated after a successful sync so reads pick up fresh
// prices on the next request.
type PlanCache interface {
	DeletePlans(ctx context.Context, network string) error
}

type SyncSummary struct {
	InsertedOrUpdated int      `json:"inserted_or_updated"`
	Skipped           int      `json:"skipped"`
	Networks          []string `json:"networks"`
}

// SyncService pulls the provider's live data bundle catalog and upserts local
// price records. Cost prices are refreshed on every run; selling prices are
// only written on first insert, so admin pricing is sticky.
type SyncService struct {
	store  *db.Store
	vendor CatalogVendor
	cache  PlanCache
	logger *logging.Logger
	markup decimal.Decimal
}

// NewSyncService configures the sync job. markup is the fixed amount added to
// the provider cost to seed a selling price for never-before-seen plans.
// cache may be nil when no plan cache is in play.
func NewSyncService(store *db.Store, vendor CatalogVendor, cache PlanCache, logger *logging.Logger, markup decimal.Decimal) *SyncService {
	return &SyncService{
		store:  store,
		vendor: vendor,
		cache:  cache,
		logger: logger,
		markup: markup,
	}
}

// Sync is a single sequential pass: one catalog fetch, one upsert per plan.
// Malformed plan records are logged and skipped, never fatal. Concurrent
// syncs are not guarded here; the admin trigger is expected to serialize.
func (s *SyncService) Sync(ctx context.Context) (*SyncSummary, error) {
	raw, err := s.vendor.GetDataPlans()
	if err != nil {
		return nil, fmt.Errorf("fetch provider catalog: %w", err)
	}

	networks, err := parseCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("parse provider catalog: %w", err)
	}

	summary := &SyncSummary{}
	for _, network := range networks {
		count := 0
		for _, plan := range network.Plans {
			if err := s.upsertPlan(ctx, network.Name, plan); err != nil {
				s.logger.WithFields(logrus.Fields{
					"network": network.Name,
					"plan_id": plan.ID,
				}).Warn(fmt.Sprintf("skipping plan: %v", err))
				summary.Skipped++
				continue
			}
			count++
		}
		summary.InsertedOrUpdated += count
		summary.Networks = append(summary.Networks, network.Name)

		if s.cache != nil {
			if err := s.cache.DeletePlans(ctx, network.Name); err != nil {
				s.logger.Warn(fmt.Sprintf("could not invalidate plan cache for %v: %v", network.Name, err))
			}
		}
	}

	s.logger.Info(fmt.Sprintf("Catalog sync complete: %v plans across %v networks, %v skipped",
		summary.InsertedOrUpdated, len(summary.Networks), summary.Skipped))
	return summary, nil
}

func (s *SyncService) upsertPlan(ctx context.Context, network string, plan rawPlan) error {
	cost, err := decimal.NewFromString(plan.Price)
	if err != nil {
		return fmt.Errorf("unparseable price %q: %w", plan.Price, err)
	}
	if cost.IsNegative() {
		return fmt.Errorf("negative price %q", plan.Price)
	}

	// Selling price only takes effect on insert; the ON CONFLICT clause
	// leaves an existing one alone.
	selling := cost.Add(s.markup)

	_, err = s.store.UpsertDataPlan(ctx, db.UpsertDataPlanParams{
		Network:      network,
		PlanID:       plan.ID,
		Name:         plan.Name,
		CostPrice:    cost.StringFixed(2),
		SellingPrice: selling.StringFixed(2),
	})
	return err
}
