package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/KoboPoint/KoboPoint-Backend/api/models"
)

const planCacheTTL = 10 * time.Minute

func planKeyPrefix(network string) string {
	return fmt.Sprintf("data_plans:%s", network)
}

// StorePlans caches the active plan list for a network, one hash per plan.
func (r *RedisService) StorePlans(ctx context.Context, network string, plans []models.DataPlanModel) error {
	for _, plan := range plans {
		planKey := fmt.Sprintf("%s:%s", planKeyPrefix(network), plan.PlanID)

		err := r.client.HSet(ctx, planKey, map[string]interface{}{
			"plan_id":       plan.PlanID,
			"network":       plan.Network,
			"name":          plan.Name,
			"selling_price": plan.SellingPrice,
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to store plan %s: %w", plan.PlanID, err)
		}

		err = r.client.Expire(ctx, planKey, planCacheTTL).Err()
		if err != nil {
			return fmt.Errorf("failed to set expiration for plan %s: %w", plan.PlanID, err)
		}
	}
	return nil
}

// GetPlans returns the cached plan list for a network, empty when the cache
// is cold.
func (r *RedisService) GetPlans(ctx context.Context, network string) ([]models.DataPlanModel, error) {
	keys, err := r.client.Keys(ctx, fmt.Sprintf("%s:*", planKeyPrefix(network))).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get plan keys: %w", err)
	}

	var plans []models.DataPlanModel

	for _, planKey := range keys {
		fields, err := r.client.HGetAll(ctx, planKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get plan %s: %w", planKey, err)
		}

		plans = append(plans, models.DataPlanModel{
			PlanID:       fields["plan_id"],
			Network:      fields["network"],
			Name:         fields["name"],
			SellingPrice: fields["selling_price"],
		})
	}

	return plans, nil
}

// DeletePlans drops the cached plan list for a network.
func (r *RedisService) DeletePlans(ctx context.Context, network string) error {
	keys, err := r.client.Keys(ctx, fmt.Sprintf("%s:*", planKeyPrefix(network))).Result()
	if err != nil {
		return fmt.Errorf("failed to get plan keys: %w", err)
	}

	for _, planKey := range keys {
		if err := r.client.Del(ctx, planKey).Err(); err != nil {
			return fmt.Errorf("failed to delete plan %s: %w", planKey, err)
		}
	}
	return nil
}
