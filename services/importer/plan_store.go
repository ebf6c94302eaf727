package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studiobook/models"
	"studiobook/utils"

	"github.com/go-redis/redis/v8"
)

// ErrPlanNotFound means the token is unknown or the staged plan expired
// before the operator confirmed it.
var ErrPlanNotFound = errors.New("import plan not found or expired")

// PlanStore stages prepared import plans between the two phases. The TTL is
// the confirmation window: an unconfirmed plan simply evaporates.
type PlanStore interface {
	Save(ctx context.Context, plan *models.ImportPlan) error
	Load(ctx context.Context, token string) (*models.ImportPlan, error)
	Delete(ctx context.Context, token string) error
}

// RedisPlanStore is the production PlanStore.
type RedisPlanStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisPlanStore) Save(ctx context.Context, plan *models.ImportPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal import plan: %w", err)
	}
	if err := s.Client.Set(ctx, utils.ImportPlanCachePrefix+plan.Token, payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to stage import plan: %w", err)
	}
	return nil
}

func (s *RedisPlanStore) Load(ctx context.Context, token string) (*models.ImportPlan, error) {
	payload, err := s.Client.Get(ctx, utils.ImportPlanCachePrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load import plan: %w", err)
	}
	var plan models.ImportPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("failed to decode import plan: %w", err)
	}
	return &plan, nil
}

func (s *RedisPlanStore) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, utils.ImportPlanCachePrefix+token).Err()
}
