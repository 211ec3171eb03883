package usecase

import (
	"context"
	"fmt"

	"ShelfPrice/internal/domain/models"
	"ShelfPrice/pkg/logger"
	"ShelfPrice/pkg/queue"

	"github.com/go-playground/validator/v10"
)

// RewardJob consumes reward observations from the queue and feeds them into
// the discount policy. Rewards arrive after the outcome of an applied
// recommendation is known, so this runs on its own cadence, decoupled from
// the prediction path.
type RewardJob struct {
	engine   *PricingEngine
	log      *logger.Logger
	validate *validator.Validate
}

func NewRewardJob(engine *PricingEngine, log *logger.Logger) *RewardJob {
	return &RewardJob{engine: engine, log: log, validate: validator.New()}
}

func (j *RewardJob) Name() string { return "policy_reward" }

func (j *RewardJob) Type() string { return "reward_observation" }

func (j *RewardJob) Handle(ctx context.Context, payload interface{}) error {
	obs, err := queue.ParsePayload[models.RewardObservation](payload)
	if err != nil {
		return fmt.Errorf("parse reward payload: %w", err)
	}
	if err := j.validate.Struct(obs); err != nil {
		return fmt.Errorf("invalid reward observation: %w", err)
	}

	state := models.NewPolicyState(obs.DaysToExpiry, obs.StockLeft)
	next := models.NewPolicyState(obs.NextDaysToExpiry, obs.NextStockLeft)
	j.engine.Policy().Update(state, obs.Action, obs.Reward, next)

	j.log.Debug("policy reward applied",
		logger.String("product_id", obs.ProductID),
		logger.String("action", string(obs.Action)),
		logger.Float64("reward", obs.Reward),
	)
	return nil
}

var _ queue.Job = (*RewardJob)(nil)
