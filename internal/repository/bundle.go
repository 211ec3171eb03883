package repository

import (
	"time"

	"ShelfPrice/internal/domain/models"
	"ShelfPrice/internal/services/model"
)

// BundleSchemaVersion guards persisted bundles against format drift.
const BundleSchemaVersion = 1

// Bundle is the single persisted unit of engine state: both regressors, the
// scaler, the feature-name list, the policy table, the full price history,
// performance stats, and the training flag. It is written and read as one
// object; a bundle is never applied partially.
type Bundle struct {
	SchemaVersion int                                        `json:"schema_version"`
	Forest        *model.Forest                              `json:"forest"`
	Boosted       *model.Boosted                             `json:"boosted"`
	Scaler        *model.Scaler                              `json:"scaler"`
	FeatureNames  []string                                   `json:"feature_names"`
	PolicyTable   map[models.PolicyState]models.ActionValues `json:"policy_table"`
	PriceHistory  map[string][]models.PriceHistoryEntry      `json:"price_history"`
	Performance   *models.PerformanceStats                   `json:"performance,omitempty"`
	LastTraining  time.Time                                  `json:"last_training_time"`
	Trained       bool                                       `json:"is_trained"`
}
