package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ShelfPrice/internal/domain/models"
	"ShelfPrice/internal/services/model"
	"ShelfPrice/pkg/logger"
)

func sampleBundle(t *testing.T) *Bundle {
	t.Helper()

	x := [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	y := []float64{10, 20, 30, 40}

	scaler := &model.Scaler{}
	if err := scaler.Fit(x); err != nil {
		t.Fatalf("fit scaler: %v", err)
	}
	forest := model.NewForest(model.ForestParams{Trees: 3, MaxDepth: 3, MinLeafSize: 1, Seed: 1})
	if err := forest.Fit(scaler.TransformAll(x), y); err != nil {
		t.Fatalf("fit forest: %v", err)
	}
	boosted := model.NewBoosted(model.BoostedParams{Rounds: 5, MaxDepth: 2, MinLeafSize: 1, LearningRate: 0.1})
	if err := boosted.Fit(scaler.TransformAll(x), y); err != nil {
		t.Fatalf("fit boosted: %v", err)
	}

	state := models.NewPolicyState(2, 35)
	table := map[models.PolicyState]models.ActionValues{state: models.NewActionValues()}
	table[state][models.ActionDecreaseSmall] = 0.42

	return &Bundle{
		Forest:       forest,
		Boosted:      boosted,
		Scaler:       scaler,
		FeatureNames: models.FeatureNames,
		PolicyTable:  table,
		PriceHistory: map[string][]models.PriceHistoryEntry{
			"P1": {{Timestamp: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), RecommendedPrice: 4.2, DiscountPercent: 16, Confidence: 0.8, StockLeft: 12}},
		},
		Performance:  &models.PerformanceStats{ForestR2: 0.9, BoostedR2: 0.95, TrainingSamples: 4, FeatureCount: 2},
		LastTraining: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Trained:      true,
	}
}

func TestFileBundleStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "bundle.json")
	store := NewFileBundleStore(path, logger.Nop())

	saved := sampleBundle(t)
	if err := store.Save(saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Trained {
		t.Fatal("loaded bundle lost trained flag")
	}
	if loaded.SchemaVersion != BundleSchemaVersion {
		t.Fatalf("schema version = %d, want %d", loaded.SchemaVersion, BundleSchemaVersion)
	}

	probe := loaded.Scaler.Transform([]float64{3, 4})
	if got, want := loaded.Forest.Predict(probe), saved.Forest.Predict(saved.Scaler.Transform([]float64{3, 4})); got != want {
		t.Fatalf("forest prediction changed across round trip: %v vs %v", got, want)
	}

	state := models.NewPolicyState(2, 35)
	if got := loaded.PolicyTable[state][models.ActionDecreaseSmall]; got != 0.42 {
		t.Fatalf("policy value = %v, want 0.42", got)
	}
	if len(loaded.PriceHistory["P1"]) != 1 {
		t.Fatalf("history entries = %d, want 1", len(loaded.PriceHistory["P1"]))
	}
	if loaded.PriceHistory["P1"][0].StockLeft != 12 {
		t.Fatalf("history stock = %d, want 12", loaded.PriceHistory["P1"][0].StockLeft)
	}
}

func TestFileBundleStoreLoadMissing(t *testing.T) {
	store := NewFileBundleStore(filepath.Join(t.TempDir(), "absent.json"), logger.Nop())
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for missing bundle")
	}
}

func TestFileBundleStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileBundleStore(path, logger.Nop())
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for corrupt bundle")
	}
}

func TestFileBundleStoreRejectsSchemaDrift(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, []byte(`{"schema_version": 99}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileBundleStore(path, logger.Nop())
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for unknown schema version")
	}
}
