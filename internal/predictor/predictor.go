// Package predictor estimates a member's churn probability. Until a model
// has been trained it falls back to the deterministic heuristic rules; after
// training it scores with a random forest over standardized features.
package predictor

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"retainbot/internal/artifact"
	"retainbot/internal/domain"
)

// DefaultArtifactName is the blob name trained state is persisted under.
const DefaultArtifactName = "churn_model.json"

const trainSeed = 42

// state is the complete trained snapshot. It is immutable once built; the
// predictor swaps the whole pointer on retrain so concurrent inference sees
// either the old or the new state, never a mix.
type state struct {
	Trained      bool      `json:"trained"`
	FeatureNames []string  `json:"feature_names"`
	Scaler       *scaler   `json:"scaler"`
	Forest       *forest   `json:"forest"`
	TrainedAt    time.Time `json:"trained_at"`
}

type FeatureImportance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

type TrainingMetrics struct {
	Accuracy          float64             `json:"accuracy"`
	FeatureImportance []FeatureImportance `json:"feature_importance"`
	Rows              int                 `json:"rows"`
}

type Predictor struct {
	mu      sync.RWMutex
	state   *state
	trainMu sync.Mutex

	store artifact.Store
	name  string
}

// New builds a predictor backed by the given artifact store and immediately
// tries to restore persisted state. A missing or corrupt artifact leaves the
// predictor untrained; it never fails construction.
func New(store artifact.Store, name string) *Predictor {
	if name == "" {
		name = DefaultArtifactName
	}
	p := &Predictor{store: store, name: name}
	p.Load()
	return p
}

func (p *Predictor) snapshot() *state {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Predictor) Trained() bool {
	st := p.snapshot()
	return st != nil && st.Trained
}

// EstimateProbability returns the churn probability in [0,1] for a feature
// vector. Missing features default to zero contributions; this never fails.
func (p *Predictor) EstimateProbability(f domain.FeatureVector) float64 {
	st := p.snapshot()
	if st == nil || !st.Trained {
		return domain.HeuristicScore(f)
	}
	row := st.Scaler.transform(f.Slice())
	return st.Forest.predictProba(row)
}

// Train fits normalization and the forest on a stratified train split,
// evaluates on the holdout, persists the new state and swaps it in
// atomically. The caller is responsible for providing enough rows.
func (p *Predictor) Train(rows []domain.TrainingExample) (TrainingMetrics, error) {
	p.trainMu.Lock()
	defer p.trainMu.Unlock()

	if len(rows) == 0 {
		return TrainingMetrics{}, fmt.Errorf("train: empty dataset")
	}

	trainRows, holdoutRows := stratifiedSplit(rows, 0.2, trainSeed)

	trainX := make([][]float64, len(trainRows))
	trainY := make([]int, len(trainRows))
	for i, row := range trainRows {
		trainX[i] = row.Features.Slice()
		trainY[i] = row.Label
	}

	sc := fitScaler(trainX)
	fr := fitForest(sc.transformAll(trainX), trainY, trainSeed)

	correct := 0
	for _, row := range holdoutRows {
		prob := fr.predictProba(sc.transform(row.Features.Slice()))
		predicted := 0
		if prob >= 0.5 {
			predicted = 1
		}
		if predicted == row.Label {
			correct++
		}
	}
	accuracy := 1.0
	if len(holdoutRows) > 0 {
		accuracy = float64(correct) / float64(len(holdoutRows))
	}

	st := &state{
		Trained:      true,
		FeatureNames: domain.FeatureNames(),
		Scaler:       sc,
		Forest:       fr,
		TrainedAt:    time.Now().UTC(),
	}

	if err := p.persist(st); err != nil {
		return TrainingMetrics{}, fmt.Errorf("persist trained state: %w", err)
	}

	p.mu.Lock()
	p.state = st
	p.mu.Unlock()

	return TrainingMetrics{
		Accuracy:          accuracy,
		FeatureImportance: rankImportances(st),
		Rows:              len(rows),
	}, nil
}

// Save persists the current state. A no-op while untrained.
func (p *Predictor) Save() error {
	st := p.snapshot()
	if st == nil || !st.Trained {
		return nil
	}
	return p.persist(st)
}

func (p *Predictor) persist(st *state) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return p.store.Write(p.name, blob)
}

// Load restores persisted state. Failure to read or decode is logged and
// leaves the predictor untrained; it is never propagated.
func (p *Predictor) Load() {
	blob, err := p.store.Read(p.name)
	if err != nil {
		log.Printf("predictor: no persisted state (%v), using heuristic", err)
		return
	}
	var st state
	if err := json.Unmarshal(blob, &st); err != nil {
		log.Printf("predictor: corrupt persisted state (%v), using heuristic", err)
		return
	}
	if !st.Trained || st.Scaler == nil || st.Forest == nil {
		log.Printf("predictor: persisted state incomplete, using heuristic")
		return
	}

	p.mu.Lock()
	p.state = &st
	p.mu.Unlock()
	log.Printf("predictor: restored model trained at %s", st.TrainedAt.Format(time.RFC3339))
}

// stratifiedSplit shuffles each label class separately and carves off the
// given holdout proportion from both, preserving the class balance.
func stratifiedSplit(rows []domain.TrainingExample, holdout float64, seed int64) (train, test []domain.TrainingExample) {
	var pos, neg []domain.TrainingExample
	for _, row := range rows {
		if row.Label == 1 {
			pos = append(pos, row)
		} else {
			neg = append(neg, row)
		}
	}

	r := rand.New(rand.NewSource(seed))
	split := func(class []domain.TrainingExample) {
		r.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		cut := int(float64(len(class)) * holdout)
		test = append(test, class[:cut]...)
		train = append(train, class[cut:]...)
	}
	split(pos)
	split(neg)
	return train, test
}

func rankImportances(st *state) []FeatureImportance {
	out := make([]FeatureImportance, 0, len(st.FeatureNames))
	for i, name := range st.FeatureNames {
		weight := 0.0
		if i < len(st.Forest.Importances) {
			weight = st.Forest.Importances[i]
		}
		out = append(out, FeatureImportance{Feature: name, Weight: weight})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
