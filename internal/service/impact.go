package service

import (
	"math"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
)

// Reference rates that a typical good game sits near; each normalised term
// lands close to 1 at these values.
const (
	ReferenceVisionPerMin = 2.0
	ReferenceCSPerMin     = 10.0
	ReferenceGoldPerMin   = 600.0
)

type ImpactWeights struct {
	DamageShare       float64
	KillParticipation float64
	Vision            float64
	CS                float64
	Gold              float64
	Win               float64
}

var DefaultImpactWeights = ImpactWeights{
	DamageShare:       0.30,
	KillParticipation: 0.25,
	Vision:            0.15,
	CS:                0.10,
	Gold:              0.10,
	Win:               0.10,
}

// ImpactScorer folds the per-match factors into one scalar. The per-minute
// terms are capped at Cap, which defaults to +Inf: scores above 1 are
// possible for extreme games and are kept.
type ImpactScorer struct {
	Weights ImpactWeights
	Cap     float64
}

func NewImpactScorer() *ImpactScorer {
	return &ImpactScorer{Weights: DefaultImpactWeights, Cap: math.Inf(1)}
}

func (s *ImpactScorer) Score(g domain.GameStats) float64 {
	win := 0.0
	if g.Win {
		win = 1.0
	}

	w := s.Weights
	return w.DamageShare*g.DamageShare +
		w.KillParticipation*g.KillParticipation +
		w.Vision*math.Min(g.VisionPerMin/ReferenceVisionPerMin, s.Cap) +
		w.CS*math.Min(g.CSPerMin/ReferenceCSPerMin, s.Cap) +
		w.Gold*math.Min(g.GoldPerMin/ReferenceGoldPerMin, s.Cap) +
		w.Win*win
}
