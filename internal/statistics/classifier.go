package statistics

// PlayerType is the descriptive label derived from session play
type PlayerType string

const (
	Conservative PlayerType = "conservative"
	Strategic    PlayerType = "strategic"
	Balanced     PlayerType = "balanced"
	Aggressive   PlayerType = "aggressive"
	Reckless     PlayerType = "reckless"
)

// minConfidence is the score floor below which the classifier falls
// back to Balanced.
const minConfidence = 0.3

// Classification is a scored player-type result
type Classification struct {
	Type       PlayerType
	Confidence float64
	Scores     map[PlayerType]float64
}

// Classify scores the session against five heuristic profiles and
// returns the best match. Ties and low-confidence sessions resolve to
// Balanced.
func Classify(s *Session) Classification {
	if s.Rounds == 0 {
		return Classification{Type: Balanced, Scores: map[PlayerType]float64{}}
	}

	scores := map[PlayerType]float64{
		Conservative: scoreConservative(s),
		Strategic:    scoreStrategic(s),
		Balanced:     scoreBalanced(s),
		Aggressive:   scoreAggressive(s),
		Reckless:     scoreReckless(s),
	}

	best := Balanced
	bestScore := 0.0
	// Stable order so equal scores resolve the same way every time.
	for _, pt := range []PlayerType{Conservative, Strategic, Balanced, Aggressive, Reckless} {
		if scores[pt] > bestScore {
			best = pt
			bestScore = scores[pt]
		}
	}

	if bestScore < minConfidence {
		best = Balanced
		bestScore = scores[Balanced]
	}

	return Classification{Type: best, Confidence: bestScore, Scores: scores}
}

// scoreConservative rewards small stakes and no chasing
func scoreConservative(s *Session) float64 {
	score := 0.0
	if s.MaxBetFraction > 0 && s.MaxBetFraction < 0.05 {
		score += 0.5
	} else if s.MaxBetFraction < 0.10 {
		score += 0.25
	}
	if s.ChaseRate() < 0.1 {
		score += 0.3
	}
	if s.BonusRate() < 0.05 {
		score += 0.2
	}
	return clamp(score)
}

// scoreStrategic rewards disciplined use of doubles and splits with
// steady bet sizing
func scoreStrategic(s *Session) float64 {
	score := 0.0
	tactical := s.TacticalRate()
	if tactical >= 0.1 && tactical <= 0.4 {
		score += 0.5
	} else if tactical > 0 {
		score += 0.2
	}
	if s.ChaseRate() < 0.2 {
		score += 0.3
	}
	if s.MaxBetFraction < 0.15 {
		score += 0.2
	}
	return clamp(score)
}

// scoreBalanced is the midline profile every session partially fits
func scoreBalanced(s *Session) float64 {
	score := 0.3
	if s.MaxBetFraction >= 0.05 && s.MaxBetFraction <= 0.25 {
		score += 0.2
	}
	if chase := s.ChaseRate(); chase >= 0.1 && chase <= 0.4 {
		score += 0.1
	}
	return clamp(score)
}

// scoreAggressive rewards big stakes and heavy tactical play
func scoreAggressive(s *Session) float64 {
	score := 0.0
	if s.MaxBetFraction > 0.25 {
		score += 0.4
	} else if s.MaxBetFraction > 0.15 {
		score += 0.2
	}
	if s.TacticalRate() > 0.4 {
		score += 0.3
	}
	if s.ConcurrentHWM >= 2 {
		score += 0.2
	}
	return clamp(score)
}

// scoreReckless rewards loss chasing on top of outsized stakes
func scoreReckless(s *Session) float64 {
	score := 0.0
	if s.ChaseRate() > 0.5 {
		score += 0.5
	} else if s.ChaseRate() > 0.3 {
		score += 0.25
	}
	if s.MaxBetFraction > 0.4 {
		score += 0.35
	}
	if s.BonusRate() > 0.25 {
		score += 0.15
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
