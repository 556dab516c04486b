package game

import (
	"fmt"
	"log/slog"
)

// SimStats aggregates outcomes over a batch of auto-played games. The
// human seat is scripted with the balanced band so every game runs to
// completion without input.
type SimStats struct {
	Games         int
	WinsBySeat    map[int]int
	WinsByProfile map[RiskProfile]int
	WinsByReason  map[string]int
	TotalSeasons  int
}

// AvgSeasons is the mean number of seasons per finished game.
func (s SimStats) AvgSeasons() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalSeasons) / float64(s.Games)
}

// Simulate auto-plays n games over the given country pool and collects
// win statistics. It is used for balance checks, not gameplay.
func Simulate(countries []CountryOption, n int, src Source, logger *slog.Logger) (SimStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(countries) < PlayerCount {
		return SimStats{}, ErrInsufficientCountries
	}

	stats := SimStats{
		WinsBySeat:    make(map[int]int),
		WinsByProfile: make(map[RiskProfile]int),
		WinsByReason:  make(map[string]int),
	}
	eng := NewEngine(countries, src, logger)

	for i := 0; i < n; i++ {
		home := countries[src.Intn(len(countries))]
		st, err := eng.CreateGame(home.Name, home.Crops[src.Intn(len(home.Crops))])
		if err != nil {
			return stats, fmt.Errorf("simulate game %d: %w", i+1, err)
		}
		for !st.GameOver {
			st, err = eng.SubmitInvestment(AIDecision(RiskBalanced, src))
			if err != nil {
				return stats, fmt.Errorf("simulate game %d: %w", i+1, err)
			}
		}
		stats.Games++
		stats.TotalSeasons += st.CurrentSeason
		stats.WinsBySeat[st.Winner.PlayerNumber]++
		stats.WinsByReason[st.WinReason]++
		profile := st.Winner.RiskProfile
		if !st.Winner.IsAI {
			profile = RiskBalanced
		}
		stats.WinsByProfile[profile]++
	}
	eng.Reset()
	return stats, nil
}
