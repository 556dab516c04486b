package game

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Engine owns one game's authoritative state and sequences turns,
// seasons, and termination. All exported methods serialize on an
// internal mutex; one engine serves exactly one caller/session.
type Engine struct {
	mu        sync.Mutex
	log       *slog.Logger
	src       Source
	countries []CountryOption
	state     *State
}

// NewEngine builds an engine over the given country pool. The pool must
// come pre-validated from the catalog boundary: entries with no name or
// no crops are ignored here rather than rejected.
func NewEngine(countries []CountryOption, src Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if src == nil {
		src = NewSource()
	}
	pool := make([]CountryOption, 0, len(countries))
	for _, c := range countries {
		if strings.TrimSpace(c.Name) != "" && len(c.Crops) > 0 {
			pool = append(pool, c)
		}
	}
	return &Engine{
		log:       logger,
		src:       src,
		countries: pool,
	}
}

// CreateGame discards any previous game and starts a fresh one: the
// human takes seat one with the given country and crop, and three
// rival countries are drawn at random from the pool.
func (e *Engine) CreateGame(country, crop string) (*State, error) {
	country = strings.TrimSpace(country)
	crop = strings.TrimSpace(crop)
	if country == "" || crop == "" {
		return nil, ErrSelectionRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rivals := e.drawRivalCountries(country)
	if len(rivals) < PlayerCount-1 {
		return nil, ErrInsufficientCountries
	}

	players := make([]Player, 0, PlayerCount)
	players = append(players, Player{
		ID:           uuid.NewString(),
		PlayerNumber: 1,
		IsAI:         false,
		Money:        InitialMoney,
		Country:      country,
		SelectedCrop: crop,
	})
	for i, rc := range rivals {
		players = append(players, Player{
			ID:           uuid.NewString(),
			PlayerNumber: i + 2,
			IsAI:         true,
			Money:        InitialMoney,
			Country:      rc.Name,
			SelectedCrop: rc.Crops[e.src.Intn(len(rc.Crops))],
			RiskProfile:  riskProfiles[i%len(riskProfiles)],
		})
	}

	e.state = &State{
		Players:       players,
		CurrentSeason: 1,
	}
	e.log.Info("game created",
		"country", country,
		"crop", crop,
		"players", len(players),
	)
	return e.state.Clone(), nil
}

// SubmitInvestment records the acting player's decision. When the acting
// player is the last eligible one in the round, the round resolves with
// one shared roll applied to every active player. If the turn then lands
// on a rival, the engine plays rival turns synchronously until control
// reaches the human again or the game ends.
func (e *Engine) SubmitInvestment(percentage int) (*State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.submit(percentage); err != nil {
		return nil, err
	}
	for e.state != nil && !e.state.GameOver {
		current := e.state.CurrentPlayer()
		if current == nil || !current.IsAI || current.IsBankrupt {
			break
		}
		if err := e.submit(AIDecision(current.RiskProfile, e.src)); err != nil {
			return nil, err
		}
	}
	return e.state.Clone(), nil
}

// Reset discards the game unconditionally.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() (*State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, ErrNoActiveGame
	}
	return e.state.Clone(), nil
}

// submit applies a single player's decision. Callers hold e.mu.
// All validation happens before any mutation, so a rejected call leaves
// the state untouched.
func (e *Engine) submit(percentage int) error {
	st := e.state
	if st == nil {
		return ErrNoActiveGame
	}
	if st.GameOver {
		return ErrGameOver
	}
	acting := st.CurrentPlayer()
	if acting == nil {
		return ErrNoActiveGame
	}
	if acting.IsBankrupt {
		return ErrPlayerBankrupt
	}
	if acting.Money <= 0 {
		return ErrNoMoney
	}

	// Clamping happens in ResolveSeason, not here: the raw decision is
	// recorded as submitted.
	p := percentage
	acting.LastInvestmentPercentage = &p

	if e.isLastEligible(st.CurrentPlayerIndex) {
		e.resolveRound()
		return nil
	}
	st.CurrentPlayerIndex = e.nextEligible(st.CurrentPlayerIndex + 1)
	return nil
}

// isLastEligible reports whether no non-bankrupt player follows idx in
// the current round's order.
func (e *Engine) isLastEligible(idx int) bool {
	for i := idx + 1; i < len(e.state.Players); i++ {
		if !e.state.Players[i].IsBankrupt {
			return false
		}
	}
	return true
}

// nextEligible returns the first non-bankrupt index at or after from.
func (e *Engine) nextEligible(from int) int {
	for i := from; i < len(e.state.Players); i++ {
		if !e.state.Players[i].IsBankrupt {
			return i
		}
	}
	return from
}

// resolveRound draws the one shared roll, applies it to every active
// player, and evaluates termination in strict priority order:
// elimination, then threshold, then season limit.
func (e *Engine) resolveRound() {
	st := e.state
	roll := RollDice(e.src)

	for i := range st.Players {
		p := &st.Players[i]
		if p.IsBankrupt {
			continue
		}
		pct := 0
		if p.LastInvestmentPercentage != nil {
			pct = *p.LastInvestmentPercentage
		}
		res := ResolveSeason(p.Money, pct, roll)
		p.Money = res.MoneyAfter
		if res.MoneyAfter == 0 {
			p.IsBankrupt = true
		}
	}

	st.LastRoll = roll
	st.RollHistory = append(st.RollHistory, SeasonRoll{
		Season:  st.CurrentSeason,
		Roll:    roll,
		Outcome: roll.Outcome(),
	})

	active := make([]int, 0, len(st.Players))
	for i, p := range st.Players {
		if !p.IsBankrupt {
			active = append(active, i)
		}
	}

	// Elimination beats threshold: a sole survivor wins even if a now
	// bankrupt player once crossed the winning amount.
	if len(active) <= 1 {
		winner := e.bestOf(active)
		if winner < 0 {
			winner = e.bestOf(allIndexes(len(st.Players)))
		}
		e.finish(winner, WinByElimination)
		return
	}

	// Threshold is evaluated only after the full round has resolved;
	// the highest balance among qualifiers wins.
	qualifiers := make([]int, 0, len(active))
	for _, i := range active {
		if st.Players[i].Money >= WinningAmount {
			qualifiers = append(qualifiers, i)
		}
	}
	if len(qualifiers) > 0 {
		e.finish(e.bestOf(qualifiers), WinByThreshold)
		return
	}

	if st.CurrentSeason+1 > MaxSeasons {
		e.finish(e.bestOf(active), WinBySeasonLimit)
		return
	}

	st.CurrentSeason++
	st.CurrentPlayerIndex = e.nextEligible(0)
}

// bestOf picks the highest-money player among idxs; ties break to the
// lowest player number. Returns -1 for an empty slice.
func (e *Engine) bestOf(idxs []int) int {
	best := -1
	for _, i := range idxs {
		if best < 0 || e.state.Players[i].Money > e.state.Players[best].Money {
			best = i
		}
	}
	return best
}

func (e *Engine) finish(winnerIdx int, reason string) {
	st := e.state
	st.GameOver = true
	st.WinReason = reason
	w := st.Players[winnerIdx]
	st.Winner = &w
	e.log.Info("game over",
		"reason", reason,
		"season", st.CurrentSeason,
		"winner", w.Name(),
		"money", w.Money,
	)
}

// drawRivalCountries shuffles the eligible pool (everything except the
// human's country) and takes the first three.
func (e *Engine) drawRivalCountries(humanCountry string) []CountryOption {
	pool := make([]CountryOption, 0, len(e.countries))
	for _, c := range e.countries {
		if !strings.EqualFold(c.Name, humanCountry) {
			pool = append(pool, c)
		}
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := e.src.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if len(pool) > PlayerCount-1 {
		pool = pool[:PlayerCount-1]
	}
	return pool
}

func allIndexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
