package game

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCountries(n int) []CountryOption {
	out := make([]CountryOption, n)
	for i := range out {
		out[i] = CountryOption{
			Name:  fmt.Sprintf("Country %d", i+1),
			Crops: []string{"Maize", "Cassava"},
		}
	}
	return out
}

// scriptedSource replays a fixed value sequence, padding with zeros.
// Values are reduced mod n so each entry maps onto the requested range.
type scriptedSource struct {
	vals []int
	i    int
}

func (s *scriptedSource) Intn(n int) int {
	if s.i >= len(s.vals) {
		return 0
	}
	v := s.vals[s.i] % n
	s.i++
	return v
}

// humanTable builds a mid-game state of four human-controlled seats so
// tests can step through a round without AI auto-play interfering.
func humanTable(money ...int64) *State {
	players := make([]Player, len(money))
	for i, m := range money {
		players[i] = Player{
			ID:           fmt.Sprintf("p%d", i+1),
			PlayerNumber: i + 1,
			Money:        m,
			Country:      fmt.Sprintf("Country %d", i+1),
			SelectedCrop: "Maize",
		}
	}
	return &State{Players: players, CurrentSeason: 1}
}

func testEngine(st *State, src Source) *Engine {
	e := NewEngine(testCountries(8), src, discardLogger())
	e.state = st
	return e
}

func TestCreateGameValidation(t *testing.T) {
	e := NewEngine(testCountries(8), NewSeededSource(1), discardLogger())
	if _, err := e.CreateGame("", "Maize"); !errors.Is(err, ErrSelectionRequired) {
		t.Fatalf("empty country: got %v, want ErrSelectionRequired", err)
	}
	if _, err := e.CreateGame("Country 1", "  "); !errors.Is(err, ErrSelectionRequired) {
		t.Fatalf("blank crop: got %v, want ErrSelectionRequired", err)
	}

	small := NewEngine(testCountries(3), NewSeededSource(1), discardLogger())
	if _, err := small.CreateGame("Country 1", "Maize"); !errors.Is(err, ErrInsufficientCountries) {
		t.Fatalf("3-country pool: got %v, want ErrInsufficientCountries", err)
	}
}

func TestCreateGameSeatsTable(t *testing.T) {
	e := NewEngine(testCountries(8), NewSeededSource(3), discardLogger())
	st, err := e.CreateGame("Country 1", "Maize")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if len(st.Players) != PlayerCount {
		t.Fatalf("got %d players, want %d", len(st.Players), PlayerCount)
	}
	if st.CurrentSeason != 1 || st.CurrentPlayerIndex != 0 || st.GameOver {
		t.Fatalf("unexpected initial state: %+v", st)
	}
	if !st.LastRoll.IsZero() || len(st.RollHistory) != 0 {
		t.Fatalf("fresh game should have no rolls: %+v", st)
	}

	seen := map[string]bool{"Country 1": true}
	for i, p := range st.Players {
		if p.PlayerNumber != i+1 {
			t.Fatalf("player %d has number %d", i, p.PlayerNumber)
		}
		if p.Money != InitialMoney {
			t.Fatalf("player %d starts with %d, want %d", i, p.Money, InitialMoney)
		}
		if p.IsBankrupt || p.LastInvestmentPercentage != nil {
			t.Fatalf("player %d not fresh: %+v", i, p)
		}
		if p.ID == "" {
			t.Fatalf("player %d missing id", i)
		}
		if i == 0 {
			if p.IsAI || p.Country != "Country 1" || p.SelectedCrop != "Maize" {
				t.Fatalf("human seat wrong: %+v", p)
			}
			continue
		}
		if !p.IsAI {
			t.Fatalf("player %d should be AI", i)
		}
		if seen[p.Country] {
			t.Fatalf("country %q seated twice", p.Country)
		}
		seen[p.Country] = true
		if want := riskProfiles[(i-1)%len(riskProfiles)]; p.RiskProfile != want {
			t.Fatalf("player %d profile %s, want %s", i, p.RiskProfile, want)
		}
	}
}

func TestSubmitWithoutGame(t *testing.T) {
	e := NewEngine(testCountries(8), NewSeededSource(1), discardLogger())
	if _, err := e.SubmitInvestment(50); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("got %v, want ErrNoActiveGame", err)
	}
	if _, err := e.Snapshot(); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("snapshot: got %v, want ErrNoActiveGame", err)
	}
}

func TestRoundAtomicityForNonFinalPlayers(t *testing.T) {
	e := testEngine(humanTable(1000, 1000, 1000, 1000), &scriptedSource{})
	for turn := 0; turn < 3; turn++ {
		st, err := e.SubmitInvestment(40)
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		if st.CurrentSeason != 1 {
			t.Fatalf("turn %d advanced season to %d", turn, st.CurrentSeason)
		}
		if len(st.RollHistory) != 0 || !st.LastRoll.IsZero() {
			t.Fatalf("turn %d resolved early: %+v", turn, st)
		}
		for i, p := range st.Players {
			if p.Money != 1000 {
				t.Fatalf("turn %d mutated player %d money to %d", turn, i, p.Money)
			}
		}
		if st.CurrentPlayerIndex != turn+1 {
			t.Fatalf("turn %d: pointer at %d, want %d", turn, st.CurrentPlayerIndex, turn+1)
		}
	}
}

func TestOneSharedRollPerRound(t *testing.T) {
	// Dice script yields faces 3 and 5: sum 8, a normal 24% gain.
	e := testEngine(humanTable(1000, 1000, 1000, 1000), &scriptedSource{vals: []int{2, 4}})
	percents := []int{10, 30, 50, 70}
	var st *State
	var err error
	for _, pct := range percents {
		st, err = e.SubmitInvestment(pct)
		if err != nil {
			t.Fatalf("submit %d%%: %v", pct, err)
		}
	}

	want := Roll{First: 3, Second: 5}
	if st.LastRoll != want {
		t.Fatalf("lastRoll %v, want %v", st.LastRoll, want)
	}
	if len(st.RollHistory) != 1 {
		t.Fatalf("history length %d, want 1", len(st.RollHistory))
	}
	if st.RollHistory[0].Season != 1 || st.RollHistory[0].Roll != want {
		t.Fatalf("history entry %+v", st.RollHistory[0])
	}
	for i, p := range st.Players {
		expect := ResolveSeason(1000, percents[i], want).MoneyAfter
		if p.Money != expect {
			t.Fatalf("player %d money %d, want %d from shared roll", i, p.Money, expect)
		}
	}
	if st.CurrentSeason != 2 || st.CurrentPlayerIndex != 0 {
		t.Fatalf("round did not advance cleanly: season=%d index=%d", st.CurrentSeason, st.CurrentPlayerIndex)
	}
}

func TestBankruptPlayersAreSkippedAndFrozen(t *testing.T) {
	st := humanTable(1000, 0, 1000, 1000)
	st.Players[1].IsBankrupt = true
	e := testEngine(st, &scriptedSource{vals: []int{0, 2}}) // faces 1 and 3, sum 4

	out, err := e.SubmitInvestment(0)
	if err != nil {
		t.Fatalf("seat 1: %v", err)
	}
	if out.CurrentPlayerIndex != 2 {
		t.Fatalf("pointer at %d, want 2 (bankrupt seat skipped)", out.CurrentPlayerIndex)
	}
	if _, err := e.SubmitInvestment(0); err != nil {
		t.Fatalf("seat 3: %v", err)
	}
	out, err = e.SubmitInvestment(0)
	if err != nil {
		t.Fatalf("seat 4: %v", err)
	}

	if out.Players[1].Money != 0 || !out.Players[1].IsBankrupt {
		t.Fatalf("bankrupt player mutated: %+v", out.Players[1])
	}
	if out.Players[1].LastInvestmentPercentage != nil {
		t.Fatalf("bankrupt player recorded a decision")
	}
	if out.CurrentSeason != 2 {
		t.Fatalf("season %d, want 2", out.CurrentSeason)
	}
}

func TestBankruptcyIsTriggeredAtZero(t *testing.T) {
	// Everyone bets everything on a disaster roll: faces 3 and 4.
	e := testEngine(humanTable(1000, 1000, 1000, 1000), &scriptedSource{vals: []int{2, 3}})
	var st *State
	var err error
	for i := 0; i < 4; i++ {
		st, err = e.SubmitInvestment(100)
		if err != nil {
			t.Fatalf("seat %d: %v", i+1, err)
		}
	}
	if !st.GameOver {
		t.Fatalf("all-in disaster should end the game")
	}
	for i, p := range st.Players {
		if p.Money != 0 || !p.IsBankrupt {
			t.Fatalf("player %d should be bankrupt at zero: %+v", i, p)
		}
	}
	if st.WinReason != WinByElimination {
		t.Fatalf("win reason %q, want %q", st.WinReason, WinByElimination)
	}
	if st.Winner == nil || st.Winner.PlayerNumber != 1 {
		t.Fatalf("tie among zeroed players should fall to seat 1, got %+v", st.Winner)
	}
}

func TestEliminationBeatsThreshold(t *testing.T) {
	// Seat 2 froze above the winning amount before going bankrupt in a
	// hypothetical earlier round; the sole survivor must still win by
	// elimination.
	st := humanTable(500, 8000, 0, 0)
	st.Players[1].IsBankrupt = true
	st.Players[2].IsBankrupt = true
	st.Players[3].IsBankrupt = true
	e := testEngine(st, &scriptedSource{vals: []int{0, 2}})

	out, err := e.SubmitInvestment(0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.GameOver || out.WinReason != WinByElimination {
		t.Fatalf("got reason %q over=%v, want elimination win", out.WinReason, out.GameOver)
	}
	if out.Winner.PlayerNumber != 1 {
		t.Fatalf("winner seat %d, want 1", out.Winner.PlayerNumber)
	}
}

func TestThresholdEvaluatedAfterFullRound(t *testing.T) {
	// Double roll (2,2): both leading seats double their all-in stake to
	// 13800; the tie breaks to the lower seat number.
	e := testEngine(humanTable(6900, 6900, 1000, 1000), &scriptedSource{vals: []int{1, 1}})
	percents := []int{100, 100, 0, 0}
	var st *State
	var err error
	for _, pct := range percents {
		st, err = e.SubmitInvestment(pct)
		if err != nil {
			t.Fatalf("submit %d%%: %v", pct, err)
		}
	}
	if !st.GameOver || st.WinReason != WinByThreshold {
		t.Fatalf("got reason %q over=%v, want threshold win", st.WinReason, st.GameOver)
	}
	if st.Winner.PlayerNumber != 1 || st.Winner.Money != 13800 {
		t.Fatalf("winner %+v, want seat 1 with 13800", st.Winner)
	}
}

func TestSeasonCapWithZeroInvestment(t *testing.T) {
	e := testEngine(humanTable(1000, 1000, 1000, 1000), NewSeededSource(11))
	var st *State
	var err error
	for round := 0; round < MaxSeasons; round++ {
		for seat := 0; seat < 4; seat++ {
			st, err = e.SubmitInvestment(0)
			if err != nil {
				t.Fatalf("round %d seat %d: %v", round+1, seat+1, err)
			}
		}
	}
	if !st.GameOver || st.WinReason != WinBySeasonLimit {
		t.Fatalf("got reason %q over=%v, want season-limit end", st.WinReason, st.GameOver)
	}
	if st.CurrentSeason != MaxSeasons {
		t.Fatalf("season %d, want %d", st.CurrentSeason, MaxSeasons)
	}
	if len(st.RollHistory) != MaxSeasons {
		t.Fatalf("history length %d, want %d", len(st.RollHistory), MaxSeasons)
	}
	// Zero percent never moves money, so the cap is a four-way tie and
	// the lowest seat number takes it.
	if st.Winner.PlayerNumber != 1 || st.Winner.Money != 1000 {
		t.Fatalf("winner %+v, want seat 1 with 1000", st.Winner)
	}
}

func TestNoMutationAfterGameOver(t *testing.T) {
	st := humanTable(500, 0, 0, 0)
	for i := 1; i < 4; i++ {
		st.Players[i].IsBankrupt = true
	}
	e := testEngine(st, &scriptedSource{vals: []int{0, 2}})
	final, err := e.SubmitInvestment(0)
	if err != nil {
		t.Fatalf("final submit: %v", err)
	}
	if !final.GameOver {
		t.Fatalf("expected game over")
	}

	if _, err := e.SubmitInvestment(50); !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v, want ErrGameOver", err)
	}
	after, err := e.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(after.RollHistory) != len(final.RollHistory) || after.Players[0].Money != final.Players[0].Money {
		t.Fatalf("rejected submit mutated state")
	}
}

func TestActingPlayerGuards(t *testing.T) {
	st := humanTable(1000, 1000, 1000, 1000)
	st.Players[0].IsBankrupt = true
	e := testEngine(st, &scriptedSource{})
	if _, err := e.SubmitInvestment(50); !errors.Is(err, ErrPlayerBankrupt) {
		t.Fatalf("got %v, want ErrPlayerBankrupt", err)
	}

	st2 := humanTable(0, 1000, 1000, 1000)
	e2 := testEngine(st2, &scriptedSource{})
	if _, err := e2.SubmitInvestment(50); !errors.Is(err, ErrNoMoney) {
		t.Fatalf("got %v, want ErrNoMoney", err)
	}
}

func TestAIAutoPlayRunsRoundToCompletion(t *testing.T) {
	e := NewEngine(testCountries(8), NewSeededSource(99), discardLogger())
	if _, err := e.CreateGame("Country 1", "Maize"); err != nil {
		t.Fatalf("create game: %v", err)
	}

	st, err := e.SubmitInvestment(50)
	if err != nil {
		t.Fatalf("human submit: %v", err)
	}

	// A 50% human stake cannot zero out, and nobody can reach the
	// winning amount in one round, so the game must roll into season 2
	// with every seat having decided exactly once.
	if st.GameOver {
		t.Fatalf("game ended after one round: %+v", st)
	}
	if st.CurrentSeason != 2 || st.CurrentPlayerIndex != 0 {
		t.Fatalf("season=%d index=%d, want 2/0", st.CurrentSeason, st.CurrentPlayerIndex)
	}
	if len(st.RollHistory) != 1 {
		t.Fatalf("history length %d, want 1", len(st.RollHistory))
	}
	for i, p := range st.Players {
		if p.LastInvestmentPercentage == nil {
			t.Fatalf("player %d never decided", i)
		}
		if !p.IsAI {
			continue
		}
		pct := *p.LastInvestmentPercentage
		if pct < 40 || pct > 90 {
			t.Fatalf("AI player %d decided %d%%, outside all bands", i, pct)
		}
	}
}

func TestResetDiscardsGame(t *testing.T) {
	e := NewEngine(testCountries(8), NewSeededSource(5), discardLogger())
	if _, err := e.CreateGame("Country 2", "Cassava"); err != nil {
		t.Fatalf("create game: %v", err)
	}
	e.Reset()
	if _, err := e.Snapshot(); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("got %v, want ErrNoActiveGame after reset", err)
	}
}

func TestSnapshotIsInsulatedCopy(t *testing.T) {
	e := NewEngine(testCountries(8), NewSeededSource(5), discardLogger())
	st, err := e.CreateGame("Country 2", "Cassava")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	st.Players[0].Money = 999999
	st.GameOver = true

	fresh, err := e.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if fresh.Players[0].Money != InitialMoney || fresh.GameOver {
		t.Fatalf("snapshot mutation leaked into engine state")
	}
}

func TestSimulateCompletesGames(t *testing.T) {
	stats, err := Simulate(testCountries(8), 25, NewSeededSource(17), discardLogger())
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if stats.Games != 25 {
		t.Fatalf("finished %d games, want 25", stats.Games)
	}
	wins := 0
	for _, n := range stats.WinsBySeat {
		wins += n
	}
	if wins != 25 {
		t.Fatalf("seat wins sum to %d, want 25", wins)
	}
	if stats.AvgSeasons() <= 0 || stats.AvgSeasons() > MaxSeasons {
		t.Fatalf("average seasons %f out of range", stats.AvgSeasons())
	}
}
