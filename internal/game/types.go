package game

import "fmt"

type Player struct {
	ID           string      `json:"id"`
	PlayerNumber int         `json:"player_number"`
	IsAI         bool        `json:"is_ai"`
	Money        int64       `json:"money"`
	Country      string      `json:"country"`
	SelectedCrop string      `json:"selected_crop"`
	RiskProfile  RiskProfile `json:"risk_profile,omitempty"`

	// LastInvestmentPercentage is nil until the player has decided for
	// the current round; it is overwritten, never reset, on later rounds.
	LastInvestmentPercentage *int `json:"last_investment_percentage"`

	// IsBankrupt is monotonic: once true the player is excluded from
	// decisions and money mutation but stays listed for history.
	IsBankrupt bool `json:"is_bankrupt"`
}

// Name is the display name derived from the turn-order ordinal.
func (p Player) Name() string {
	return fmt.Sprintf("Player %d", p.PlayerNumber)
}

// SeasonRoll is one entry of the append-only roll history.
type SeasonRoll struct {
	Season  int    `json:"season"`
	Roll    Roll   `json:"roll"`
	Outcome string `json:"outcome"`
}

// State is the full game snapshot handed to callers after every
// accepted operation. There are no delta updates.
type State struct {
	Players            []Player     `json:"players"`
	CurrentSeason      int          `json:"current_season"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	LastRoll           Roll         `json:"last_roll"`
	RollHistory        []SeasonRoll `json:"roll_history"`
	GameOver           bool         `json:"game_over"`
	Winner             *Player      `json:"winner"`
	WinReason          string       `json:"win_reason,omitempty"`
}

// Clone deep-copies the state so callers can never mutate the engine's
// authoritative copy through a snapshot.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p
		if p.LastInvestmentPercentage != nil {
			v := *p.LastInvestmentPercentage
			out.Players[i].LastInvestmentPercentage = &v
		}
	}
	out.RollHistory = append([]SeasonRoll(nil), s.RollHistory...)
	if s.Winner != nil {
		w := *s.Winner
		if w.LastInvestmentPercentage != nil {
			v := *w.LastInvestmentPercentage
			w.LastInvestmentPercentage = &v
		}
		out.Winner = &w
	}
	return &out
}

// CurrentPlayer returns the player whose decision is awaited.
func (s *State) CurrentPlayer() *Player {
	if s == nil || s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// ActiveCount returns the number of non-bankrupt players.
func (s *State) ActiveCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.IsBankrupt {
			n++
		}
	}
	return n
}
