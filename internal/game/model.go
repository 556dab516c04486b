package game

import "errors"

const (
	// InitialMoney is the starting capital handed to every player.
	InitialMoney = int64(1000)

	// WinningAmount ends the game as soon as a player holds this much
	// after a round resolves.
	WinningAmount = int64(7000)

	// MaxSeasons caps the game length; the richest survivor wins once
	// the cap is reached.
	MaxSeasons = 10

	// PlayerCount is the fixed table size: one human plus three rivals.
	PlayerCount = 4

	DieFaces    = 6
	DisasterSum = 7

	MinPercent = 0
	MaxPercent = 100
)

var (
	ErrSelectionRequired     = errors.New("country and crop selection required")
	ErrInsufficientCountries = errors.New("not enough countries available for rival players")
	ErrNoActiveGame          = errors.New("no active game")
	ErrGameOver              = errors.New("game is already over")
	ErrPlayerBankrupt        = errors.New("player is bankrupt")
	ErrNoMoney               = errors.New("no money available for investment")
)

// RiskProfile names the band an AI player's investment percentage is
// drawn from. It is a policy stub, not a strategy: there is no lookahead
// or state awareness behind it.
type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskBalanced     RiskProfile = "balanced"
	RiskAggressive   RiskProfile = "aggressive"
)

// riskProfiles is the cyclic assignment order for rival players.
var riskProfiles = [...]RiskProfile{RiskConservative, RiskBalanced, RiskAggressive}

// Win reasons recorded on a finished game.
const (
	WinByElimination = "elimination"
	WinByThreshold   = "threshold"
	WinBySeasonLimit = "season-limit"
)

// CountryOption is the catalog entry the engine needs to seat rival
// players: a country name and the crops it can grow. Anything richer
// (facts, flags) stays at the catalog boundary.
type CountryOption struct {
	Name  string
	Crops []string
}
