package game

// SeasonResult is the outcome of one player's season: how the capital
// was split, how the roll classified, and the resulting balance.
type SeasonResult struct {
	Roll             Roll   `json:"roll"`
	IsDouble         bool   `json:"is_double"`
	IsDestroyed      bool   `json:"is_destroyed"`
	PercentageGain   int    `json:"percentage_gain"`
	MoneyBefore      int64  `json:"money_before"`
	MoneyAfter       int64  `json:"money_after"`
	InvestmentAmount int64  `json:"investment_amount"`
	ReservedAmount   int64  `json:"reserved_amount"`
}

// ResolveSeason splits money into an invested and a reserved portion and
// applies the roll to the invested portion. It is pure: the roll is drawn
// elsewhere, so the function is deterministic and needs no mocking.
//
// The percentage is clamped into [0,100]; the split always satisfies
// investment + reserved == money exactly.
func ResolveSeason(money int64, investmentPercentage int, roll Roll) SeasonResult {
	pct := clampPercent(investmentPercentage)
	investment := money * int64(pct) / 100
	reserved := money - investment

	res := SeasonResult{
		Roll:             roll,
		IsDouble:         roll.IsDouble() && !roll.IsDisaster(),
		IsDestroyed:      roll.IsDisaster(),
		MoneyBefore:      money,
		InvestmentAmount: investment,
		ReservedAmount:   reserved,
	}

	var final int64
	switch {
	case res.IsDestroyed:
		final = reserved
		res.PercentageGain = -100
	case res.IsDouble:
		final = reserved + investment*2
		res.PercentageGain = 100
	default:
		profit := investment * int64(roll.Sum()) * 3 / 100
		final = reserved + investment + profit
		res.PercentageGain = roll.Sum() * 3
	}
	if final < 0 {
		final = 0
	}
	res.MoneyAfter = final
	return res
}

// AIDecision draws an investment percentage for a rival player from the
// fixed band of its risk profile. Unrecognized profiles fall back to the
// balanced band.
func AIDecision(profile RiskProfile, src Source) int {
	switch profile {
	case RiskConservative:
		return 40 + src.Intn(21)
	case RiskAggressive:
		return 70 + src.Intn(21)
	default:
		return 50 + src.Intn(21)
	}
}

func clampPercent(v int) int {
	if v < MinPercent {
		return MinPercent
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}
