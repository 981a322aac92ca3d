package models

import (
	"sort"
	"strconv"
	"strings"
)

// BetType enumerates the supported wager kinds
type BetType string

const (
	BetTypeWin      BetType = "win"
	BetTypePlace    BetType = "place"
	BetTypeQuinella BetType = "quinella"
	BetTypeExacta   BetType = "exacta"
	BetTypeWide     BetType = "wide"
	BetTypeTrio     BetType = "trio"
	BetTypeTrifecta BetType = "trifecta"
)

// Ordered reports whether finishing order matters for the bet type
func (b BetType) Ordered() bool {
	return b == BetTypeExacta || b == BetTypeTrifecta
}

// Wager is a single recommended bet with synthesized odds and expected return
type Wager struct {
	Type           BetType `json:"type"`
	Numbers        []int   `json:"numbers"`
	Odds           float64 `json:"odds"`
	ExpectedReturn float64 `json:"expected_return"`
}

// NewWager builds a wager, sorting the numbers for unordered bet types
func NewWager(betType BetType, odds, expectedReturn float64, numbers ...int) Wager {
	nums := append([]int(nil), numbers...)
	if !betType.Ordered() {
		sort.Ints(nums)
	}
	return Wager{
		Type:           betType,
		Numbers:        nums,
		Odds:           odds,
		ExpectedReturn: expectedReturn,
	}
}

// Key identifies the wager by bet type and participant combination
func (w Wager) Key() string {
	parts := make([]string, len(w.Numbers))
	for i, n := range w.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return string(w.Type) + ":" + strings.Join(parts, "-")
}

// Portfolio groups the two recommendation strategies
type Portfolio struct {
	Balanced []Wager `json:"balanced"`
	HighRisk []Wager `json:"high_risk"`
}

// Size returns the total number of wagers across both strategies
func (p Portfolio) Size() int {
	return len(p.Balanced) + len(p.HighRisk)
}

// Boards lists the top wagers by expected return for every bet type
type Boards struct {
	Win      []Wager `json:"win"`
	Place    []Wager `json:"place"`
	Quinella []Wager `json:"quinella"`
	Exacta   []Wager `json:"exacta"`
	Wide     []Wager `json:"wide"`
	Trio     []Wager `json:"trio"`
	Trifecta []Wager `json:"trifecta"`
}
