// Package advisor turns a sentiment score into a buy/sell/hold recommendation
// and keeps an append-only log of every decision.
package advisor

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation indicates bad advisor input (unknown risk mode, empty symbol).
var ErrValidation = errors.New("validation error")

// RiskMode selects how much of available cash one recommendation may commit.
type RiskMode string

const (
	ModeConservative RiskMode = "Conservative"
	ModeAggressive   RiskMode = "Aggressive"
)

// AllocationPct returns the fraction of cash this mode allocates per trade.
func (m RiskMode) AllocationPct() float64 {
	if m == ModeAggressive {
		return 0.15
	}
	return 0.05
}

// Valid reports whether the mode is one of the known risk modes.
func (m RiskMode) Valid() bool {
	return m == ModeConservative || m == ModeAggressive
}

// ParseRiskMode validates a mode string from the API.
func ParseRiskMode(s string) (RiskMode, error) {
	m := RiskMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown risk mode %q", ErrValidation, s)
	}
	return m, nil
}

// Action is the decision of one recommendation.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
	ActionHold Action = "Hold"
)

// sentimentDeadZone is the neutral band around zero. Scores inside it
// (boundaries included) produce Hold, which avoids churn on weak signals.
const sentimentDeadZone = 0.1

// Recommendation is the result of one advisor run.
type Recommendation struct {
	Symbol    string   `json:"symbol"`
	Action    Action   `json:"action"`
	Sentiment float64  `json:"sentiment"`
	Units     float64  `json:"units"`
	Text      string   `json:"recommendation"`
	Mode      RiskMode `json:"mode"`
}

// TradeLogEntry is one persisted advisor decision.
type TradeLogEntry struct {
	ID             int64     `json:"id"`
	Symbol         string    `json:"symbol"`
	Timestamp      time.Time `json:"timestamp"`
	Sentiment      float64   `json:"sentiment"`
	Recommendation string    `json:"recommendation"`
	Units          float64   `json:"units"`
	Mode           string    `json:"mode"`
}
