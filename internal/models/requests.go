package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeInput identifies a prediction by signature and carries its judgment
type OutcomeInput struct {
	PredictionType PredictionType `json:"prediction_type" validate:"required,oneof=win over15 over25 over35 corners ggng others player"`
	Prediction     string         `json:"prediction" validate:"required"`
	ActualResult   ActualResult   `json:"actual_result" validate:"required,oneof=win loss"`
}

// OutcomePatch edits an outcome addressed by position; empty fields keep their value
type OutcomePatch struct {
	PredictionType PredictionType `json:"prediction_type" validate:"omitempty,oneof=win over15 over25 over35 corners ggng others player"`
	Prediction     string         `json:"prediction"`
	ActualResult   ActualResult   `json:"actual_result" validate:"omitempty,oneof=win loss"`
}

// PredictionPatch edits a prediction addressed by position; nil fields keep their value
type PredictionPatch struct {
	Type       *PredictionType            `json:"type"`
	Value      *string                    `json:"prediction"`
	Confidence *int                       `json:"confidence"`
	ValueBet   *bool                      `json:"value_bet"`
	VIP        *bool                      `json:"is_vip"`
	Odds       map[string]decimal.Decimal `json:"odds"`
}

// CreateMatchRequest is the administrative input for a new fixture
type CreateMatchRequest struct {
	HomeTeam    string       `json:"home_team" validate:"required"`
	AwayTeam    string       `json:"away_team" validate:"required"`
	League      string       `json:"league" validate:"required"`
	Kickoff     time.Time    `json:"kickoff" validate:"required"`
	VIP         bool         `json:"is_vip"`
	Predictions []Prediction `json:"predictions" validate:"dive"`
}

// ConversionRequest asks for a booking code to be translated between bookmakers
type ConversionRequest struct {
	FromBookmaker string `json:"fromBookmaker" validate:"required"`
	ToBookmaker   string `json:"toBookmaker" validate:"required"`
	BookingCode   string `json:"bookingCode" validate:"required"`
}

// ConversionResult is the outcome of a booking-code conversion
type ConversionResult struct {
	OriginalCode  string    `json:"originalCode"`
	FromBookmaker string    `json:"fromBookmaker"`
	ToBookmaker   string    `json:"toBookmaker"`
	ConvertedCode string    `json:"convertedCode"`
	ConvertedAt   time.Time `json:"convertedAt"`
}
