package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PredictionType is the betting market a prediction is made on
type PredictionType string

const (
	PredictionTypeWin     PredictionType = "win"
	PredictionTypeOver15  PredictionType = "over15"
	PredictionTypeOver25  PredictionType = "over25"
	PredictionTypeOver35  PredictionType = "over35"
	PredictionTypeCorners PredictionType = "corners"
	PredictionTypeGGNG    PredictionType = "ggng"
	PredictionTypeOthers  PredictionType = "others"
	PredictionTypePlayer  PredictionType = "player"
)

// PredictionTypeAll disables the prediction-type filter on queries
const PredictionTypeAll PredictionType = "all"

// ActualResult is the judgment recorded for a prediction once the match is over
type ActualResult string

const (
	ResultWin  ActualResult = "win"
	ResultLoss ActualResult = "loss"
)

// Match is one fixture with its predictions and recorded outcomes
type Match struct {
	ID          uuid.UUID    `json:"id"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	League      string       `json:"league"`
	Kickoff     time.Time    `json:"kickoff"`
	VIP         bool         `json:"is_vip"`
	Predictions []Prediction `json:"predictions"`
	Outcomes    []Outcome    `json:"outcomes"`
	FinalScore  *Score       `json:"final_score,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Score is the final result of a match
type Score struct {
	Home int `json:"home" validate:"min=0"`
	Away int `json:"away" validate:"min=0"`
}

// Prediction is a single market call attached to a match
type Prediction struct {
	Type       PredictionType             `json:"type" validate:"required,oneof=win over15 over25 over35 corners ggng others player"`
	Value      string                     `json:"prediction" validate:"required"`
	Confidence int                        `json:"confidence" validate:"min=0,max=100"`
	ValueBet   bool                       `json:"value_bet"`
	VIP        bool                       `json:"is_vip"`
	Odds       map[string]decimal.Decimal `json:"odds,omitempty"`
}

// Outcome resolves the prediction identified by (PredictionType, Prediction)
type Outcome struct {
	PredictionType PredictionType `json:"prediction_type"`
	Prediction     string         `json:"prediction"`
	ActualResult   ActualResult   `json:"actual_result"`
	RecordedBy     string         `json:"recorded_by"`
	RecordedAt     time.Time      `json:"recorded_at"`
}

// Matches reports whether the outcome resolves the given prediction signature
func (o *Outcome) Matches(predictionType PredictionType, prediction string) bool {
	return o.PredictionType == predictionType && o.Prediction == prediction
}

// HasPredictionType reports whether at least one prediction is of the given type
func (m *Match) HasPredictionType(t PredictionType) bool {
	for i := range m.Predictions {
		if m.Predictions[i].Type == t {
			return true
		}
	}
	return false
}

// HasValueBet reports whether any prediction is flagged as a value bet
func (m *Match) HasValueBet() bool {
	for i := range m.Predictions {
		if m.Predictions[i].ValueBet {
			return true
		}
	}
	return false
}

// MatchSummary is the query-facing view of a match
type MatchSummary struct {
	ID          uuid.UUID    `json:"id"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	Date        time.Time    `json:"date"`
	League      string       `json:"league"`
	VIP         bool         `json:"is_vip"`
	HomeGoals   *int         `json:"home_goals,omitempty"`
	AwayGoals   *int         `json:"away_goals,omitempty"`
	Predictions []Prediction `json:"predictions"`
	Outcomes    []Outcome    `json:"outcomes"`
}

// ToSummary builds the query view of a match
func (m *Match) ToSummary() MatchSummary {
	s := MatchSummary{
		ID:          m.ID,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		Date:        m.Kickoff,
		League:      m.League,
		VIP:         m.VIP,
		Predictions: m.Predictions,
		Outcomes:    m.Outcomes,
	}
	if s.Predictions == nil {
		s.Predictions = []Prediction{}
	}
	if s.Outcomes == nil {
		s.Outcomes = []Outcome{}
	}
	if m.FinalScore != nil {
		home, away := m.FinalScore.Home, m.FinalScore.Away
		s.HomeGoals = &home
		s.AwayGoals = &away
	}
	return s
}

// ClassifiedOutcomes is the bucketed query result
type ClassifiedOutcomes struct {
	Todays   []MatchSummary `json:"todays"`
	TopPicks []MatchSummary `json:"topPicks"`
	VIP      []MatchSummary `json:"vip"`
	All      []MatchSummary `json:"all"`
}
