package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// allowed odds keys per market; types not listed take a single "value"
var oddsKeys = map[PredictionType][]string{
	PredictionTypeWin:    {"home", "draw", "away"},
	PredictionTypeOver15: {"over", "under"},
	PredictionTypeOver25: {"over", "under"},
	PredictionTypeOver35: {"over", "under"},
}

// OddsKeys returns the odds keys that are meaningful for a prediction type
func OddsKeys(t PredictionType) []string {
	if keys, ok := oddsKeys[t]; ok {
		return keys
	}
	return []string{"value"}
}

// Validate checks a value against its struct tags and wraps failures as ErrValidationFailed
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	return nil
}

// Validate checks the prediction's fields and that its odds keys fit its type
func (p *Prediction) Validate() error {
	if err := Validate(p); err != nil {
		return err
	}
	return p.validateOdds()
}

func (p *Prediction) validateOdds() error {
	allowed := OddsKeys(p.Type)
	var unknown []string
	for key := range p.Odds {
		if !contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: odds keys %s not valid for type %s (allowed: %s)",
			ErrValidationFailed, strings.Join(unknown, ","), p.Type, strings.Join(allowed, ","))
	}
	return nil
}

// Validate checks the request and every prediction it carries
func (r *CreateMatchRequest) Validate() error {
	if err := Validate(r); err != nil {
		return err
	}
	for i := range r.Predictions {
		if err := r.Predictions[i].validateOdds(); err != nil {
			return err
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
