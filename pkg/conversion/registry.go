// Package conversion translates bookmaker booking codes between bookmakers.
//
// Rules are plain text transformations. They are not inverses of each other,
// so converting A->B->A does not necessarily return the original code.
package conversion

import (
	"strings"
)

// FallbackSuffix is appended to codes for which no rule exists
const FallbackSuffix = "_CONVERTED"

// Rule transforms a booking code. Rules must be total and deterministic.
type Rule func(code string) string

// Pair is an ordered (source, destination) bookmaker pair
type Pair struct {
	From string
	To   string
}

// Registry is an immutable table of conversion rules
type Registry struct {
	rules map[Pair]Rule
}

// NewRegistry builds a registry from the given rules. Bookmaker identifiers are normalized.
func NewRegistry(rules map[Pair]Rule) *Registry {
	r := &Registry{rules: make(map[Pair]Rule, len(rules))}
	for pair, rule := range rules {
		r.rules[Pair{From: Normalize(pair.From), To: Normalize(pair.To)}] = rule
	}
	return r
}

// Normalize returns the canonical form of a bookmaker identifier
func Normalize(bookmaker string) string {
	return strings.ToLower(strings.TrimSpace(bookmaker))
}

// HasRule reports whether an explicit rule exists for the pair
func (r *Registry) HasRule(from, to string) bool {
	_, ok := r.rules[Pair{From: Normalize(from), To: Normalize(to)}]
	return ok
}

// Convert applies the rule for (from, to) to code, or tags the code with
// FallbackSuffix when no rule exists. It never fails.
func (r *Registry) Convert(from, to, code string) string {
	if rule, ok := r.rules[Pair{From: Normalize(from), To: Normalize(to)}]; ok {
		return rule(code)
	}
	return code + FallbackSuffix
}

// Pairs returns the number of explicit rules
func (r *Registry) Pairs() int {
	return len(r.rules)
}
