package conversion

import (
	"strings"
	"unicode/utf8"
)

const bet365Prefix = "B365"

// codeFormat describes how a local bookmaker marks its codes: a token that may
// appear anywhere and a single leading character.
type codeFormat struct {
	token string
	lead  string
}

var localFormats = map[string]codeFormat{
	"bet9ja":    {token: "B9J", lead: "9"},
	"sportybet": {token: "SB", lead: "S"},
	"betking":   {token: "BK", lead: "K"},
}

// DefaultRules returns the built-in rule table
func DefaultRules() map[Pair]Rule {
	rules := make(map[Pair]Rule)

	for from, src := range localFormats {
		for to, dst := range localFormats {
			if from == to {
				continue
			}
			rules[Pair{From: from, To: to}] = swapFormat(src, dst)
		}
		rules[Pair{From: from, To: "bet365"}] = toBet365(src)
		rules[Pair{From: "bet365", To: from}] = fromBet365(src)
	}

	return rules
}

// NewDefaultRegistry returns a registry loaded with DefaultRules
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultRules())
}

func swapFormat(src, dst codeFormat) Rule {
	return func(code string) string {
		out := strings.ReplaceAll(code, src.token, dst.token)
		if strings.HasPrefix(out, src.lead) {
			out = dst.lead + out[len(src.lead):]
		}
		return out
	}
}

func toBet365(src codeFormat) Rule {
	return func(code string) string {
		if strings.HasPrefix(code, src.token) {
			return bet365Prefix + code[len(src.token):]
		}
		_, size := utf8.DecodeRuneInString(code)
		return bet365Prefix + code[size:]
	}
}

func fromBet365(dst codeFormat) Rule {
	return func(code string) string {
		if strings.HasPrefix(code, bet365Prefix) {
			return dst.lead + code[len(bet365Prefix):]
		}
		return code
	}
}

// Bookmaker is an entry of the supported bookmaker catalogue
type Bookmaker struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Catalogue returns the bookmakers offered to the converter
func Catalogue() []Bookmaker {
	return []Bookmaker{
		{ID: "bet9ja", Name: "Bet9ja", Country: "Nigeria"},
		{ID: "sportybet", Name: "SportyBet", Country: "Nigeria"},
		{ID: "betking", Name: "BetKing", Country: "Nigeria"},
		{ID: "nairabet", Name: "NairaBet", Country: "Nigeria"},
		{ID: "merrybet", Name: "MerryBet", Country: "Nigeria"},
		{ID: "bet365", Name: "Bet365", Country: "International"},
		{ID: "1xbet", Name: "1xBet", Country: "International"},
		{ID: "betway", Name: "Betway", Country: "International"},
		{ID: "pinnacle", Name: "Pinnacle", Country: "International"},
	}
}
