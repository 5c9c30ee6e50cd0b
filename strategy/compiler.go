package strategy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCapital is used when the strategy text carries no capital clause
const DefaultCapital = 10000

// Rule is a compiled strategy: an entry condition, an optional exit condition
// and the starting capital. A nil Exit means the position is held until the
// series ends.
type Rule struct {
	Entry          Condition
	Exit           Condition
	InitialCapital decimal.Decimal
	Description    string
	Warnings       []string
}

// String renders the compiled rule for result transparency
func (r *Rule) String() string {
	exit := "hold to end"
	if r.Exit != nil {
		exit = r.Exit.String()
	}
	return fmt.Sprintf("entry: %s, exit: %s, capital: $%s", r.Entry, exit, r.InitialCapital)
}

// ParseError reports strategy text from which no entry condition could be compiled
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no recognizable buy condition in strategy: %q", e.Text)
}

var (
	capitalRe = []*regexp.Regexp{
		regexp.MustCompile(`(?:with|invest(?:ing)?|using)\s+\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)`),
		regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d+)?)\s+(?:initial|starting)\s+capital`),
		regexp.MustCompile(`capital\s+(?:of\s+)?\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)`),
	}

	rsiBelowRe = regexp.MustCompile(`rsi\s*(?:is\s+)?below\s*(\d+(?:\.\d+)?)`)
	rsiAboveRe = regexp.MustCompile(`rsi\s*(?:is\s+)?above\s*(\d+(?:\.\d+)?)`)

	priceBelowRe = regexp.MustCompile(`below\s*\$?\s*(\d+(?:\.\d+)?)`)
	priceAboveRe = regexp.MustCompile(`above\s*\$?\s*(\d+(?:\.\d+)?)`)

	dipSynonymRe  = regexp.MustCompile(`\b(?:dips?|dipped|drops?|dropped|falls?|fell|fallen|declines?|declined)\b`)
	riseSynonymRe = regexp.MustCompile(`\b(?:rises?|risen|rose|gains?|gained|increases?|increased|profits?)\b`)

	percentNumberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent)`)
	bareNumberRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

	orWordRe = regexp.MustCompile(`\bor\b`)

	// words the matchers know they cannot handle; their presence after
	// matching means the user asked for something the compiler skipped
	unsupportedRe = regexp.MustCompile(`\b(?:macd|ema|sma|bollinger|volume|volatility|momentum|earnings|dividend)\b`)
)

// Compile parses a free-form strategy description into a Rule.
// The buy clause and the optional sell clause are matched independently
// against an ordered list of phrase templates; fragments the templates do not
// understand are reported as warnings on the Rule, never silently dropped.
// A text with no recognizable buy condition yields a *ParseError.
func Compile(text string) (*Rule, error) {
	lower := strings.ToLower(text)

	capital, lower := extractCapital(lower)

	buyText, sellText := splitClauses(lower)

	var warnings []string

	entry, w := compileSide(buyText)
	warnings = append(warnings, w...)
	if entry == nil {
		return nil, &ParseError{Text: text}
	}

	exit, w := compileSide(sellText)
	warnings = append(warnings, w...)

	return &Rule{
		Entry:          entry,
		Exit:           exit,
		InitialCapital: decimal.NewFromFloat(capital),
		Description:    text,
		Warnings:       warnings,
	}, nil
}

// extractCapital pulls an explicit capital clause out of the text and blanks
// it so its number cannot be mistaken for a threshold later.
func extractCapital(text string) (float64, string) {
	for _, re := range capitalRe {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		raw := strings.ReplaceAll(text[loc[2]:loc[3]], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value <= 0 {
			continue
		}
		return value, blank(text, loc[0], loc[1])
	}
	return DefaultCapital, text
}

// splitClauses divides the text into the buy-side and sell-side segments.
// Phrasing with the sell clause first ("sell above 150, buy below 100") is
// handled by anchoring each side at its keyword.
func splitClauses(text string) (buy, sell string) {
	bi := strings.Index(text, "buy")
	si := strings.Index(text, "sell")

	switch {
	case si < 0:
		return text, ""
	case bi < 0 || bi < si:
		return text[:si], text[si:]
	default:
		return text[bi:], text[:bi]
	}
}

// compileSide matches one clause against the ordered template list and
// combines multiple hits with AND, or with OR when the clause says "or".
// A side with no hits compiles to nil.
func compileSide(text string) (Condition, []string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var conditions []Condition
	var warnings []string

	// RSI templates run first so "rsi below 30" is never read as a price level
	if m := rsiBelowRe.FindStringSubmatchIndex(text); m != nil {
		conditions = append(conditions, RSIBelow{Value: number(text, m)})
		text = blank(text, m[0], m[1])
	}
	if m := rsiAboveRe.FindStringSubmatchIndex(text); m != nil {
		conditions = append(conditions, RSIAbove{Value: number(text, m)})
		text = blank(text, m[0], m[1])
	}

	if m := priceBelowRe.FindStringSubmatchIndex(text); m != nil {
		conditions = append(conditions, PriceBelow{Price: number(text, m)})
		text = blank(text, m[0], m[1])
	}
	if m := priceAboveRe.FindStringSubmatchIndex(text); m != nil {
		conditions = append(conditions, PriceAbove{Price: number(text, m)})
		text = blank(text, m[0], m[1])
	}

	if dip := dipSynonymRe.MatchString(text); dip || riseSynonymRe.MatchString(text) {
		if percent, rest, ok := extractPercent(text); ok {
			if dip {
				conditions = append(conditions, PercentDip{Percent: percent})
			} else {
				conditions = append(conditions, PercentRise{Percent: percent})
			}
			text = dipSynonymRe.ReplaceAllString(rest, " ")
			text = riseSynonymRe.ReplaceAllString(text, " ")
		}
	}

	if frag := leftoverFragment(text); frag != "" {
		warnings = append(warnings, fmt.Sprintf("unrecognized strategy fragment: %q", frag))
	}

	switch len(conditions) {
	case 0:
		return nil, warnings
	case 1:
		return conditions[0], warnings
	}

	if orWordRe.MatchString(text) {
		return Or(conditions...), warnings
	}
	return And(conditions...), warnings
}

// extractPercent finds a percentage threshold, preferring a %-marked number
// over a bare one, and blanks whatever it consumed.
func extractPercent(text string) (float64, string, bool) {
	if m := percentNumberRe.FindStringSubmatchIndex(text); m != nil {
		return number(text, m), blank(text, m[0], m[1]), true
	}
	if m := bareNumberRe.FindStringSubmatchIndex(text); m != nil {
		return number(text, m), blank(text, m[0], m[1]), true
	}
	return 0, text, false
}

// leftoverFragment reports condition-like content the templates did not
// consume: a stray number or an indicator the compiler does not support.
func leftoverFragment(text string) string {
	if m := unsupportedRe.FindString(text); m != "" {
		return m
	}
	if m := bareNumberRe.FindString(text); m != "" {
		return m
	}
	return ""
}

func number(text string, loc []int) float64 {
	value, _ := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
	return value
}

func blank(text string, from, to int) string {
	return text[:from] + strings.Repeat(" ", to-from) + text[to:]
}
