package strategy

import (
	"fmt"
	"strings"
)

// Env is the evaluation environment for one bar: the bar's closing price, the
// indicator snapshot valid at that bar, and the reference price set by the most
// recent trade (the first close before any trade has happened).
type Env struct {
	Close          float64
	RSI            float64
	RSIValid       bool
	ReferencePrice float64
}

// Condition is an interface describing a predicate over a single bar
type Condition interface {
	IsSatisfied(env Env) bool
	String() string
}

// And returns a new condition whereby ALL of the passed-in conditions must be satisfied
func And(conditions ...Condition) Condition {
	return andCondition{conditions: conditions}
}

type andCondition struct {
	conditions []Condition
}

func (ac andCondition) IsSatisfied(env Env) bool {
	for _, c := range ac.conditions {
		if !c.IsSatisfied(env) {
			return false
		}
	}
	return true
}

func (ac andCondition) String() string {
	return joinConditions(ac.conditions, " AND ")
}

// Or returns a new condition whereby ONE OF the passed-in conditions must be satisfied
func Or(conditions ...Condition) Condition {
	return orCondition{conditions: conditions}
}

type orCondition struct {
	conditions []Condition
}

func (oc orCondition) IsSatisfied(env Env) bool {
	for _, c := range oc.conditions {
		if c.IsSatisfied(env) {
			return true
		}
	}
	return false
}

func (oc orCondition) String() string {
	return joinConditions(oc.conditions, " OR ")
}

func joinConditions(conditions []Condition, sep string) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// PercentDip is satisfied when the close has fallen at least Percent percent
// below the reference price.
type PercentDip struct {
	Percent float64
}

func (c PercentDip) IsSatisfied(env Env) bool {
	if env.ReferencePrice <= 0 {
		return false
	}
	return (env.ReferencePrice-env.Close)/env.ReferencePrice*100 >= c.Percent
}

func (c PercentDip) String() string {
	return fmt.Sprintf("dip %.4g%% from reference", c.Percent)
}

// PercentRise is satisfied when the close has risen at least Percent percent
// above the reference price.
type PercentRise struct {
	Percent float64
}

func (c PercentRise) IsSatisfied(env Env) bool {
	if env.ReferencePrice <= 0 {
		return false
	}
	return (env.Close-env.ReferencePrice)/env.ReferencePrice*100 >= c.Percent
}

func (c PercentRise) String() string {
	return fmt.Sprintf("rise %.4g%% from reference", c.Percent)
}

// PriceBelow is satisfied when the close is under Price
type PriceBelow struct {
	Price float64
}

func (c PriceBelow) IsSatisfied(env Env) bool {
	return env.Close < c.Price
}

func (c PriceBelow) String() string {
	return fmt.Sprintf("price below %.4g", c.Price)
}

// PriceAbove is satisfied when the close is over Price
type PriceAbove struct {
	Price float64
}

func (c PriceAbove) IsSatisfied(env Env) bool {
	return env.Close > c.Price
}

func (c PriceAbove) String() string {
	return fmt.Sprintf("price above %.4g", c.Price)
}

// RSIBelow is satisfied when the 14-period RSI is under Value.
// An RSI that has not warmed up yet never satisfies the condition.
type RSIBelow struct {
	Value float64
}

func (c RSIBelow) IsSatisfied(env Env) bool {
	return env.RSIValid && env.RSI < c.Value
}

func (c RSIBelow) String() string {
	return fmt.Sprintf("RSI below %.4g", c.Value)
}

// RSIAbove is satisfied when the 14-period RSI is over Value.
// An RSI that has not warmed up yet never satisfies the condition.
type RSIAbove struct {
	Value float64
}

func (c RSIAbove) IsSatisfied(env Env) bool {
	return env.RSIValid && env.RSI > c.Value
}

func (c RSIAbove) String() string {
	return fmt.Sprintf("RSI above %.4g", c.Value)
}
