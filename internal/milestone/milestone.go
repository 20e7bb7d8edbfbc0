// Package milestone decides when a newly logged record earns an encouragement.
package milestone

import (
	"sort"
	"strings"
	"sync"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/models"
)

// Scope selects what a rule's threshold is compared against.
type Scope string

const (
	// ScopeSession compares the new record's own metric, optionally restricted to one kind.
	ScopeSession Scope = "session"
	// ScopeDailyCount counts the records logged on the record's day.
	ScopeDailyCount Scope = "daily_count"
	// ScopeDailyTotal sums the metric over the record's day.
	ScopeDailyTotal Scope = "daily_total"
	// ScopeLifetimeCount counts every record ever logged in the category.
	ScopeLifetimeCount Scope = "lifetime_count"
)

// scopeOrder is the evaluation priority. Earlier scopes win.
var scopeOrder = []Scope{ScopeSession, ScopeDailyCount, ScopeDailyTotal, ScopeLifetimeCount}

// Rule is a named threshold. Keys are unique within a category.
type Rule struct {
	Key       string             `yaml:"key" validate:"required"`
	Category  constants.Category `yaml:"category" validate:"required,oneof=water sleep exercise food"`
	Scope     Scope              `yaml:"scope" validate:"required,oneof=session daily_count daily_total lifetime_count"`
	Type      string             `yaml:"type,omitempty"`
	Threshold float64            `yaml:"threshold" validate:"gt=0"`
	Message   string             `yaml:"message" validate:"required"`
}

// State is the category's standing immediately before the new record.
type State struct {
	DayCount      int
	DayTotal      float64
	LifetimeCount int
}

// Milestone is a fired rule.
type Milestone struct {
	Key      string
	Category constants.Category
	Message  string
}

// Evaluator applies a category's rules to new records. Each rule fires at
// most once for the lifetime of the Evaluator.
type Evaluator struct {
	category constants.Category
	rules    []Rule

	mu        sync.Mutex
	triggered map[string]bool
}

// NewEvaluator keeps the rules for category and orders them for evaluation:
// by scope priority, then by descending threshold.
func NewEvaluator(category constants.Category, rules []Rule) *Evaluator {
	e := &Evaluator{category: category, triggered: make(map[string]bool)}
	for _, r := range rules {
		if r.Category == category {
			e.rules = append(e.rules, r)
		}
	}
	sort.SliceStable(e.rules, func(i, j int) bool {
		pi, pj := scopePriority(e.rules[i].Scope), scopePriority(e.rules[j].Scope)
		if pi != pj {
			return pi < pj
		}
		return e.rules[i].Threshold > e.rules[j].Threshold
	})
	return e
}

// Category returns the category the evaluator was built for.
func (e *Evaluator) Category() constants.Category {
	return e.category
}

// Rules returns the evaluator's rules in evaluation order.
func (e *Evaluator) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate returns the first untriggered rule that rec satisfies given prev,
// marking it triggered, or nil when nothing new was reached.
//
// Count and total rules fire only on the record that crosses the threshold,
// so a day already past a threshold does not fire it again.
func (e *Evaluator) Evaluate(prev State, rec models.Record) *Milestone {
	metric := rec.Metric()

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range e.rules {
		if e.triggered[r.Key] || !matches(r, prev, rec, metric) {
			continue
		}
		e.triggered[r.Key] = true
		return &Milestone{Key: r.Key, Category: r.Category, Message: r.Message}
	}
	return nil
}

// Triggered reports whether key has already fired.
func (e *Evaluator) Triggered(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triggered[key]
}

// Reset forgets every fired rule.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggered = make(map[string]bool)
}

func matches(r Rule, prev State, rec models.Record, metric float64) bool {
	switch r.Scope {
	case ScopeSession:
		if r.Type != "" && !strings.EqualFold(r.Type, rec.Kind()) {
			return false
		}
		return metric >= r.Threshold
	case ScopeDailyCount:
		return crosses(float64(prev.DayCount), 1, r.Threshold)
	case ScopeDailyTotal:
		return crosses(prev.DayTotal, metric, r.Threshold)
	case ScopeLifetimeCount:
		return crosses(float64(prev.LifetimeCount), 1, r.Threshold)
	default:
		return false
	}
}

func crosses(before, delta, threshold float64) bool {
	return before < threshold && threshold <= before+delta
}

func scopePriority(s Scope) int {
	for i, known := range scopeOrder {
		if s == known {
			return i
		}
	}
	return len(scopeOrder)
}

// MergeMessages replaces rule messages with backend-configured ones. An
// encouragement applies when its category and milestone name match a rule,
// ignoring case.
func MergeMessages(rules []Rule, encouragements []models.Encouragement) []Rule {
	out := append([]Rule(nil), rules...)
	for _, enc := range encouragements {
		msg := strings.TrimSpace(models.CleanText(enc.Message))
		if msg == "" {
			continue
		}
		for i := range out {
			if strings.EqualFold(string(out[i].Category), enc.Category) && strings.EqualFold(out[i].Key, enc.Milestone) {
				out[i].Message = msg
			}
		}
	}
	return out
}
