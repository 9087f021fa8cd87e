// Package classifier routes a message body to exactly one category using an
// ordered rule table.
package classifier

import (
	"mmony/momo-csv/internal/logging"
	"mmony/momo-csv/internal/models"
)

// Classifier evaluates an ordered rule table. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	rules  []Rule
	logger logging.Logger
}

// New returns a Classifier over the built-in rule table.
func New(logger logging.Logger) *Classifier {
	return NewWithRules(DefaultRules(), logger)
}

// NewWithRules returns a Classifier over a custom rule table.
func NewWithRules(rules []Rule, logger logging.Logger) *Classifier {
	return &Classifier{
		rules:  rules,
		logger: logging.OrDefault(logger),
	}
}

// Classify returns the category of the first matching rule, or
// models.CategoryUnrecognized when no rule matches.
func (c *Classifier) Classify(body string) models.Category {
	category, _ := c.ClassifyWithRule(body)
	return category
}

// ClassifyWithRule is Classify that also returns the name of the rule that
// fired ("" for Unrecognized).
func (c *Classifier) ClassifyWithRule(body string) (models.Category, string) {
	for _, r := range c.rules {
		if r.Match(body) {
			c.logger.Debug("Message classified",
				logging.Field{Key: logging.FieldRule, Value: r.Name},
				logging.Field{Key: logging.FieldCategory, Value: r.Category})
			return r.Category, r.Name
		}
	}
	return models.CategoryUnrecognized, ""
}

// Rules returns a copy of the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
