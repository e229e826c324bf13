package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Verdict is the classifier's advisory output for one message.
type Verdict struct {
	Suggest  bool
	Reason   string
	Category string
	Pattern  string
}

// Category is one named, ordered group of decision-language patterns.
type Category struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Rules is the immutable rule configuration for a Classifier. Exclusions run
// before any category; categories and their patterns are evaluated in listed
// order and the first match wins.
type Rules struct {
	Uncertainty []*regexp.Regexp
	Categories  []Category
}

// Classifier flags chat messages that read like decisions. It only produces
// suggestions for user confirmation and never creates decisions itself.
type Classifier struct {
	rules Rules
}

// NewClassifier constructs a classifier over the given rule configuration.
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Analyze inspects message content for decision-like language. It is a pure
// function: same content always yields the same verdict.
func (c *Classifier) Analyze(content string) Verdict {
	if content == "" {
		return Verdict{Reason: "Empty content"}
	}

	if isQuestion(content) {
		return Verdict{Reason: "Message is a question"}
	}

	for _, pattern := range c.rules.Uncertainty {
		if pattern.MatchString(content) {
			return Verdict{Reason: "Message contains uncertainty language"}
		}
	}

	for _, category := range c.rules.Categories {
		for _, pattern := range category.Patterns {
			if pattern.MatchString(content) {
				return Verdict{
					Suggest:  true,
					Reason:   fmt.Sprintf("Matches %s pattern", category.Name),
					Category: category.Name,
					Pattern:  pattern.String(),
				}
			}
		}
	}

	return Verdict{Reason: "No decision patterns matched"}
}

func isQuestion(content string) bool {
	return strings.HasSuffix(strings.TrimSpace(content), "?")
}
