package domain

import "regexp"

// Category names reported in verdicts.
const (
	CategoryExplicitDecision = "Explicit Decision"
	CategoryApproval         = "Approval/Confirmation"
	CategoryOwnership        = "Ownership Acceptance"
	CategoryAssignment       = "Task Assignment"
	CategoryCommitment       = "Commitment to Action"
	CategoryDeclarative      = "Declarative Statement"
)

// Explicit final decisions.
var explicitDecisionPatterns = compileAll(
	`(?i)\bdecision:\s*`,
	`(?i)\bfinal decision\s*(is)?\b`,
	`(?i)\bthis is finalized\b`,
	`(?i)\bwe'?re going with\b`,
	`(?i)\blet'?s go with\b`,
	`(?i)\bwe decided\b`,
	`(?i)\bdecided to\b`,
	`(?i)\bit'?s decided\b`,
	`(?i)\bour decision is\b`,
	`(?i)\bfinal answer\b`,
)

// Approval or confirmation statements.
var approvalPatterns = compileAll(
	`(?i)^approved\.?$`,
	`(?i)^confirmed\.?$`,
	`(?i)\blooks good,?\s*proceed\b`,
	`(?i)\byes,?\s*go ahead\b`,
	`(?i)\bgo ahead\b`,
	`(?i)\bapproved and closed\b`,
	`(?i)\bapproved:\s*`,
	`(?i)\bconfirmed:\s*`,
)

// Ownership or responsibility acceptance.
var ownershipPatterns = compileAll(
	`(?i)\bi'?ll handle this\b`,
	`(?i)\bi'?ll take care of (it|this)\b`,
	`(?i)\bi'?ll own this\b`,
	`(?i)\bassigned to me\b`,
	`(?i)\bi'?ll take this\b`,
	`(?i)\bi'?m on (it|this)\b`,
	`(?i)\bi got (it|this)\b`,
)

// Task assignment to others.
var assignmentPatterns = compileAll(
	`(?i)\bassign(ed)?\s+(this\s+)?to\s+\w+`,
	`(?i)\b\w+\s+will handle (this|it)\b`,
	`(?i)\bthis goes to\s+\w+`,
	`(?i)\bgoes to the\s+\w+\s+team\b`,
	`(?i)\b@\w+\s+(please\s+)?(handle|take|own)\b`,
)

// Commitment to an action or plan.
var commitmentPatterns = compileAll(
	`(?i)\bwe will\s+\w+`,
	`(?i)\bwe'?ll\s+\w+`,
	`(?i)\bwe'?re switching to\b`,
	`(?i)\bwe'?re moving to\b`,
	`(?i)\bwe'?ll ship (this|it)\b`,
	`(?i)\bwe'?ll postpone\b`,
	`(?i)\bwe'?ll proceed with\b`,
	`(?i)\bproceeding with\b`,
	`(?i)\bmoving forward with\b`,
	`(?i)\bwe chose\b`,
	`(?i)\bwe'?ve chosen\b`,
	`(?i)\bwe picked\b`,
	`(?i)\bwe selected\b`,
	`(?i)\bthe plan is\b`,
)

// Declarative decision keywords.
var declarativePatterns = compileAll(
	`(?i)^decision made\.?$`,
	`(?i)^finalized\.?$`,
	`(?i)\bfinalized:\s*`,
	`(?i)\baction item:\s*`,
	`(?i)\btodo:\s*`,
)

// Uncertainty or suggestion language that excludes a message outright.
var uncertaintyPatterns = compileAll(
	`(?i)\bmaybe\b`,
	`(?i)\bmight\b`,
	`(?i)\bcould\b`,
	`(?i)\bshould\b`,
	`(?i)\bi think\b`,
	`(?i)\bi suggest\b`,
	`(?i)\bperhaps\b`,
	`(?i)\bpossibly\b`,
	`(?i)\bwhat if\b`,
	`(?i)\bwhat about\b`,
	`(?i)\bany thoughts\b`,
	`(?i)\bwhat do you think\b`,
	`(?i)\bdo you think\b`,
	`(?i)\blet me know\b`,
	`(?i)\bopen to suggestions\b`,
	`(?i)\bnot sure\b`,
	`(?i)\bconsidering\b`,
	`(?i)\blooking into\b`,
)

// DefaultRules returns the built-in decision-language rule set. The category
// order is load-bearing: the first matching pattern across the whole table
// determines the verdict.
func DefaultRules() Rules {
	return Rules{
		Uncertainty: uncertaintyPatterns,
		Categories: []Category{
			{Name: CategoryExplicitDecision, Patterns: explicitDecisionPatterns},
			{Name: CategoryApproval, Patterns: approvalPatterns},
			{Name: CategoryOwnership, Patterns: ownershipPatterns},
			{Name: CategoryAssignment, Patterns: assignmentPatterns},
			{Name: CategoryCommitment, Patterns: commitmentPatterns},
			{Name: CategoryDeclarative, Patterns: declarativePatterns},
		},
	}
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}
