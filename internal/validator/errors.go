package validator

import "encoding/json"

// Category names the kind of validation failure (spec.md §7). These are
// never exposed as Go error types — the validator never throws; every
// rejection is folded into a ValidateLogOutput.Reason string carrying a
// one-line, machine-parseable prefix.
type Category string

const (
	CategoryMalformedInput      Category = "MalformedInput"
	CategoryCommitmentMismatch  Category = "CommitmentMismatch"
	CategoryKinematic           Category = "Kinematic"
	CategoryReachability        Category = "Reachability"
	CategoryBounds              Category = "Bounds"
	CategoryTermination         Category = "Termination"
	CategoryCapacityExceeded    Category = "CapacityExceeded"
)

// reasonPrefixes maps each category to the human-readable prefix used in
// rejection strings. Kept distinct from Category itself so the wire
// format (English prose prefix) can evolve independently of the taxonomy.
var reasonPrefixes = map[Category]string{
	CategoryMalformedInput:     "Malformed input",
	CategoryCommitmentMismatch: "Commitment mismatch",
	CategoryKinematic:          "Invalid kinematics",
	CategoryReachability:       "Paddle moved too fast",
	CategoryBounds:             "Paddle out of bounds",
	CategoryTermination:        "Invalid final score",
	CategoryCapacityExceeded:   "Capacity exceeded",
}

// reject formats a one-line rejection reason: "<prefix> {<json details>}".
// details may be nil for a bare prefix.
func reject(cat Category, details map[string]any) string {
	return rejectText(reasonPrefixes[cat], details)
}

// rejectText formats a one-line rejection reason from an arbitrary
// prefix sentence, for the handful of cases with a fixed, spec-quoted
// wording that doesn't map cleanly onto one of the taxonomy categories.
func rejectText(prefix string, details map[string]any) string {
	if details == nil {
		return prefix
	}
	b, err := json.Marshal(details)
	if err != nil {
		return prefix
	}
	return prefix + " " + string(b)
}
