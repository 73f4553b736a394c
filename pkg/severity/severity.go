// Package severity maps the classifier's driver-state classes to a three level
// urgency bucket and the text shown to the driver.
package severity

import (
	"fmt"
	"strings"
)

// Level is a coarse urgency bucket.
type Level string

const (
	Low    Level = "Low"
	Medium Level = "Medium"
	High   Level = "High"
)

// DefaultLevel is used for labels missing from the severity table.
const DefaultLevel = Medium

var ranks = map[Level]int{
	Low:    0,
	Medium: 1,
	High:   2,
}

var explanations = map[Level]string{
	Low:    "No strong distraction indicators detected. The driver appears focused on the road.",
	Medium: "Some distraction cues detected. Consider removing potential distractions.",
	High:   "Strong distraction signs present. Immediate attention required for safety.",
}

// ParseLevel accepts exactly "Low", "Medium" or "High".
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := ranks[l]; !ok {
		return "", fmt.Errorf("severity: unknown level '%s'", s)
	}
	return l, nil
}

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	_, ok := ranks[l]
	return ok
}

// AtLeast reports whether l passes an inclusive threshold filter:
// Low admits everything, High admits only High.
func (l Level) AtLeast(threshold Level) bool {
	return ranks[l] >= ranks[threshold]
}

func (l Level) String() string {
	return string(l)
}

// Result is the outcome of classifying one image or frame.
type Result struct {
	Severity    Level   `json:"severity"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
	Class       string  `json:"class"`
	Confidence  float64 `json:"confidence"`
}

// IsSafe reports whether the winning class was the safe driving class.
func (r Result) IsSafe() bool {
	return r.Class == SafeLabel
}

// Lookup returns the severity of label and its explanation text.
func Lookup(label string) (Level, string) {
	level, ok := table[label]
	if !ok {
		level = DefaultLevel
	}
	return level, fmt.Sprintf("%s Detected: %s.", explanations[level], strings.ReplaceAll(label, "_", " "))
}

// Score orients confidence as "degree of distraction": when the safe class
// wins a high confidence means a low score.
func Score(label string, confidence float64) float64 {
	if label == SafeLabel {
		return 1 - confidence
	}
	return confidence
}

// Assess builds the full Result for a predicted label.
func Assess(label string, confidence float64) Result {
	level, explanation := Lookup(label)
	return Result{
		Severity:    level,
		Score:       Score(label, confidence),
		Explanation: explanation,
		Class:       label,
		Confidence:  confidence,
	}
}
