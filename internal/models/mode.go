package models

import "strings"

// QuestionMode is a per-user, per-question classification derived from the
// user's attempt history.
type QuestionMode string

const (
	ModeUnused    QuestionMode = "unused"
	ModeCorrect   QuestionMode = "correct"
	ModeIncorrect QuestionMode = "incorrect"
	ModeOmitted   QuestionMode = "omitted"
	ModeMarked    QuestionMode = "marked"
)

// AllQuestionModes lists the five modes in their canonical order.
var AllQuestionModes = []QuestionMode{
	ModeUnused,
	ModeCorrect,
	ModeIncorrect,
	ModeOmitted,
	ModeMarked,
}

// ParseQuestionMode normalizes a raw mode string. The second return value is
// false when the input names no known mode.
func ParseQuestionMode(value string) (QuestionMode, bool) {
	switch QuestionMode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeUnused:
		return ModeUnused, true
	case ModeCorrect:
		return ModeCorrect, true
	case ModeIncorrect:
		return ModeIncorrect, true
	case ModeOmitted:
		return ModeOmitted, true
	case ModeMarked:
		return ModeMarked, true
	default:
		return "", false
	}
}
