package drill

import (
	"time"

	"github.com/abhisek/rhythmiz/internal/catalog"
)

// Verdict is the outcome of evaluating an answer against its target.
type Verdict int

const (
	Incomplete Verdict = iota
	Incorrect
	Correct
)

func (v Verdict) String() string {
	switch v {
	case Incomplete:
		return "incomplete"
	case Incorrect:
		return "incorrect"
	case Correct:
		return "correct"
	default:
		return "unknown"
	}
}

// Evaluate compares a completed answer against the target sequence. It is a
// pure function and mutates nothing.
func Evaluate(target, answer []catalog.DurationKind) Verdict {
	for _, a := range answer {
		if a == catalog.NoDuration {
			return Incomplete
		}
	}
	if len(target) != len(answer) {
		return Incorrect
	}
	for i := range target {
		if target[i] != answer[i] {
			return Incorrect
		}
	}
	return Correct
}

// QuestionState holds one question's lifecycle data. Exactly one is active
// at any instant; starting the next question retires it.
type QuestionState struct {
	Pattern   catalog.Pattern
	Slots     []catalog.DurationKind
	Revealed  bool
	HintUsed  bool
	PlayCount int
	ShownAt   time.Time
}

func newQuestionState(p catalog.Pattern, shownAt time.Time) *QuestionState {
	return &QuestionState{
		Pattern: p,
		Slots:   make([]catalog.DurationKind, len(p.Events)),
		ShownAt: shownAt,
	}
}

// Complete reports whether every answer slot is filled.
func (q *QuestionState) Complete() bool {
	for _, s := range q.Slots {
		if s == catalog.NoDuration {
			return false
		}
	}
	return true
}

// SessionStats accumulate over one session and reset only at session start.
type SessionStats struct {
	CorrectCount          int
	TotalCount            int
	Streak                int
	PerfectStreak         int
	AverageResponseTimeMs int
}

// Accuracy returns the cumulative fraction of correct answers.
func (s SessionStats) Accuracy() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.TotalCount)
}

// PerformanceRecord is one evaluation appended to the in-memory rolling log.
// Only derived aggregates are persisted.
type PerformanceRecord struct {
	ItemID         string
	Signature      catalog.TimeSignature
	Correct        bool
	ResponseTimeMs int
	PlayCount      int
	UsedHint       bool
	Tempo          int
	Timestamp      time.Time
}

// maxRecords bounds the rolling performance log.
const maxRecords = 100
