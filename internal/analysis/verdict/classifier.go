package verdict

import (
	"strings"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// Label is the judgement attached to an answer.
type Label string

const (
	Unknown   Label = ""
	Correct   Label = "correct"
	Incorrect Label = "incorrect"
	Partial   Label = "partial"
)

// Source tells where a decision came from.
type Source string

const (
	SourceStructured Source = "structured"
	SourceKeywords   Source = "keywords"
	SourceNone       Source = "none"
)

// Decision is the classification of one evaluation.
type Decision struct {
	Verdict Label
	Source  Source
	Score   int
}

// Retry reports whether the same question should be asked again.
func (d Decision) Retry() bool {
	return d.Verdict == Incorrect
}

// keywordBuckets is a stopgap for backends that only return prose feedback.
var keywordBuckets = map[Label][]string{
	Incorrect: {"incorrect", "wrong"},
	Partial:   {"partially correct", "partly correct", "partially right"},
}

// precedence breaks score ties; retrying on a doubtful answer is the safer outcome.
var precedence = []Label{Incorrect, Partial}

// Parse maps a structured verdict string to a Label.
func Parse(raw string) Label {
	switch Label(strings.ToLower(strings.TrimSpace(raw))) {
	case Correct:
		return Correct
	case Incorrect:
		return Incorrect
	case Partial:
		return Partial
	default:
		return Unknown
	}
}

// Classify prefers the structured verdict and falls back to keyword matching
// on the feedback text. Feedback with no keyword hit is treated as correct.
func Classify(eval chat.Evaluation) Decision {
	if label := Parse(eval.Verdict); label != Unknown {
		return Decision{Verdict: label, Source: SourceStructured}
	}

	normalized := strings.ToLower(strings.TrimSpace(eval.Feedback))
	if normalized == "" {
		return Decision{Verdict: Unknown, Source: SourceNone}
	}

	scores := scoreText(normalized)
	best, bestScore := Unknown, 0
	for _, label := range precedence {
		if scores[label] > bestScore {
			best, bestScore = label, scores[label]
		}
	}
	if bestScore == 0 {
		return Decision{Verdict: Correct, Source: SourceKeywords}
	}
	return Decision{Verdict: best, Source: SourceKeywords, Score: bestScore}
}

func scoreText(normalized string) map[Label]int {
	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			scores[label] += strings.Count(normalized, word)
		}
	}
	return scores
}
