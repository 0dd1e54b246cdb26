package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

func TestClassifyPrefersStructuredVerdict(t *testing.T) {
	d := Classify(chat.Evaluation{Feedback: "That is wrong.", Verdict: "correct"})
	assert.Equal(t, Correct, d.Verdict)
	assert.Equal(t, SourceStructured, d.Source)
	assert.False(t, d.Retry())

	d = Classify(chat.Evaluation{Feedback: "Great answer", Verdict: " Incorrect "})
	assert.Equal(t, Incorrect, d.Verdict)
	assert.True(t, d.Retry())
}

func TestClassifyKeywordFallback(t *testing.T) {
	cases := []struct {
		feedback string
		want     Label
	}{
		{"Your answer is incorrect.", Incorrect},
		{"That's WRONG, closures capture scope.", Incorrect},
		{"Partially correct, but you missed hoisting.", Partial},
		{"Nice explanation of the event loop.", Correct},
	}

	for _, tc := range cases {
		d := Classify(chat.Evaluation{Feedback: tc.feedback})
		assert.Equal(t, tc.want, d.Verdict, tc.feedback)
		assert.Equal(t, SourceKeywords, d.Source, tc.feedback)
	}
}

func TestClassifyIncorrectWinsTie(t *testing.T) {
	d := Classify(chat.Evaluation{Feedback: "Partially correct but the conclusion is wrong."})
	assert.Equal(t, Incorrect, d.Verdict)
}

func TestClassifyEmptyFeedback(t *testing.T) {
	d := Classify(chat.Evaluation{})
	assert.Equal(t, Unknown, d.Verdict)
	assert.Equal(t, SourceNone, d.Source)
	assert.False(t, d.Retry())
}

func TestParse(t *testing.T) {
	assert.Equal(t, Partial, Parse("PARTIAL"))
	assert.Equal(t, Unknown, Parse("maybe"))
}
