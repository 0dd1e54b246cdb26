package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

var (
	openingQuestions = map[string]string{
		"frontend developer": "Can you explain the virtual DOM in React?",
		"backend developer":  "What are the differences between SQL and NoSQL?",
		"data analyst":       "How would you handle missing values in a dataset?",
	}

	followUps = []string{
		"Interesting! Can you go deeper?",
		"Why do you think that approach works best?",
		"Good. What would you improve in your previous answer?",
	}

	questionTemplates = []string{
		"Tell me about a %s project you are proud of.",
		"What does a typical day look like for a %s?",
		"Which tools do you rely on most as a %s, and why?",
		"Describe a difficult bug you solved as a %s.",
		"How do you keep your %s skills up to date?",
		"How would you explain your work as a %s to a non-technical colleague?",
		"What is the biggest trade-off you have made as a %s?",
		"How do you test your work as a %s?",
		"Describe a time you disagreed with a teammate on a %s decision.",
		"What metrics tell you that your work as a %s is successful?",
	}
)

// CannedGenerator answers without any model. It keeps the reference backend
// usable offline and in tests.
type CannedGenerator struct{}

// NewCannedGenerator returns a CannedGenerator.
func NewCannedGenerator() *CannedGenerator {
	return &CannedGenerator{}
}

// Generate implements Generator.
func (g *CannedGenerator) Generate(_ context.Context, req Request) (string, error) {
	switch req.Task {
	case TaskInterview:
		return g.interview(req), nil
	case TaskQuestions:
		return g.questions(req), nil
	case TaskEvaluate:
		return g.evaluate(req)
	default:
		return fmt.Sprintf("Let's work through %q together. What have you tried so far?", strings.TrimSpace(req.Query)), nil
	}
}

func (g *CannedGenerator) interview(req Request) string {
	answered := 0
	for _, turn := range req.History {
		if turn.Role == chat.RoleUser {
			answered++
		}
	}
	if len(req.History) == 0 {
		if q, ok := openingQuestions[strings.ToLower(req.Role)]; ok {
			return q
		}
		return "Let's begin! Tell me about yourself."
	}
	return followUps[answered%len(followUps)]
}

func (g *CannedGenerator) questions(req Request) string {
	count := req.Count
	if count <= 0 {
		count = len(questionTemplates)
	}
	role := req.Role
	if role == "" {
		role = "developer"
	}

	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		q := fmt.Sprintf(questionTemplates[i%len(questionTemplates)], role)
		if round := i / len(questionTemplates); round > 0 {
			q = fmt.Sprintf("%s (follow-up %d)", q, round)
		}
		lines = append(lines, q)
	}
	return strings.Join(lines, "\n")
}

func (g *CannedGenerator) evaluate(req Request) (string, error) {
	verdict := "correct"
	feedback := "Clear answer. Consider adding a concrete example."
	if len(strings.Fields(req.Query)) < 3 {
		verdict = "incorrect"
		feedback = "That answer is too brief to be correct. Explain your reasoning in more detail."
	}

	data, err := json.Marshal(map[string]string{"verdict": verdict, "feedback": feedback})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
