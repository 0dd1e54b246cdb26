package ai

import (
	"fmt"
	"strings"
)

// Task selects which prompt template a generation request uses.
type Task string

const (
	TaskChat      Task = "chat"
	TaskInterview Task = "interview"
	TaskQuestions Task = "questions"
	TaskEvaluate  Task = "evaluate"
)

// PromptTemplate defines the structure for task prompts
type PromptTemplate struct {
	SystemPrompt string
	Hints        []string
	Rules        []string
}

// PromptManager manages prompt templates for each task
type PromptManager struct {
	templates map[Task]*PromptTemplate
}

// NewPromptManager creates a new prompt manager with default templates
func NewPromptManager() *PromptManager {
	pm := &PromptManager{
		templates: make(map[Task]*PromptTemplate),
	}
	pm.loadDefaultTemplates()
	return pm
}

// GetPromptTemplate returns the prompt template for a given task
func (pm *PromptManager) GetPromptTemplate(task Task) (*PromptTemplate, error) {
	template, exists := pm.templates[task]
	if !exists {
		return nil, fmt.Errorf("prompt template not found for task: %s", task)
	}
	return template, nil
}

// BuildSystemPrompt renders the system prompt for task, specialised to role and level.
func (pm *PromptManager) BuildSystemPrompt(task Task, role, level string) string {
	template, err := pm.GetPromptTemplate(task)
	if err != nil {
		return "You are a helpful career assistant."
	}

	var b strings.Builder
	b.WriteString(template.SystemPrompt)
	if role != "" {
		fmt.Fprintf(&b, "\n\nTarget role: %s", role)
	}
	if level != "" {
		fmt.Fprintf(&b, "\nCandidate experience level: %s", level)
	}
	if len(template.Hints) > 0 {
		b.WriteString("\n\nGuidance:\n- ")
		b.WriteString(strings.Join(template.Hints, "\n- "))
	}
	if len(template.Rules) > 0 {
		b.WriteString("\n\nRules:\n- ")
		b.WriteString(strings.Join(template.Rules, "\n- "))
	}
	return b.String()
}

func (pm *PromptManager) loadDefaultTemplates() {
	pm.templates[TaskChat] = &PromptTemplate{
		SystemPrompt: `You are CareerPath, a friendly mentor helping people grow their software careers. You answer technical questions, review ideas and suggest next learning steps.`,
		Hints: []string{
			"Prefer short, concrete explanations with a small example when useful",
			"Ask a clarifying question when the request is ambiguous",
		},
		Rules: []string{
			"Stay on topics related to learning, careers and software engineering",
			"Never invent links or course names",
		},
	}

	pm.templates[TaskInterview] = &PromptTemplate{
		SystemPrompt: `You are an experienced interviewer running a practice interview. Ask one question at a time and react briefly to each answer before moving on.`,
		Hints: []string{
			"Start with a warm-up question suited to the role",
			"Dig deeper when an answer is vague",
		},
		Rules: []string{
			"Ask exactly one question per reply",
			"Keep every reply under 80 words",
		},
	}

	pm.templates[TaskQuestions] = &PromptTemplate{
		SystemPrompt: `You write interview question sets.`,
		Rules: []string{
			"Return one question per line",
			"Do not number the questions or add any other text",
			"Match the difficulty to the candidate experience level",
		},
	}

	pm.templates[TaskEvaluate] = &PromptTemplate{
		SystemPrompt: `You grade a candidate's answer to an interview question.`,
		Rules: []string{
			`Respond with JSON only: {"verdict": "correct" | "incorrect" | "partial", "feedback": "<two sentences at most>"}`,
			"Use incorrect when the answer is wrong or misses the point of the question",
		},
	}
}
