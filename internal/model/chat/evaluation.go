package chat

// MockInterviewConfig describes a generated question set.
type MockInterviewConfig struct {
	Role            string `json:"role"`
	ExperienceLevel string `json:"experienceLevel"`
	MinQuestions    int    `json:"minQuestions"`
}

// Evaluation is the backend's judgement of one mock interview answer.
// Verdict is optional; older backends only send free-text feedback.
type Evaluation struct {
	Feedback string `json:"feedback"`
	Verdict  string `json:"verdict,omitempty"`
}
