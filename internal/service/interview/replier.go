package interview

import (
	"context"
	"sync"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/client"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// DefaultOpening is used for roles without a predefined first question.
const DefaultOpening = "Let's begin!"

var openings = map[string]string{
	"Frontend Developer": "Can you explain the virtual DOM in React?",
	"Backend Developer":  "What are the differences between SQL and NoSQL?",
	"Data Analyst":       "How would you handle missing values in a dataset?",
}

var followUps = []string{
	"Interesting! Can you go deeper?",
	"Why do you think that approach works best?",
	"Good. What would you improve in your previous answer?",
}

// Replier produces the interviewer's lines.
type Replier interface {
	Start(ctx context.Context, role string) (string, error)
	Continue(ctx context.Context, role, answer string, prior []chat.Turn) (string, error)
}

// OfflineReplier answers from a fixed script without any network access.
// Follow-ups rotate in order.
type OfflineReplier struct {
	mu   sync.Mutex
	next int
}

// NewOfflineReplier returns an OfflineReplier.
func NewOfflineReplier() *OfflineReplier {
	return &OfflineReplier{}
}

// Start implements Replier.
func (r *OfflineReplier) Start(_ context.Context, role string) (string, error) {
	r.mu.Lock()
	r.next = 0
	r.mu.Unlock()

	if q, ok := openings[role]; ok {
		return q, nil
	}
	return DefaultOpening, nil
}

// Continue implements Replier.
func (r *OfflineReplier) Continue(context.Context, string, string, []chat.Turn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reply := followUps[r.next%len(followUps)]
	r.next++
	return reply, nil
}

// Backend is the interview part of the Remote Completion Client.
type Backend interface {
	StartInterview(ctx context.Context, role string) (client.Reply, error)
	ContinueInterview(ctx context.Context, role, answer string, prior []chat.Turn) (client.Reply, error)
}

// RemoteReplier asks the backend for every line.
type RemoteReplier struct {
	backend Backend
}

// NewRemoteReplier wraps backend.
func NewRemoteReplier(backend Backend) *RemoteReplier {
	return &RemoteReplier{backend: backend}
}

// Start implements Replier.
func (r *RemoteReplier) Start(ctx context.Context, role string) (string, error) {
	reply, err := r.backend.StartInterview(ctx, role)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

// Continue implements Replier.
func (r *RemoteReplier) Continue(ctx context.Context, role, answer string, prior []chat.Turn) (string, error) {
	reply, err := r.backend.ContinueInterview(ctx, role, answer, prior)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
