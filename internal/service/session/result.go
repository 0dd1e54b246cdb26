package session

import "github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"

// Status tags the outcome of Submit.
type Status string

const (
	// StatusAppended: the reply was appended to the existing transcript.
	StatusAppended Status = "appended"
	// StatusReconciled: a new session was created and its transcript re-fetched.
	StatusReconciled Status = "reconciled"
	// StatusFailed: the request failed; the user turn stays in the transcript.
	StatusFailed Status = "failed"
	// StatusRejected: nothing was sent (blank input or a request in flight).
	StatusRejected Status = "rejected"
	// StatusDiscarded: the session changed while the request was in flight.
	StatusDiscarded Status = "discarded"
)

// SubmitResult is the tagged outcome of Submit. Reply is set for appended,
// Transcript for reconciled and Err for failed or rejected.
type SubmitResult struct {
	Status     Status
	SessionID  string
	Reply      chat.Turn
	Transcript []chat.Turn
	Err        error
}

func rejected(err error) (SubmitResult, error) {
	return SubmitResult{Status: StatusRejected, Err: err}, err
}

func discarded(sessionID string) (SubmitResult, error) {
	return SubmitResult{Status: StatusDiscarded, SessionID: sessionID}, nil
}
