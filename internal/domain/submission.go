package domain

import "time"

// Submission is the payload posted to the intake webhook.
type Submission struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Problem   string `json:"problem"`
	Features  string `json:"features"`
	Audience  string `json:"audience"`
	Contact   string `json:"contact"`
	Source    string `json:"source"`
	UserAgent string `json:"userAgent"`
	Page      string `json:"page"`
}

// IntakeForm is what a client handed in, before any checks.
type IntakeForm struct {
	Title    string
	Category string
	Problem  string
	Features string
	Audience string
	Contact  string
	Consent  bool

	// Honeypot is the hidden field only bots fill in.
	Honeypot string
	// OpenedAt is when the form was first rendered to the client.
	OpenedAt  time.Time
	UserAgent string
	Page      string
}

// Receipt is the webhook reply to an accepted submission.
type Receipt struct {
	TrackingURL string `json:"tracking_url,omitempty"`
}

// IntakeState is a node in the submission state machine.
type IntakeState string

const (
	IntakeIdle       IntakeState = "idle"
	IntakeSubmitting IntakeState = "submitting"
	IntakeSuccess    IntakeState = "success"
	IntakeRejected   IntakeState = "rejected"
)

var intakeTransitions = map[IntakeState][]IntakeState{
	IntakeIdle:       {IntakeSubmitting, IntakeRejected},
	IntakeSubmitting: {IntakeSuccess, IntakeRejected},
}

// CanTransition reports whether the state machine allows s -> next.
func (s IntakeState) CanTransition(next IntakeState) bool {
	for _, allowed := range intakeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s IntakeState) Terminal() bool {
	return len(intakeTransitions[s]) == 0
}
