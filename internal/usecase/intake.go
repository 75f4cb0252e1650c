package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/naka-gawa/idealab/internal/gateway"
	"go.uber.org/zap"
)

// Intake drives one submission through idle -> submitting -> success/rejected.
type Intake struct {
	poster   gateway.SubmissionPoster
	notifier gateway.Notifier
	source   string
	minDwell time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// IntakeOption configures an Intake.
type IntakeOption func(*Intake)

// WithNotifier announces successful submissions. Notification failures are
// logged and never change the outcome.
func WithNotifier(n gateway.Notifier) IntakeOption {
	return func(i *Intake) { i.notifier = n }
}

// WithMinDwell sets how long a form must have been open. Zero disables the check.
func WithMinDwell(d time.Duration) IntakeOption {
	return func(i *Intake) { i.minDwell = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) IntakeOption {
	return func(i *Intake) { i.now = now }
}

func NewIntake(poster gateway.SubmissionPoster, source string, logger *zap.Logger, opts ...IntakeOption) *Intake {
	i := &Intake{
		poster:   poster,
		source:   source,
		minDwell: 1200 * time.Millisecond,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Attempt records where one submission ended up.
type Attempt struct {
	State      domain.IntakeState
	Submission domain.Submission
	Receipt    domain.Receipt
}

// moveTo advances the attempt, leaving it unchanged on an illegal transition.
func (a *Attempt) moveTo(next domain.IntakeState) error {
	if !a.State.CanTransition(next) {
		return fmt.Errorf("illegal intake transition %s -> %s", a.State, next)
	}
	a.State = next
	return nil
}

// reject moves the attempt to rejected and returns cause.
func (a *Attempt) reject(cause error) error {
	if err := a.moveTo(domain.IntakeRejected); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Submit runs the guards and, if they pass, posts the submission once.
// A filled honeypot leaves the attempt idle and returns ErrHoneypot.
// Every other failure leaves it rejected.
func (i *Intake) Submit(ctx context.Context, form domain.IntakeForm) (*Attempt, error) {
	attempt := &Attempt{State: domain.IntakeIdle}

	if strings.TrimSpace(form.Honeypot) != "" {
		i.logger.Info("Dropping submission with filled honeypot")
		return attempt, domain.ErrHoneypot
	}

	if i.minDwell > 0 {
		if form.OpenedAt.IsZero() || i.now().Sub(form.OpenedAt) < i.minDwell {
			i.logger.Info("Rejecting submission sent too fast", zap.Time("opened_at", form.OpenedAt))
			return attempt, attempt.reject(domain.ErrTooFast)
		}
	}

	sub := buildSubmission(form, i.source)
	attempt.Submission = sub
	if sub.Title == "" || sub.Category == "" || sub.Problem == "" || !form.Consent {
		return attempt, attempt.reject(domain.ErrIncomplete)
	}

	if err := attempt.moveTo(domain.IntakeSubmitting); err != nil {
		return attempt, err
	}
	receipt, err := i.poster.PostSubmission(ctx, sub)
	if err != nil {
		i.logger.Error("Failed to submit idea", zap.String("title", sub.Title), zap.Error(err))
		return attempt, attempt.reject(err)
	}
	attempt.Receipt = receipt
	if err := attempt.moveTo(domain.IntakeSuccess); err != nil {
		return attempt, err
	}
	i.logger.Info("Idea submitted", zap.String("title", sub.Title), zap.String("tracking_url", receipt.TrackingURL))

	if i.notifier != nil {
		if err := i.notifier.NotifySubmission(ctx, sub, receipt); err != nil {
			i.logger.Warn("Failed to notify about submission", zap.Error(err))
		}
	}
	return attempt, nil
}

func buildSubmission(form domain.IntakeForm, source string) domain.Submission {
	return domain.Submission{
		Title:     strings.TrimSpace(form.Title),
		Category:  strings.TrimSpace(form.Category),
		Problem:   strings.TrimSpace(form.Problem),
		Features:  strings.TrimSpace(form.Features),
		Audience:  strings.TrimSpace(form.Audience),
		Contact:   strings.TrimSpace(form.Contact),
		Source:    source,
		UserAgent: form.UserAgent,
		Page:      form.Page,
	}
}
