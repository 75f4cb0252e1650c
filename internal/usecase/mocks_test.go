package usecase

import (
	"context"

	"github.com/naka-gawa/idealab/internal/domain"
	"github.com/stretchr/testify/mock"
)

// mockIssueSource is a mock implementation of the gateway.IssueSource interface.
type mockIssueSource struct {
	mock.Mock
}

func (m *mockIssueSource) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

// mockCatalog is a mock implementation of the gateway.CatalogSource interface.
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) LoadMolecules(ctx context.Context) ([]domain.Molecule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Molecule), args.Error(1)
}

// mockPoster is a mock implementation of the gateway.SubmissionPoster interface.
type mockPoster struct {
	mock.Mock
}

func (m *mockPoster) PostSubmission(ctx context.Context, s domain.Submission) (domain.Receipt, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Receipt), args.Error(1)
}

// mockNotifier is a mock implementation of the gateway.Notifier interface.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifySubmission(ctx context.Context, s domain.Submission, r domain.Receipt) error {
	args := m.Called(ctx, s, r)
	return args.Error(0)
}
