package atelier_test

import (
	"context"
	"database/sql"

	"github.com/atelierhq/atelier"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockAccounts implements atelier.Accounts for testing
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*atelier.Account, error) {
	args := m.Called(ctx, id, criteria)
	if record := args.Get(0); record != nil {
		return record.(*atelier.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) GetByLogin(ctx context.Context, login string) (*atelier.Account, error) {
	args := m.Called(ctx, login)
	if record := args.Get(0); record != nil {
		return record.(*atelier.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) FindByLoginOrEmail(ctx context.Context, login, email string) (*atelier.Account, error) {
	args := m.Called(ctx, login, email)
	if record := args.Get(0); record != nil {
		return record.(*atelier.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) APIKeyInUse(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccounts) Create(ctx context.Context, record *atelier.Account) (*atelier.Account, error) {
	args := m.Called(ctx, record)
	if created := args.Get(0); created != nil {
		return created.(*atelier.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *atelier.Account) (*atelier.Account, error) {
	args := m.Called(ctx, tx, record)
	if created := args.Get(0); created != nil {
		return created.(*atelier.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockOperators implements atelier.Operators for testing
type MockOperators struct {
	mock.Mock
}

func (m *MockOperators) CreateTx(ctx context.Context, tx bun.IDB, record *atelier.Operator) (*atelier.Operator, error) {
	args := m.Called(ctx, tx, record)
	if created := args.Get(0); created != nil {
		return created.(*atelier.Operator), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockStatistics implements atelier.StatisticsRepository for testing
type MockStatistics struct {
	mock.Mock
}

func (m *MockStatistics) CreateTx(ctx context.Context, tx bun.IDB, record *atelier.Statistics) (*atelier.Statistics, error) {
	args := m.Called(ctx, tx, record)
	if created := args.Get(0); created != nil {
		return created.(*atelier.Statistics), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMailer implements atelier.Mailer for testing
type MockMailer struct {
	mock.Mock
	Sent []atelier.Email
}

func (m *MockMailer) Send(ctx context.Context, msg atelier.Email) error {
	m.Sent = append(m.Sent, msg)
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// stubRepoManager wires mock repositories behind the RepositoryManager
// interface. RunInTx invokes the callback directly; the zero tx is fine
// because the mocks never touch it.
type stubRepoManager struct {
	accounts   *MockAccounts
	operators  *MockOperators
	statistics *MockStatistics
}

func newStubRepoManager() *stubRepoManager {
	return &stubRepoManager{
		accounts:   &MockAccounts{},
		operators:  &MockOperators{},
		statistics: &MockStatistics{},
	}
}

func (s *stubRepoManager) Validate() error { return nil }
func (s *stubRepoManager) MustValidate()   {}

func (s *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (s *stubRepoManager) Accounts() atelier.Accounts               { return s.accounts }
func (s *stubRepoManager) Operators() atelier.Operators             { return s.operators }
func (s *stubRepoManager) Statistics() atelier.StatisticsRepository { return s.statistics }
