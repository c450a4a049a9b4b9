package atelier

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Operators persists contractor profiles.
type Operators interface {
	CreateTx(ctx context.Context, tx bun.IDB, record *Operator) (*Operator, error)
}

// StatisticsRepository persists per-key usage counters.
type StatisticsRepository interface {
	CreateTx(ctx context.Context, tx bun.IDB, record *Statistics) (*Statistics, error)
}

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Accounts() Accounts
	Operators() Operators
	Statistics() StatisticsRepository
}

type operators struct {
	repository.Repository[*Operator]
}

func (o *operators) CreateTx(ctx context.Context, tx bun.IDB, record *Operator) (*Operator, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return o.Repository.CreateTx(ctx, tx, record)
}

func NewOperatorsRepository(db *bun.DB) Operators {
	handlers := repository.ModelHandlers[*Operator]{
		NewRecord: func() *Operator { return &Operator{} },
		GetID: func(record *Operator) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Operator, id uuid.UUID) {
			record.ID = id
		},
	}
	return &operators{Repository: repository.NewRepository(db, handlers)}
}

type statisticsRepo struct {
	repository.Repository[*Statistics]
}

func (s *statisticsRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Statistics) (*Statistics, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return s.Repository.CreateTx(ctx, tx, record)
}

func NewStatisticsRepository(db *bun.DB) StatisticsRepository {
	handlers := repository.ModelHandlers[*Statistics]{
		NewRecord: func() *Statistics { return &Statistics{} },
		GetID: func(record *Statistics) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Statistics, id uuid.UUID) {
			record.ID = id
		},
	}
	return &statisticsRepo{Repository: repository.NewRepository(db, handlers)}
}

type mngr struct {
	db         *bun.DB
	accounts   Accounts
	operators  Operators
	statistics StatisticsRepository
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		accounts:   NewAccountsRepository(db),
		operators:  NewOperatorsRepository(db),
		statistics: NewStatisticsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	if m.operators == nil {
		return errors.New("repository operators should be initialized")
	}

	if m.statistics == nil {
		return errors.New("repository statistics should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}

func (m mngr) Operators() Operators {
	return m.operators
}

func (m mngr) Statistics() StatisticsRepository {
	return m.statistics
}
