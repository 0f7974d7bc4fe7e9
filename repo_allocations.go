package sessiongate

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Allocations is the persistence surface for portfolio splits. It satisfies
// the AllocationStore capability the provisioner consumes.
type Allocations interface {
	AllocationStore

	SetAllocationsTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, stocks, funds, bonds int) error
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*Allocation, error)
}

type allocations struct {
	repo repository.Repository[*Allocation]
	db   *bun.DB
}

var _ Allocations = (*allocations)(nil)
var _ AllocationStore = (*allocations)(nil)

// NewAllocationsRepository builds the bun-backed allocations repository.
func NewAllocationsRepository(db *bun.DB) Allocations {
	repo := repository.NewRepository[*Allocation](db, repository.ModelHandlers[*Allocation]{
		NewRecord: func() *Allocation { return &Allocation{} },
		GetID: func(a *Allocation) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Allocation, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "account_id"
		},
	})

	return &allocations{repo: repo, db: db}
}

func (a *allocations) SetAllocations(ctx context.Context, accountID uuid.UUID, stocks, funds, bonds int) error {
	return a.SetAllocationsTx(ctx, a.db, accountID, stocks, funds, bonds)
}

// SetAllocationsTx upserts the single allocation row an account holds.
func (a *allocations) SetAllocationsTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID, stocks, funds, bonds int) error {
	record := &Allocation{
		ID:        uuid.New(),
		AccountID: accountID,
		Stocks:    stocks,
		Funds:     funds,
		Bonds:     bonds,
	}

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (account_id) DO UPDATE").
		Set("stocks = EXCLUDED.stocks").
		Set("funds = EXCLUDED.funds").
		Set("bonds = EXCLUDED.bonds").
		Exec(ctx)

	return err
}

func (a *allocations) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Allocation, error) {
	record := &Allocation{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.account_id = ?", accountID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return record, nil
}
