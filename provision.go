package sessiongate

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AllocationProvisioner seeds the starting portfolio split for new accounts.
// Provisioning is peripheral to the auth core: it runs detached from the
// signup request and a failure here never gates session establishment.
type AllocationProvisioner struct {
	store   AllocationStore
	logger  Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAllocationProvisioner returns a provisioner over the given store.
func NewAllocationProvisioner(store AllocationStore) *AllocationProvisioner {
	return &AllocationProvisioner{
		store:   store,
		logger:  defLogger{},
		timeout: 10 * time.Second,
	}
}

func (p *AllocationProvisioner) WithLogger(logger Logger) *AllocationProvisioner {
	p.logger = logger
	return p
}

// RandomSplit picks stocks and funds in [1,40] each; bonds absorb the
// remainder so the three always sum to 100.
func RandomSplit() (stocks, funds, bonds int) {
	stocks = rand.IntN(40) + 1
	funds = rand.IntN(40) + 1
	return stocks, funds, 100 - stocks - funds
}

// Provision writes a fresh random allocation for the account.
func (p *AllocationProvisioner) Provision(ctx context.Context, accountID uuid.UUID) error {
	stocks, funds, bonds := RandomSplit()
	if err := p.store.SetAllocations(ctx, accountID, stocks, funds, bonds); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "allocation provisioning failed")
	}
	return nil
}

// ProvisionAsync runs Provision detached from the request lifecycle: the task
// survives client disconnects and failures are surfaced to diagnostics only.
func (p *AllocationProvisioner) ProvisionAsync(ctx context.Context, accountID uuid.UUID) {
	ctx = context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		if err := p.Provision(ctx, accountID); err != nil {
			p.logger.Error("allocation provisioning error", "account_id", accountID, "error", err)
		}
	}()
}

// Wait blocks until in-flight provisioning drains; call it on shutdown.
func (p *AllocationProvisioner) Wait() {
	p.wg.Wait()
}
