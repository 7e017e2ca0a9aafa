/*
Package runtime models the call context a contract method executes in:
who called it, how much deposit was attached, how much gas was prepaid
and where log output goes. It also tracks storage usage so methods can
charge the caller for state growth and refund released bytes, the way
NEAR meters contract storage.
*/
package runtime

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/nep171"
	"go.uber.org/zap"
)

// Gas budgets for cross-contract transfer calls.
const (
	GasForResolveTransfer = 5_000_000_000_000
	GasForTransferCall    = 25_000_000_000_000 + GasForResolveTransfer

	// DefaultPrepaidGas is the gas attached to a call when not set
	// explicitly. It must exceed GasForTransferCall so transfer calls
	// work on a default env.
	DefaultPrepaidGas = 100_000_000_000_000
)

// StoragePricePerByte is the cost of one byte of contract state,
// 10^19 yoctoNEAR.
var StoragePricePerByte = uint256.NewInt(10_000_000_000_000_000_000)

// OneYocto is the smallest attachable deposit. Mutating calls require
// exactly this much to prove the caller signed the transaction.
var OneYocto = uint256.NewInt(1)

// Deposit and gas check errors.
var (
	ErrOneYoctoRequired = errors.New("requires attached deposit of exactly 1 yoctoNEAR")
	ErrDepositRequired  = errors.New("requires attached deposit of at least 1 yoctoNEAR")
	ErrNotEnoughDeposit = errors.New("attached deposit does not cover the storage cost")
	ErrMoreGasRequired  = errors.New("more gas is required")
)

// NEAR converts whole NEAR tokens to yoctoNEAR (1 NEAR = 10^24 yocto).
func NEAR(n uint64) *uint256.Int {
	e24 := uint256.NewInt(1_000_000_000_000_000_000)
	e24.Mul(e24, uint256.NewInt(1_000_000))
	return e24.Mul(e24, uint256.NewInt(n))
}

// Env is the context of a single contract call.
type Env struct {
	// CurrentAccount is the account the contract itself lives on.
	CurrentAccount account.ID
	// Predecessor is the account that performed this call.
	Predecessor account.ID
	// AttachedDeposit is the yoctoNEAR amount sent along with the call.
	AttachedDeposit *uint256.Int
	// PrepaidGas is the gas budget of the call.
	PrepaidGas uint64

	log  *zap.Logger
	logs []string
	// storage bytes charged and released during the call
	charged  uint64
	released uint64
}

// NewEnv creates a call context with no deposit and the default gas
// budget. Logging goes nowhere unless WithLogger is used.
func NewEnv(current, predecessor account.ID) *Env {
	return &Env{
		CurrentAccount:  current,
		Predecessor:     predecessor,
		AttachedDeposit: uint256.NewInt(0),
		PrepaidGas:      DefaultPrepaidGas,
		log:             zap.NewNop(),
	}
}

// WithLogger directs env log output to the given logger.
func (e *Env) WithLogger(log *zap.Logger) *Env {
	e.log = log
	return e
}

// WithDeposit attaches a deposit to the call.
func (e *Env) WithDeposit(d *uint256.Int) *Env {
	e.AttachedDeposit = d.Clone()
	return e
}

// WithGas sets the prepaid gas budget.
func (e *Env) WithGas(gas uint64) *Env {
	e.PrepaidGas = gas
	return e
}

// AssertOneYocto fails unless exactly 1 yoctoNEAR is attached.
func (e *Env) AssertOneYocto() error {
	if !e.AttachedDeposit.Eq(OneYocto) {
		return ErrOneYoctoRequired
	}
	return nil
}

// AssertGas fails unless the prepaid gas exceeds the required budget.
func (e *Env) AssertGas(required uint64) error {
	if e.PrepaidGas <= required {
		return fmt.Errorf("%w: prepaid %d, required more than %d", ErrMoreGasRequired, e.PrepaidGas, required)
	}
	return nil
}

// ChargeStorage accounts for n bytes of new state. The attached
// deposit must cover the cost of all bytes charged during the call.
func (e *Env) ChargeStorage(n uint64) error {
	e.charged += n
	cost := new(uint256.Int).Mul(StoragePricePerByte, uint256.NewInt(e.charged))
	if e.AttachedDeposit.Lt(cost) {
		return fmt.Errorf("%w: need %s yoctoNEAR for %d bytes, attached %s",
			ErrNotEnoughDeposit, cost.Dec(), e.charged, e.AttachedDeposit.Dec())
	}
	return nil
}

// ReleaseStorage accounts for n bytes of removed state, to be refunded
// to the caller.
func (e *Env) ReleaseStorage(n uint64) {
	e.released += n
}

// Refund returns the yoctoNEAR amount owed back to the caller: the
// unused part of the attached deposit plus the cost of released
// storage.
func (e *Env) Refund() *uint256.Int {
	r := new(uint256.Int)
	if e.charged > 0 {
		cost := new(uint256.Int).Mul(StoragePricePerByte, uint256.NewInt(e.charged))
		r.Sub(e.AttachedDeposit, cost)
	}
	back := new(uint256.Int).Mul(StoragePricePerByte, uint256.NewInt(e.released))
	return r.Add(r, back)
}

// Log records a plain log line.
func (e *Env) Log(line string) {
	e.logs = append(e.logs, line)
	e.log.Debug(line)
}

// EmitEvent records a NEP-171 event log line.
func (e *Env) EmitEvent(ev nep171.Event) {
	line := ev.String()
	e.logs = append(e.logs, line)
	e.log.Debug(line)
}

// Logs returns all lines logged during the call, in order.
func (e *Env) Logs() []string {
	return e.logs
}
