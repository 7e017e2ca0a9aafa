/*
Package sandbox runs the token contract locally against a configured
store, so contract calls can be exercised without a network. Every
call gets its own runtime.Env; the log lines it produces (including
the EVENT_JSON event lines) are printed the way a network node would
surface them.
*/
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/config"
	"github.com/nearlabs/nftoken/pkg/keys"
	"github.com/nearlabs/nftoken/pkg/runtime"
	"github.com/nearlabs/nftoken/pkg/storage"
	"github.com/nearlabs/nftoken/pkg/token"
	"go.uber.org/zap"
)

// Sandbox is a local contract instance.
type Sandbox struct {
	cfg      config.SandboxConfiguration
	store    storage.Store
	contract *token.Contract
	acc      account.ID
	log      *zap.Logger
}

// Open creates or reopens the sandbox described by the configuration.
// A key pair for the contract account is generated on first use and
// kept next to the database, mirroring the credential files the
// network tooling maintains.
func Open(cfg config.SandboxConfiguration, log *zap.Logger) (*Sandbox, error) {
	acc, err := account.ParseID(cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("bad sandbox contract account: %w", err)
	}
	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		return nil, err
	}
	contract, err := token.New(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	s := &Sandbox{cfg: cfg, store: store, contract: contract, acc: acc, log: log}
	if err := s.ensureCredentials(); err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sandbox) ensureCredentials() error {
	if s.cfg.CredentialsDir == "" {
		return nil
	}
	path := filepath.Join(s.cfg.CredentialsDir, s.acc.String()+".json")
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	creds, err := keys.NewCredentials(s.acc)
	if err != nil {
		return err
	}
	if _, err := creds.Save(s.cfg.CredentialsDir); err != nil {
		return err
	}
	s.log.Info("sandbox account key created", zap.String("account", s.acc.String()), zap.String("key", creds.PublicKey))
	return nil
}

// Contract returns the underlying contract instance.
func (s *Sandbox) Contract() *token.Contract {
	return s.contract
}

// Account returns the account the sandboxed contract lives on.
func (s *Sandbox) Account() account.ID {
	return s.acc
}

// EnsureInit initializes the contract with default metadata when it
// has no state yet.
func (s *Sandbox) EnsureInit(owner account.ID) error {
	ok, err := s.contract.Initialized()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	s.log.Info("initializing contract", zap.String("owner", owner.String()))
	return s.contract.InitDefault(owner)
}

// Call executes one contract call on behalf of caller and prints its
// log output. The deposit is in yoctoNEAR.
func (s *Sandbox) Call(caller account.ID, deposit *uint256.Int, fn func(env *runtime.Env) error) error {
	receipt := uuid.New()
	env := runtime.NewEnv(s.acc, caller).WithLogger(s.log)
	if deposit != nil {
		env.WithDeposit(deposit)
	}
	err := fn(env)
	for _, line := range env.Logs() {
		fmt.Println(line)
	}
	if err != nil {
		return err
	}
	s.log.Info("receipt done",
		zap.String("receipt_id", receipt.String()),
		zap.String("caller", caller.String()),
		zap.String("refund", env.Refund().Dec()))
	return nil
}

// Close releases the sandbox store.
func (s *Sandbox) Close() error {
	return s.store.Close()
}
