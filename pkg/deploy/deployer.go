package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/config"
	"go.uber.org/zap"
)

// devAccountFile is the name of the account metadata file the external
// tool writes inside its dev directory.
const devAccountFile = "dev-account.env"

// Result holds the account identifiers of a finished deploy.
type Result struct {
	Contract account.ID
	Owner    account.ID
}

// Deployer performs a clean deploy to a network: build, dev-deploy
// through the external CLI, derive and fund the owner sub-account and
// persist both identifiers for the operator. There is no rollback: a
// failed step leaves whatever earlier steps produced, and a re-run
// starts over from scratch with a fresh dev account.
type Deployer struct {
	cfg config.Config
	b   *Builder
	run Runner
	log *zap.Logger
}

// NewDeployer creates a Deployer around the given Builder.
func NewDeployer(cfg config.Config, b *Builder, run Runner, log *zap.Logger) *Deployer {
	return &Deployer{cfg: cfg, b: b, run: run, log: log}
}

// Deploy runs the whole pipeline. Each step is fatal on failure. With
// init set, the contract is additionally initialized with the default
// metadata after the owner account is created.
func (d *Deployer) Deploy(ctx context.Context, init bool) (Result, error) {
	dcfg := d.cfg.Deploy

	// Steps 1-2: clean build.
	if err := os.RemoveAll(d.cfg.Build.OutDir); err != nil {
		return Result{}, err
	}
	wasm, err := d.b.Build(ctx)
	if err != nil {
		return Result{}, err
	}

	// Step 3: drop artifacts of any previous deploy.
	if err := os.RemoveAll(dcfg.EnvFile); err != nil {
		return Result{}, err
	}
	if err := os.RemoveAll(dcfg.DevDir); err != nil {
		return Result{}, err
	}

	// Step 4: the external tool allocates a fresh dev account and
	// deploys the binary to it.
	if err := d.run.Run(ctx, "", dcfg.NearCLI, "dev-deploy", "--wasmFile", wasm); err != nil {
		return Result{}, fmt.Errorf("dev-deploy failed: %w", err)
	}

	// Steps 5-6: pick up the allocated account, derive the owner.
	contract, err := ReadDevAccount(filepath.Join(dcfg.DevDir, devAccountFile))
	if err != nil {
		return Result{}, err
	}
	owner, err := account.SubAccount(contract, dcfg.OwnerLabel)
	if err != nil {
		return Result{}, err
	}

	// Step 7: persist both identifiers for later shell source-ing.
	if err := WriteEnvFile(dcfg.EnvFile, contract, owner); err != nil {
		return Result{}, err
	}
	d.log.Info("deployed", zap.String("contract", contract.String()), zap.String("owner", owner.String()))

	// Step 8: create and fund the owner sub-account on-chain.
	err = d.run.Run(ctx, "", dcfg.NearCLI, "create-account", owner.String(),
		"--masterAccount", contract.String(),
		"--initialBalance", strconv.FormatUint(dcfg.InitialBalance, 10))
	if err != nil {
		return Result{}, fmt.Errorf("owner account creation failed: %w", err)
	}

	if init {
		args := fmt.Sprintf(`{"owner_id": %q}`, owner)
		err = d.run.Run(ctx, "", dcfg.NearCLI, "call", contract.String(), "new_default_meta", args,
			"--accountId", contract.String())
		if err != nil {
			return Result{}, fmt.Errorf("contract initialization failed: %w", err)
		}
	}
	return Result{Contract: contract, Owner: owner}, nil
}
