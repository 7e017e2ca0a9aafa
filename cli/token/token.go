// Package token implements CLI commands running contract calls in the
// local sandbox.
package token

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nearlabs/nftoken/cli/options"
	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/nep171"
	"github.com/nearlabs/nftoken/pkg/runtime"
	"github.com/nearlabs/nftoken/pkg/sandbox"
	"github.com/nearlabs/nftoken/pkg/token"
	"github.com/urfave/cli"
)

// oneTenthNEAR is the default deposit of storage-expanding calls.
const oneTenthNEAR = "100000000000000000000000"

var (
	tokenIDFlag = cli.StringFlag{
		Name:  "token-id, t",
		Usage: "token identifier",
	}
	callerFlag = cli.StringFlag{
		Name:  "account-id, a",
		Usage: "account performing the call",
	}
	receiverFlag = cli.StringFlag{
		Name:  "receiver-id, r",
		Usage: "account receiving the token",
	}
	memoFlag = cli.StringFlag{
		Name:  "memo",
		Usage: "optional memo recorded in the event",
	}
	depositYoctoFlag = cli.StringFlag{
		Name:  "deposit",
		Value: "1",
		Usage: "attached deposit in yoctoNEAR",
	}
	depositStorageFlag = cli.StringFlag{
		Name:  "deposit",
		Value: oneTenthNEAR,
		Usage: "attached deposit in yoctoNEAR",
	}
)

// NewCommands returns the 'token' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "token",
		Usage: "run token contract calls in the local sandbox",
		Subcommands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the sandbox contract with default metadata",
				Action: tokenInit,
				Flags:  append([]cli.Flag{callerFlag}, options.Common...),
			},
			{
				Name:   "mint",
				Usage:  "mint a token (contract owner only)",
				Action: tokenMint,
				Flags: append([]cli.Flag{
					tokenIDFlag, callerFlag, receiverFlag, depositStorageFlag,
					cli.StringFlag{
						Name:  "title",
						Usage: "token title metadata",
					},
					cli.StringFlag{
						Name:  "media",
						Usage: "token media URL metadata",
					},
				}, options.Common...),
			},
			{
				Name:   "transfer",
				Usage:  "transfer a token to another account",
				Action: tokenTransfer,
				Flags: append([]cli.Flag{
					tokenIDFlag, callerFlag, receiverFlag, memoFlag, depositYoctoFlag,
					cli.Uint64Flag{
						Name:  "approval-id",
						Usage: "expected approval ID when transferring through an approval",
					},
				}, options.Common...),
			},
			{
				Name:   "burn",
				Usage:  "burn a token",
				Action: tokenBurn,
				Flags:  append([]cli.Flag{tokenIDFlag, callerFlag, depositYoctoFlag}, options.Common...),
			},
			{
				Name:   "approve",
				Usage:  "approve an account to transfer a token",
				Action: tokenApprove,
				Flags:  append([]cli.Flag{tokenIDFlag, callerFlag, receiverFlag, depositStorageFlag}, options.Common...),
			},
			{
				Name:   "revoke",
				Usage:  "revoke an account's approval",
				Action: tokenRevoke,
				Flags:  append([]cli.Flag{tokenIDFlag, callerFlag, receiverFlag, depositYoctoFlag}, options.Common...),
			},
			{
				Name:   "info",
				Usage:  "print the JSON view of a token",
				Action: tokenInfo,
				Flags:  append([]cli.Flag{tokenIDFlag}, options.Common...),
			},
			{
				Name:   "tokens",
				Usage:  "list tokens, optionally of one owner",
				Action: tokenList,
				Flags: append([]cli.Flag{
					cli.StringFlag{
						Name:  "owner",
						Usage: "list only tokens of this account",
					},
					cli.Uint64Flag{
						Name:  "from-index",
						Usage: "enumeration offset",
					},
					cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of tokens to return",
					},
				}, options.Common...),
			},
			{
				Name:   "metadata",
				Usage:  "print the contract metadata",
				Action: tokenMetadata,
				Flags:  options.Common,
			},
		},
	}}
}

func openSandbox(ctx *cli.Context) (*sandbox.Sandbox, error) {
	cfg, log, err := options.Setup(ctx)
	if err != nil {
		return nil, err
	}
	return sandbox.Open(cfg.Sandbox, log)
}

func getCaller(ctx *cli.Context, s *sandbox.Sandbox) (account.ID, error) {
	raw := ctx.String("account-id")
	if raw == "" {
		return s.Account(), nil
	}
	return account.ParseID(raw)
}

func getDeposit(ctx *cli.Context) (*uint256.Int, error) {
	d, err := uint256.FromDecimal(ctx.String("deposit"))
	if err != nil {
		return nil, fmt.Errorf("bad deposit: %w", err)
	}
	return d, nil
}

func requireTokenID(ctx *cli.Context) (string, error) {
	id := ctx.String("token-id")
	if id == "" {
		return "", cli.NewExitError("token ID is mandatory, pass it with the '--token-id' or '-t' flag", 1)
	}
	return id, nil
}

func requireReceiver(ctx *cli.Context) (account.ID, error) {
	raw := ctx.String("receiver-id")
	if raw == "" {
		return "", cli.NewExitError("receiver is mandatory, pass it with the '--receiver-id' or '-r' flag", 1)
	}
	return account.ParseID(raw)
}

func tokenInit(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()
	owner, err := getCaller(ctx, s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if err := s.Contract().InitDefault(owner); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func tokenMint(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	id, err := requireTokenID(ctx)
	if err != nil {
		return err
	}
	caller, err := getCaller(ctx, s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	receiver, err := requireReceiver(ctx)
	if err != nil {
		return err
	}
	deposit, err := getDeposit(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var md *nep171.TokenMetadata
	if title, media := ctx.String("title"), ctx.String("media"); title != "" || media != "" {
		md = new(nep171.TokenMetadata)
		if title != "" {
			md.Title = &title
		}
		if media != "" {
			md.Media = &media
		}
	}
	if err := s.EnsureInit(caller); err != nil {
		return cli.NewExitError(err, 1)
	}
	err = s.Call(caller, deposit, func(env *runtime.Env) error {
		_, err := s.Contract().Mint(env, id, receiver, md)
		return err
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func tokenTransfer(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	id, err := requireTokenID(ctx)
	if err != nil {
		return err
	}
	caller, err := getCaller(ctx, s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	receiver, err := requireReceiver(ctx)
	if err != nil {
		return err
	}
	deposit, err := getDeposit(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var approvalID *uint64
	if ctx.IsSet("approval-id") {
		v := ctx.Uint64("approval-id")
		approvalID = &v
	}
	err = s.Call(caller, deposit, func(env *runtime.Env) error {
		return s.Contract().Transfer(env, receiver, id, approvalID, ctx.String("memo"))
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func tokenBurn(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	id, err := requireTokenID(ctx)
	if err != nil {
		return err
	}
	caller, err := getCaller(ctx, s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	deposit, err := getDeposit(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	err = s.Call(caller, deposit, func(env *runtime.Env) error {
		return s.Contract().Burn(env, id)
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func tokenApprove(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	id, err := requireTokenID(ctx)
	if err != nil {
		return err
	}
	caller, err := getCaller(ctx, s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acct, err := requireReceiver(ctx)
	if err != nil {
		return err
	}
	deposit, err := getDeposit(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	err = s.Call(caller, deposit, func(env *runtime.Env) error {
		approvalID, err := s.Contract().Approve(env, id, acct)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "approval ID: %d\n", approvalID)
		return nil
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func tokenRevoke(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	id, err := requireTokenID(ctx)
	if err != nil {
		return err
	}
	caller, err := getCaller(ctx, s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	acct, err := requireReceiver(ctx)
	if err != nil {
		return err
	}
	deposit, err := getDeposit(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	err = s.Call(caller, deposit, func(env *runtime.Env) error {
		return s.Contract().Revoke(env, id, acct)
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func tokenInfo(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	id, err := requireTokenID(ctx)
	if err != nil {
		return err
	}
	tok, err := s.Contract().Token(id)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if tok == nil {
		return cli.NewExitError(fmt.Errorf("%w: %q", token.ErrTokenNotFound, id), 1)
	}
	return printJSON(ctx, tok)
}

func tokenList(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	var (
		tokens []token.Token
		from   = ctx.Uint64("from-index")
		limit  = ctx.Int("limit")
	)
	if rawOwner := ctx.String("owner"); rawOwner != "" {
		owner, err := account.ParseID(rawOwner)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		tokens, err = s.Contract().TokensForOwner(owner, from, limit)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	} else {
		tokens, err = s.Contract().Tokens(from, limit)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	return printJSON(ctx, tokens)
}

func tokenMetadata(ctx *cli.Context) error {
	s, err := openSandbox(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer s.Close()

	md, err := s.Contract().Metadata()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printJSON(ctx, md)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}
