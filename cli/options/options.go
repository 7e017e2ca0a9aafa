/*
Package options contains a set of common CLI options and helper
functions to use them.
*/
package options

import (
	"fmt"

	"github.com/nearlabs/nftoken/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Network is a flag for choosing the network configuration to operate
// on.
var Network = cli.StringFlag{
	Name:  "network, n",
	Value: "sandbox",
	Usage: "network to use (sandbox/testnet/mainnet)",
}

// Config is a flag for commands that use the tool configuration.
var Config = cli.StringFlag{
	Name:  "config-path",
	Value: "./config",
	Usage: "path to directory with per-network configuration files",
}

// Debug is a flag enabling debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (LOTS of output, overrides configuration)",
}

// Common is the flag set shared by all commands.
var Common = []cli.Flag{Network, Config, Debug}

// GetConfigFromContext looks at the path and the network flags in the
// given context and returns an appropriate config.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	return config.Load(ctx.String("config-path"), ctx.String("network"))
}

// HandleLoggingParams reads logging parameters. If the user selected
// debug level, the function enables it. If LogPath is configured, the
// function writes log output there.
func HandleLoggingParams(debug bool, cfg config.ApplicationConfiguration) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(cfg.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	if cfg.LogPath != "" {
		cc.OutputPaths = []string{cfg.LogPath}
	}
	return cc.Build()
}

// Setup combines config loading and logger construction for command
// actions.
func Setup(ctx *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
