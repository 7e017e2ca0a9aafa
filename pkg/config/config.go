/*
Package config holds the YAML-driven configuration of the nftoken CLI:
how to build the wasm artifact, how to deploy it to a network and
where the local sandbox keeps its state.
*/
package config

import (
	"fmt"
	"os"

	"github.com/nearlabs/nftoken/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Version is the version of the tool, set at build time.
var Version = "dev"

// Config is the top level struct representing the config for the tool.
type Config struct {
	Network                  string                   `yaml:"Network"`
	Build                    BuildConfiguration       `yaml:"Build"`
	Deploy                   DeployConfiguration      `yaml:"Deploy"`
	Sandbox                  SandboxConfiguration     `yaml:"Sandbox"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// BuildConfiguration describes how the wasm artifact is produced.
// Command and StripCommand are full command lines run in WorkDir,
// Artifact is the compiler output path relative to WorkDir and
// OutDir/OutName is where the Builder puts the final binary.
type BuildConfiguration struct {
	WorkDir      string `yaml:"WorkDir"`
	Command      string `yaml:"Command"`
	StripCommand string `yaml:"StripCommand"`
	Artifact     string `yaml:"Artifact"`
	OutDir       string `yaml:"OutDir"`
	OutName      string `yaml:"OutName"`
}

// DeployConfiguration describes the external deployment tooling.
type DeployConfiguration struct {
	// NearCLI is the name of the external network CLI on the PATH.
	NearCLI string `yaml:"NearCLI"`
	// EnvFile is where the deployed account identifiers are written.
	EnvFile string `yaml:"EnvFile"`
	// DevDir is the directory the external tool keeps dev-account
	// metadata in.
	DevDir string `yaml:"DevDir"`
	// OwnerLabel is the sub-account label of the derived owner account.
	OwnerLabel string `yaml:"OwnerLabel"`
	// InitialBalance is the owner account funding in whole NEAR.
	InitialBalance uint64 `yaml:"InitialBalance"`
}

// SandboxConfiguration describes the local contract sandbox.
type SandboxConfiguration struct {
	Database storage.DBConfiguration `yaml:"Database"`
	// Contract is the account the sandboxed contract lives on.
	Contract string `yaml:"Contract"`
	// CredentialsDir is where sandbox account keys are kept.
	CredentialsDir string `yaml:"CredentialsDir"`
}

// ApplicationConfiguration holds the logging settings.
type ApplicationConfiguration struct {
	LogLevel string `yaml:"LogLevel"`
	LogPath  string `yaml:"LogPath"`
}

// DefaultConfig returns the built-in configuration for the given
// network.
func DefaultConfig(network string) Config {
	return Config{
		Network: network,
		Build: BuildConfiguration{
			WorkDir:  "contract",
			Command:  "cargo build --target wasm32-unknown-unknown --release",
			Artifact: "target/wasm32-unknown-unknown/release/non_fungible_token.wasm",
			OutDir:   "out",
			OutName:  "main.wasm",
		},
		Deploy: DeployConfiguration{
			NearCLI:        "near",
			EnvFile:        ".env",
			DevDir:         "neardev",
			OwnerLabel:     "owner",
			InitialBalance: 20,
		},
		Sandbox: SandboxConfiguration{
			Database: storage.DBConfiguration{
				Type:     "boltdb",
				FilePath: "sandbox/nftoken.db",
			},
			Contract:       "nftoken.sandbox",
			CredentialsDir: "sandbox/credentials",
		},
	}
}

// Load attempts to load the config from the given path for the given
// network, filling in defaults for everything the file leaves unset.
func Load(path, network string) (Config, error) {
	configPath := fmt.Sprintf("%s/nftoken.%s.yml", path, network)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No file for this network, defaults apply.
		return DefaultConfig(network), nil
	}
	return LoadFile(configPath, network)
}

// LoadFile loads the config from the given file.
func LoadFile(configPath, network string) (Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	config := DefaultConfig(network)
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return Config{}, fmt.Errorf("problem unmarshaling config data: %w", err)
	}
	return config, nil
}
