package deploy

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nearlabs/nftoken/pkg/account"
)

// Keys of the generated environment file.
const (
	EnvContract = "CONTRACT"
	EnvOwnerID  = "OWNER_ID"
)

// devAccountKey is the key the external tool writes the allocated
// account under in neardev/dev-account.env.
const devAccountKey = "CONTRACT_NAME"

// ErrNoDevAccount is returned when the dev-account file has no account
// entry.
var ErrNoDevAccount = errors.New("no dev account entry found")

// WriteEnvFile writes the CONTRACT and OWNER_ID assignments to path,
// replacing any previous content. The file is meant for shell
// source-ing by the operator.
func WriteEnvFile(path string, contract, owner account.ID) error {
	content := fmt.Sprintf("%s=%s\n%s=%s\n", EnvContract, contract, EnvOwnerID, owner)
	return os.WriteFile(path, []byte(content), 0644)
}

// ReadEnvFile reads back the identifiers written by WriteEnvFile.
func ReadEnvFile(path string) (contract, owner account.ID, err error) {
	vars, err := parseEnv(path)
	if err != nil {
		return "", "", err
	}
	contract, err = account.ParseID(vars[EnvContract])
	if err != nil {
		return "", "", fmt.Errorf("bad %s entry: %w", EnvContract, err)
	}
	owner, err = account.ParseID(vars[EnvOwnerID])
	if err != nil {
		return "", "", fmt.Errorf("bad %s entry: %w", EnvOwnerID, err)
	}
	return contract, owner, nil
}

// ReadDevAccount extracts the allocated development account from the
// file the external deployment tool generates.
func ReadDevAccount(path string) (account.ID, error) {
	vars, err := parseEnv(path)
	if err != nil {
		return "", err
	}
	raw, ok := vars[devAccountKey]
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoDevAccount, path)
	}
	id, err := account.ParseID(raw)
	if err != nil {
		return "", fmt.Errorf("bad dev account entry: %w", err)
	}
	return id, nil
}

// parseEnv reads KEY=value lines, skipping blanks and # comments.
func parseEnv(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vars := make(map[string]string)
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"'`)
	}
	return vars, s.Err()
}
