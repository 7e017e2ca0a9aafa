package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nearlabs/nftoken/pkg/config"
	"github.com/nearlabs/nftoken/pkg/nep171"
	"github.com/nearlabs/nftoken/pkg/runtime"
	"github.com/nearlabs/nftoken/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testSandboxConfig(t *testing.T) config.SandboxConfiguration {
	dir := t.TempDir()
	return config.SandboxConfiguration{
		Database:       storage.DBConfiguration{Type: "boltdb", FilePath: filepath.Join(dir, "nftoken.db")},
		Contract:       "nftoken.sandbox",
		CredentialsDir: filepath.Join(dir, "credentials"),
	}
}

func TestOpenCreatesCredentials(t *testing.T) {
	cfg := testSandboxConfig(t)
	s, err := Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(cfg.CredentialsDir, "nftoken.sandbox.json"))
	require.NoError(t, err)
}

func TestStatePersistsAcrossOpens(t *testing.T) {
	cfg := testSandboxConfig(t)
	log := zaptest.NewLogger(t)

	s, err := Open(cfg, log)
	require.NoError(t, err)
	require.NoError(t, s.EnsureInit("alice.testnet"))
	err = s.Call("alice.testnet", runtime.NEAR(1), func(env *runtime.Env) error {
		_, err := s.Contract().Mint(env, "0", "alice.testnet", nil)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(cfg, log)
	require.NoError(t, err)
	defer s.Close()
	// EnsureInit is a no-op on existing state.
	require.NoError(t, s.EnsureInit("bob.testnet"))
	owner, err := s.Contract().Owner()
	require.NoError(t, err)
	assert.EqualValues(t, "alice.testnet", owner)

	tok, err := s.Contract().Token("0")
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.EqualValues(t, "alice.testnet", tok.OwnerID)
}

func TestCallCollectsEventLogs(t *testing.T) {
	cfg := testSandboxConfig(t)
	s, err := Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureInit("alice.testnet"))

	var logs []string
	err = s.Call("alice.testnet", runtime.NEAR(1), func(env *runtime.Env) error {
		if _, err := s.Contract().Mint(env, "0", "alice.testnet", nil); err != nil {
			return err
		}
		logs = env.Logs()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	_, err = nep171.Parse(logs[0])
	require.NoError(t, err)
}

func TestOpenRejectsBadAccount(t *testing.T) {
	cfg := testSandboxConfig(t)
	cfg.Contract = "Not-Valid"
	_, err := Open(cfg, zaptest.NewLogger(t))
	require.Error(t, err)
}
