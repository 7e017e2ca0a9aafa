package token

import (
	"testing"

	"github.com/nearlabs/nftoken/pkg/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprove(t *testing.T) {
	c := newTestContract(t)
	mintToken(t, c, "0", aliceAcc)

	id, err := c.Approve(mintEnv(aliceAcc), "0", bobAcc)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	ok, err := c.IsApproved("0", bobAcc, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsApproved("0", bobAcc, &id)
	require.NoError(t, err)
	assert.True(t, ok)

	wrong := id + 1
	ok, err = c.IsApproved("0", bobAcc, &wrong)
	require.NoError(t, err)
	assert.False(t, ok)

	// Approval IDs keep incrementing across re-approvals.
	id2, err := c.Approve(mintEnv(aliceAcc), "0", bobAcc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, id2)
}

func TestApproveChecks(t *testing.T) {
	c := newTestContract(t)
	mintToken(t, c, "0", aliceAcc)

	_, err := c.Approve(callEnv(aliceAcc), "0", bobAcc)
	require.ErrorIs(t, err, runtime.ErrDepositRequired)

	_, err = c.Approve(mintEnv(bobAcc), "0", bobAcc)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = c.Approve(mintEnv(aliceAcc), "0", aliceAcc)
	require.ErrorIs(t, err, ErrSelfTransfer)

	_, err = c.Approve(mintEnv(aliceAcc), "missing", bobAcc)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

// Only the growth of the approvals entry is charged against the
// deposit.
func TestApproveChargesDelta(t *testing.T) {
	c := newTestContract(t)
	mintToken(t, c, "0", aliceAcc)

	_, err := c.Approve(mintEnv(aliceAcc), "0", bobAcc)
	require.NoError(t, err)

	// Re-approving the same account rewrites an entry of the same size,
	// so a 1 yoctoNEAR deposit is enough.
	id, err := c.Approve(yoctoEnv(aliceAcc), "0", bobAcc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, id)

	// A new approver grows the entry, 1 yoctoNEAR does not cover it.
	_, err = c.Approve(yoctoEnv(aliceAcc), "0", ownerAcc)
	require.ErrorIs(t, err, runtime.ErrNotEnoughDeposit)
	ok, err := c.IsApproved("0", ownerAcc, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevoke(t *testing.T) {
	c := newTestContract(t)
	mintToken(t, c, "0", aliceAcc)

	_, err := c.Approve(mintEnv(aliceAcc), "0", bobAcc)
	require.NoError(t, err)
	_, err = c.Approve(mintEnv(aliceAcc), "0", ownerAcc)
	require.NoError(t, err)

	require.ErrorIs(t, c.Revoke(yoctoEnv(bobAcc), "0", bobAcc), ErrNotOwner)

	require.NoError(t, c.Revoke(yoctoEnv(aliceAcc), "0", bobAcc))
	ok, err := c.IsApproved("0", bobAcc, nil)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = c.IsApproved("0", ownerAcc, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// Revoking an absent approval is a no-op.
	require.NoError(t, c.Revoke(yoctoEnv(aliceAcc), "0", bobAcc))
}

func TestRevokeAll(t *testing.T) {
	c := newTestContract(t)
	mintToken(t, c, "0", aliceAcc)

	_, err := c.Approve(mintEnv(aliceAcc), "0", bobAcc)
	require.NoError(t, err)
	_, err = c.Approve(mintEnv(aliceAcc), "0", ownerAcc)
	require.NoError(t, err)

	env := yoctoEnv(aliceAcc)
	require.NoError(t, c.RevokeAll(env, "0"))
	// Dropping the approvals entry refunds its storage.
	assert.False(t, env.Refund().IsZero())

	tok, err := c.Token("0")
	require.NoError(t, err)
	assert.Empty(t, tok.ApprovedAccountIDs)
}
