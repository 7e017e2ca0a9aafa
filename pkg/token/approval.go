package token

import (
	"encoding/json"
	"fmt"

	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/runtime"
)

// Approve grants the given account the right to transfer the token
// (NEP-178). Only the token owner can approve; the attached deposit
// must cover the storage cost of the new approval entry. Approval IDs
// increment per token, starting from 1, so a marketplace can detect
// that an approval it saw was revoked and re-granted. The returned ID
// identifies this approval.
func (c *Contract) Approve(env *runtime.Env, tokenID string, acct account.ID) (uint64, error) {
	if env.AttachedDeposit.IsZero() {
		return 0, runtime.ErrDepositRequired
	}
	owner, err := c.getOwner(tokenID)
	if err != nil {
		return 0, err
	}
	if env.Predecessor != owner {
		return 0, fmt.Errorf("%w: approve called by %q", ErrNotOwner, env.Predecessor)
	}
	if acct == owner {
		return 0, ErrSelfTransfer
	}

	next, err := c.getUint64(nextApprovalKey(tokenID))
	if err != nil {
		return 0, err
	}
	next++

	approvals, err := c.getApprovals(tokenID)
	if err != nil {
		return 0, err
	}
	if approvals == nil {
		approvals = make(map[account.ID]uint64)
	}

	// Only the growth of the approvals entry over its stored size is
	// charged, and the deposit is checked before anything is written.
	k := approvalsKey(tokenID)
	var oldSize uint64
	if v, err := c.store.Get(k); err == nil {
		oldSize = sizeOf(k, v)
	}
	approvals[acct] = next
	v, err := json.Marshal(approvals)
	if err != nil {
		return 0, err
	}
	if newSize := sizeOf(k, v); newSize > oldSize {
		if err := env.ChargeStorage(newSize - oldSize); err != nil {
			return 0, err
		}
	}

	if err := c.putUint64(nextApprovalKey(tokenID), next); err != nil {
		return 0, err
	}
	if err := c.store.Put(k, v); err != nil {
		return 0, err
	}
	return next, nil
}

// Revoke removes the approval of the given account. Owner only, one
// yoctoNEAR required; released storage is refunded.
func (c *Contract) Revoke(env *runtime.Env, tokenID string, acct account.ID) error {
	if err := env.AssertOneYocto(); err != nil {
		return err
	}
	owner, err := c.getOwner(tokenID)
	if err != nil {
		return err
	}
	if env.Predecessor != owner {
		return fmt.Errorf("%w: revoke called by %q", ErrNotOwner, env.Predecessor)
	}
	approvals, err := c.getApprovals(tokenID)
	if err != nil {
		return err
	}
	if _, ok := approvals[acct]; !ok {
		return nil
	}
	delete(approvals, acct)
	if len(approvals) == 0 {
		return c.clearApprovals(env, tokenID)
	}
	_, err = c.putApprovals(tokenID, approvals)
	return err
}

// RevokeAll removes all approvals of the token. Owner only, one
// yoctoNEAR required.
func (c *Contract) RevokeAll(env *runtime.Env, tokenID string) error {
	if err := env.AssertOneYocto(); err != nil {
		return err
	}
	owner, err := c.getOwner(tokenID)
	if err != nil {
		return err
	}
	if env.Predecessor != owner {
		return fmt.Errorf("%w: revoke_all called by %q", ErrNotOwner, env.Predecessor)
	}
	return c.clearApprovals(env, tokenID)
}

// IsApproved reports whether the account may transfer the token, with
// an optional exact approval ID check (NEP-178 nft_is_approved).
func (c *Contract) IsApproved(tokenID string, acct account.ID, approvalID *uint64) (bool, error) {
	if _, err := c.getOwner(tokenID); err != nil {
		return false, err
	}
	approvals, err := c.getApprovals(tokenID)
	if err != nil {
		return false, err
	}
	id, ok := approvals[acct]
	if !ok {
		return false, nil
	}
	if approvalID != nil && *approvalID != id {
		return false, nil
	}
	return true, nil
}

// clearApprovals drops the approvals entry of the token, refunding its
// storage through the env.
func (c *Contract) clearApprovals(env *runtime.Env, tokenID string) error {
	k := approvalsKey(tokenID)
	v, err := c.store.Get(k)
	if err != nil {
		return nil // nothing stored
	}
	env.ReleaseStorage(sizeOf(k, v))
	return c.store.Delete(k)
}
