/*
Package token implements a NEAR-style non-fungible token contract:
NEP-171 core transfers, NEP-177 metadata, NEP-178 approvals and
NEP-181 enumeration, with NEP-171 event emission on every state
change. State lives in a storage.Store, calls execute against a
runtime.Env carrying the caller, deposit and gas budget.
*/
package token

import (
	"encoding/json"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/nep171"
	"github.com/nearlabs/nftoken/pkg/runtime"
	"github.com/nearlabs/nftoken/pkg/storage"
)

// metaCacheSize bounds the per-contract token metadata cache.
const metaCacheSize = 256

// Contract state and authorization errors.
var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("contract is not initialized")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenExists        = errors.New("token already exists")
	ErrNotContractOwner   = errors.New("only the contract owner can do this")
	ErrNotOwner           = errors.New("only the token owner can do this")
	ErrNotApproved        = errors.New("sender is not approved to transfer the token")
	ErrSelfTransfer       = errors.New("current and next owner must differ")
	ErrEmptyTokenID       = errors.New("token ID must not be empty")
)

// Token is the JSON view of a single token.
type Token struct {
	TokenID            string                `json:"token_id"`
	OwnerID            account.ID            `json:"owner_id"`
	Metadata           *nep171.TokenMetadata `json:"metadata,omitempty"`
	ApprovedAccountIDs map[account.ID]uint64 `json:"approved_account_ids"`
}

// Receiver is the contract-side hook of nft_transfer_call. It returns
// true if the token should be returned to the previous owner.
type Receiver interface {
	OnNFTTransfer(sender, previousOwner account.ID, tokenID, msg string) (bool, error)
}

// Contract is a non-fungible token contract instance over a KV store.
type Contract struct {
	store     storage.Store
	metaCache *lru.Cache
}

// New creates a contract over the given store. The store may already
// hold contract state, Init is only needed for a fresh one.
func New(store storage.Store) (*Contract, error) {
	cache, err := lru.New(metaCacheSize)
	if err != nil {
		return nil, err
	}
	return &Contract{store: store, metaCache: cache}, nil
}

// Initialized reports whether the contract state exists.
func (c *Contract) Initialized() (bool, error) {
	_, err := c.store.Get(mkKey(prefixContractOwner))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Init writes the initial contract state: the owning account and the
// contract metadata. It fails on an already initialized contract.
func (c *Contract) Init(owner account.ID, md nep171.ContractMetadata) error {
	ok, err := c.Initialized()
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyInitialized
	}
	if err := md.Validate(); err != nil {
		return err
	}
	if err := c.store.Put(mkKey(prefixContractOwner), []byte(owner)); err != nil {
		return err
	}
	v, err := json.Marshal(md)
	if err != nil {
		return err
	}
	return c.store.Put(mkKey(prefixContractMeta), v)
}

// InitDefault initializes the contract with the example metadata.
func (c *Contract) InitDefault(owner account.ID) error {
	return c.Init(owner, nep171.DefaultContractMetadata())
}

// Owner returns the contract owning account.
func (c *Contract) Owner() (account.ID, error) {
	v, err := c.store.Get(mkKey(prefixContractOwner))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", ErrNotInitialized
	}
	if err != nil {
		return "", err
	}
	return account.ID(v), nil
}

// Metadata returns the NEP-177 contract metadata.
func (c *Contract) Metadata() (nep171.ContractMetadata, error) {
	v, err := c.store.Get(mkKey(prefixContractMeta))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nep171.ContractMetadata{}, ErrNotInitialized
	}
	if err != nil {
		return nep171.ContractMetadata{}, err
	}
	var md nep171.ContractMetadata
	if err := json.Unmarshal(v, &md); err != nil {
		return nep171.ContractMetadata{}, fmt.Errorf("corrupted contract metadata: %w", err)
	}
	return md, nil
}

// Mint creates a token owned by receiver. Only the contract owner can
// mint, and the attached deposit must cover the storage cost of the
// new token.
func (c *Contract) Mint(env *runtime.Env, tokenID string, receiver account.ID, md *nep171.TokenMetadata) (*Token, error) {
	if tokenID == "" {
		return nil, ErrEmptyTokenID
	}
	owner, err := c.Owner()
	if err != nil {
		return nil, err
	}
	if env.Predecessor != owner {
		return nil, fmt.Errorf("%w: mint called by %q", ErrNotContractOwner, env.Predecessor)
	}
	if md != nil {
		if err := md.Validate(); err != nil {
			return nil, err
		}
	}
	if _, err := c.getOwner(tokenID); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrTokenExists, tokenID)
	} else if !errors.Is(err, ErrTokenNotFound) {
		return nil, err
	}

	// Check the deposit against the full entry sizes before writing
	// anything, a rejected mint must not leave state behind.
	okey := ownerKey(tokenID)
	ik := ownerIndexKey(receiver, tokenID)
	written := sizeOf(okey, []byte(receiver)) + sizeOf(ik, nil)
	var mv []byte
	if md != nil {
		var err error
		mv, err = json.Marshal(md)
		if err != nil {
			return nil, err
		}
		written += sizeOf(tokenMetaKey(tokenID), mv)
	}
	if err := env.ChargeStorage(written); err != nil {
		return nil, err
	}

	if err := c.store.Put(okey, []byte(receiver)); err != nil {
		return nil, err
	}
	if md != nil {
		if err := c.store.Put(tokenMetaKey(tokenID), mv); err != nil {
			return nil, err
		}
		c.metaCache.Add(tokenID, md)
	}
	if err := c.store.Put(ik, nil); err != nil {
		return nil, err
	}
	if err := c.addSupply(1); err != nil {
		return nil, err
	}

	env.EmitEvent(nep171.MintEvent(nep171.MintData{
		OwnerID:  receiver,
		TokenIDs: []string{tokenID},
	}))
	return &Token{
		TokenID:            tokenID,
		OwnerID:            receiver,
		Metadata:           md,
		ApprovedAccountIDs: map[account.ID]uint64{},
	}, nil
}

// internalTransfer moves the token from its current owner to receiver
// after checking that sender is allowed to do that. It clears token
// approvals and returns the previous owner along with the authorized
// account when the transfer was performed through an approval.
func (c *Contract) internalTransfer(env *runtime.Env, sender, receiver account.ID, tokenID string, approvalID *uint64) (account.ID, account.ID, error) {
	owner, err := c.getOwner(tokenID)
	if err != nil {
		return "", "", err
	}
	if receiver == owner {
		return "", "", ErrSelfTransfer
	}

	var authorized account.ID
	if sender != owner {
		approvals, err := c.getApprovals(tokenID)
		if err != nil {
			return "", "", err
		}
		id, ok := approvals[sender]
		if !ok {
			return "", "", fmt.Errorf("%w: %q", ErrNotApproved, sender)
		}
		if approvalID != nil && *approvalID != id {
			return "", "", fmt.Errorf("%w: approval ID %d does not match %d", ErrNotApproved, *approvalID, id)
		}
		authorized = sender
	}

	if err := c.clearApprovals(env, tokenID); err != nil {
		return "", "", err
	}
	if err := c.store.Delete(ownerIndexKey(owner, tokenID)); err != nil {
		return "", "", err
	}
	if err := c.store.Put(ownerKey(tokenID), []byte(receiver)); err != nil {
		return "", "", err
	}
	if err := c.store.Put(ownerIndexKey(receiver, tokenID), nil); err != nil {
		return "", "", err
	}
	return owner, authorized, nil
}

// Transfer moves a token to receiver. The caller must be the owner or
// hold a matching approval, and must attach exactly 1 yoctoNEAR.
func (c *Contract) Transfer(env *runtime.Env, receiver account.ID, tokenID string, approvalID *uint64, memo string) error {
	if err := env.AssertOneYocto(); err != nil {
		return err
	}
	oldOwner, authorized, err := c.internalTransfer(env, env.Predecessor, receiver, tokenID, approvalID)
	if err != nil {
		return err
	}
	env.EmitEvent(nep171.TransferEvent(nep171.TransferData{
		OldOwnerID:   oldOwner,
		NewOwnerID:   receiver,
		TokenIDs:     []string{tokenID},
		AuthorizedID: authorized,
		Memo:         memo,
	}))
	return nil
}

// TransferCall transfers the token and invokes the receiver hook, then
// resolves the transfer: when the hook asks for the token back (or
// fails) and the receiver still holds it untouched, the token returns
// to the previous owner. It reports whether the receiver kept the
// token.
func (c *Contract) TransferCall(env *runtime.Env, receiver account.ID, tokenID string, approvalID *uint64, memo, msg string, recv Receiver) (bool, error) {
	if err := env.AssertOneYocto(); err != nil {
		return false, err
	}
	if err := env.AssertGas(runtime.GasForTransferCall); err != nil {
		return false, err
	}
	sender := env.Predecessor
	oldOwner, authorized, err := c.internalTransfer(env, sender, receiver, tokenID, approvalID)
	if err != nil {
		return false, err
	}
	env.EmitEvent(nep171.TransferEvent(nep171.TransferData{
		OldOwnerID:   oldOwner,
		NewOwnerID:   receiver,
		TokenIDs:     []string{tokenID},
		AuthorizedID: authorized,
		Memo:         memo,
	}))

	returnToken, hookErr := recv.OnNFTTransfer(sender, oldOwner, tokenID, msg)
	if hookErr == nil && !returnToken {
		return true, nil
	}

	// Resolve: give the token back only if the receiver still owns it.
	cur, err := c.getOwner(tokenID)
	if errors.Is(err, ErrTokenNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	if cur != receiver {
		return true, nil
	}
	if err := c.clearApprovals(env, tokenID); err != nil {
		return true, err
	}
	if err := c.store.Delete(ownerIndexKey(receiver, tokenID)); err != nil {
		return true, err
	}
	if err := c.store.Put(ownerKey(tokenID), []byte(oldOwner)); err != nil {
		return true, err
	}
	if err := c.store.Put(ownerIndexKey(oldOwner, tokenID), nil); err != nil {
		return true, err
	}
	env.EmitEvent(nep171.TransferEvent(nep171.TransferData{
		OldOwnerID: receiver,
		NewOwnerID: oldOwner,
		TokenIDs:   []string{tokenID},
	}))
	return false, nil
}

// Burn removes a token. The caller must be the owner or hold an
// approval, and must attach exactly 1 yoctoNEAR. Released storage is
// refunded through the env.
func (c *Contract) Burn(env *runtime.Env, tokenID string) error {
	if err := env.AssertOneYocto(); err != nil {
		return err
	}
	owner, err := c.getOwner(tokenID)
	if err != nil {
		return err
	}
	sender := env.Predecessor
	var authorized account.ID
	if sender != owner {
		approvals, err := c.getApprovals(tokenID)
		if err != nil {
			return err
		}
		if _, ok := approvals[sender]; !ok {
			return fmt.Errorf("%w: %q", ErrNotApproved, sender)
		}
		authorized = sender
	}

	if err := c.clearApprovals(env, tokenID); err != nil {
		return err
	}
	okey := ownerKey(tokenID)
	env.ReleaseStorage(sizeOf(okey, []byte(owner)))
	if err := c.store.Delete(okey); err != nil {
		return err
	}
	mk := tokenMetaKey(tokenID)
	if v, err := c.store.Get(mk); err == nil {
		env.ReleaseStorage(sizeOf(mk, v))
		if err := c.store.Delete(mk); err != nil {
			return err
		}
	}
	c.metaCache.Remove(tokenID)
	ik := ownerIndexKey(owner, tokenID)
	env.ReleaseStorage(sizeOf(ik, nil))
	if err := c.store.Delete(ik); err != nil {
		return err
	}
	if err := c.store.Delete(nextApprovalKey(tokenID)); err != nil {
		return err
	}
	if err := c.addSupply(-1); err != nil {
		return err
	}

	env.EmitEvent(nep171.BurnEvent(nep171.BurnData{
		OwnerID:      owner,
		TokenIDs:     []string{tokenID},
		AuthorizedID: authorized,
	}))
	return nil
}

// Token returns the view of a single token or nil when it does not
// exist.
func (c *Contract) Token(tokenID string) (*Token, error) {
	owner, err := c.getOwner(tokenID)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	md, err := c.getTokenMeta(tokenID)
	if err != nil {
		return nil, err
	}
	approvals, err := c.getApprovals(tokenID)
	if err != nil {
		return nil, err
	}
	if approvals == nil {
		approvals = map[account.ID]uint64{}
	}
	return &Token{
		TokenID:            tokenID,
		OwnerID:            owner,
		Metadata:           md,
		ApprovedAccountIDs: approvals,
	}, nil
}
