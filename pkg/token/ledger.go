package token

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nearlabs/nftoken/pkg/account"
	"github.com/nearlabs/nftoken/pkg/nep171"
	"github.com/nearlabs/nftoken/pkg/storage"
)

// Key prefixes for contract state. Per-owner index keys hash the
// account ID to keep key length bounded regardless of account name
// length.
const (
	prefixOwner        byte = 0x01 // + token ID -> owner account ID
	prefixTokenMeta    byte = 0x02 // + token ID -> token metadata JSON
	prefixOwnerIndex   byte = 0x03 // + sha256(owner) + token ID -> nil
	prefixApprovals    byte = 0x04 // + token ID -> approvals JSON
	prefixNextApproval byte = 0x05 // + token ID -> big-endian uint64

	prefixContractMeta  byte = 0x10
	prefixContractOwner byte = 0x11
	prefixSupply        byte = 0x12
)

func mkKey(prefix byte, parts ...[]byte) []byte {
	k := []byte{prefix}
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

func ownerKey(tokenID string) []byte     { return mkKey(prefixOwner, []byte(tokenID)) }
func tokenMetaKey(tokenID string) []byte { return mkKey(prefixTokenMeta, []byte(tokenID)) }
func approvalsKey(tokenID string) []byte { return mkKey(prefixApprovals, []byte(tokenID)) }
func nextApprovalKey(tokenID string) []byte {
	return mkKey(prefixNextApproval, []byte(tokenID))
}

func ownerHash(owner account.ID) []byte {
	h := sha256.Sum256([]byte(owner))
	return h[:]
}

func ownerIndexKey(owner account.ID, tokenID string) []byte {
	return mkKey(prefixOwnerIndex, ownerHash(owner), []byte(tokenID))
}

func ownerIndexPrefix(owner account.ID) []byte {
	return mkKey(prefixOwnerIndex, ownerHash(owner))
}

// getOwner returns the owner of the given token or ErrTokenNotFound.
func (c *Contract) getOwner(tokenID string) (account.ID, error) {
	v, err := c.store.Get(ownerKey(tokenID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: %q", ErrTokenNotFound, tokenID)
	}
	if err != nil {
		return "", err
	}
	return account.ID(v), nil
}

func (c *Contract) getTokenMeta(tokenID string) (*nep171.TokenMetadata, error) {
	if md, ok := c.metaCache.Get(tokenID); ok {
		return md.(*nep171.TokenMetadata), nil
	}
	v, err := c.store.Get(tokenMetaKey(tokenID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	md := new(nep171.TokenMetadata)
	if err := json.Unmarshal(v, md); err != nil {
		return nil, fmt.Errorf("corrupted metadata of %q: %w", tokenID, err)
	}
	c.metaCache.Add(tokenID, md)
	return md, nil
}

// getApprovals returns the approvals of the token, nil when there are
// none.
func (c *Contract) getApprovals(tokenID string) (map[account.ID]uint64, error) {
	v, err := c.store.Get(approvalsKey(tokenID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m map[account.ID]uint64
	if err := json.Unmarshal(v, &m); err != nil {
		return nil, fmt.Errorf("corrupted approvals of %q: %w", tokenID, err)
	}
	return m, nil
}

func (c *Contract) putApprovals(tokenID string, m map[account.ID]uint64) (int, error) {
	v, err := json.Marshal(m)
	if err != nil {
		return 0, err
	}
	k := approvalsKey(tokenID)
	return len(k) + len(v), c.store.Put(k, v)
}

func (c *Contract) getUint64(key []byte) (uint64, error) {
	v, err := c.store.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, errors.New("corrupted counter value")
	}
	return binary.BigEndian.Uint64(v), nil
}

func (c *Contract) putUint64(key []byte, n uint64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, n)
	return c.store.Put(key, v)
}

func (c *Contract) supply() (uint64, error) {
	return c.getUint64(mkKey(prefixSupply))
}

func (c *Contract) addSupply(delta int64) error {
	n, err := c.supply()
	if err != nil {
		return err
	}
	return c.putUint64(mkKey(prefixSupply), uint64(int64(n)+delta))
}

// sizeOf is the storage accounting size of a KV entry.
func sizeOf(k []byte, v []byte) uint64 {
	return uint64(len(k) + len(v))
}
