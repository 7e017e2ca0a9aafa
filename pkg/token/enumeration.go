package token

import (
	"github.com/nearlabs/nftoken/pkg/account"
)

// TotalSupply returns the number of tokens tracked by the contract
// (NEP-181 nft_total_supply).
func (c *Contract) TotalSupply() (uint64, error) {
	return c.supply()
}

// Tokens returns token views starting at the given offset in token ID
// order (NEP-181 nft_tokens). A non-positive limit means no limit.
func (c *Contract) Tokens(fromIndex uint64, limit int) ([]Token, error) {
	var ids []string
	var idx uint64
	c.store.Seek([]byte{prefixOwner}, func(k, v []byte) bool {
		if idx >= fromIndex {
			ids = append(ids, string(k[1:]))
		}
		idx++
		return limit <= 0 || len(ids) < limit
	})
	return c.views(ids)
}

// SupplyForOwner returns the number of tokens held by the account
// (NEP-181 nft_supply_for_owner).
func (c *Contract) SupplyForOwner(owner account.ID) (uint64, error) {
	var n uint64
	c.store.Seek(ownerIndexPrefix(owner), func(k, v []byte) bool {
		n++
		return true
	})
	return n, nil
}

// TokensForOwner returns views of the tokens held by the account,
// starting at the given offset in token ID order (NEP-181
// nft_tokens_for_owner). A non-positive limit means no limit.
func (c *Contract) TokensForOwner(owner account.ID, fromIndex uint64, limit int) ([]Token, error) {
	pfxLen := len(ownerIndexPrefix(owner))
	var ids []string
	var idx uint64
	c.store.Seek(ownerIndexPrefix(owner), func(k, v []byte) bool {
		if idx >= fromIndex {
			ids = append(ids, string(k[pfxLen:]))
		}
		idx++
		return limit <= 0 || len(ids) < limit
	})
	return c.views(ids)
}

func (c *Contract) views(ids []string) ([]Token, error) {
	tokens := make([]Token, 0, len(ids))
	for _, id := range ids {
		t, err := c.Token(id)
		if err != nil {
			return nil, err
		}
		if t != nil {
			tokens = append(tokens, *t)
		}
	}
	return tokens, nil
}
