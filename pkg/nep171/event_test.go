package nep171

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventString(t *testing.T) {
	ev := MintEvent(MintData{
		OwnerID:  "alice.testnet",
		TokenIDs: []string{"0"},
	})
	require.Equal(t,
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_mint","data":[{"owner_id":"alice.testnet","token_ids":["0"]}]}`,
		ev.String())

	ev = TransferEvent(TransferData{
		OldOwnerID: "alice.testnet",
		NewOwnerID: "bob.testnet",
		TokenIDs:   []string{"0"},
	})
	require.Equal(t,
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_transfer","data":[{"old_owner_id":"alice.testnet","new_owner_id":"bob.testnet","token_ids":["0"]}]}`,
		ev.String())

	ev = BurnEvent(BurnData{
		OwnerID:  "bob.testnet",
		TokenIDs: []string{"0"},
	})
	require.Equal(t,
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_burn","data":[{"owner_id":"bob.testnet","token_ids":["0"]}]}`,
		ev.String())
}

func TestEventOptionalFields(t *testing.T) {
	ev := TransferEvent(TransferData{
		OldOwnerID:   "alice.testnet",
		NewOwnerID:   "bob.testnet",
		TokenIDs:     []string{"1"},
		AuthorizedID: "market.testnet",
		Memo:         "sold",
	})
	require.Equal(t,
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_transfer","data":[{"old_owner_id":"alice.testnet","new_owner_id":"bob.testnet","token_ids":["1"],"authorized_id":"market.testnet","memo":"sold"}]}`,
		ev.String())
}

func TestParseRoundTrip(t *testing.T) {
	events := []Event{
		MintEvent(MintData{OwnerID: "alice.testnet", TokenIDs: []string{"0"}, Memo: "genesis"}),
		TransferEvent(TransferData{OldOwnerID: "alice.testnet", NewOwnerID: "bob.testnet", TokenIDs: []string{"0"}}),
		BurnEvent(BurnData{OwnerID: "bob.testnet", TokenIDs: []string{"0"}, AuthorizedID: "market.testnet"}),
	}
	for _, ev := range events {
		got, err := Parse(ev.String())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		line string
		err  error
	}{
		{"no prefix", `{"standard":"nep171","version":"1.0.0","event":"nft_mint","data":[]}`, ErrNoPrefix},
		{"not json", `EVENT_JSON:{`, nil},
		{"not an object", `EVENT_JSON:[1,2]`, ErrBadEventKeys},
		{"missing key", `EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_mint"}`, ErrBadEventKeys},
		{"extra key", `EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_mint","data":[],"x":1}`, ErrBadEventKeys},
		{"wrong order", `EVENT_JSON:{"version":"1.0.0","standard":"nep171","event":"nft_mint","data":[]}`, ErrBadEventKeys},
		{"wrong standard", `EVENT_JSON:{"standard":"nep245","version":"1.0.0","event":"nft_mint","data":[]}`, ErrWrongStandard},
		{"unknown event", `EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_update","data":[]}`, ErrUnknownEvent},
		{"data not array", `EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_mint","data":{}}`, ErrBadEventData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.line)
			require.Error(t, err)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
			}
		})
	}
}

// The documented example log lines for the three contract calls.
func TestDocumentedFixtures(t *testing.T) {
	fixtures := []string{
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_mint","data":[{"owner_id":"dev-1640000000000-12345678","token_ids":["0"]}]}`,
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_transfer","data":[{"old_owner_id":"dev-1640000000000-12345678","new_owner_id":"owner.dev-1640000000000-12345678","token_ids":["0"]}]}`,
		`EVENT_JSON:{"standard":"nep171","version":"1.0.0","event":"nft_burn","data":[{"owner_id":"owner.dev-1640000000000-12345678","token_ids":["0"]}]}`,
	}
	for _, line := range fixtures {
		ev, err := Parse(line)
		require.NoError(t, err)
		assert.Equal(t, Standard, ev.Standard)
		assert.Equal(t, Version, ev.Version)
		assert.Equal(t, line, ev.String())
	}
}
