package nep171

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestContractMetadataValidate(t *testing.T) {
	md := DefaultContractMetadata()
	require.NoError(t, md.Validate())

	md.Spec = "nft-2.0.0"
	assert.ErrorIs(t, md.Validate(), ErrBadMetadataSpec)

	md = DefaultContractMetadata()
	md.Symbol = ""
	assert.ErrorIs(t, md.Validate(), ErrEmptyMetadata)

	md = DefaultContractMetadata()
	md.ReferenceHash = strptr("aGFzaA==")
	assert.ErrorIs(t, md.Validate(), ErrUnpairedHash)

	md.Reference = strptr("https://example.com/meta.json")
	assert.ErrorIs(t, md.Validate(), ErrBadHashLength)

	md.ReferenceHash = strptr("featVRWDTLJsYkUAm2zcraGPT8dyTB25diT2DduN1VE=")
	require.NoError(t, md.Validate())
}

func TestTokenMetadataValidate(t *testing.T) {
	var md TokenMetadata
	require.NoError(t, md.Validate())

	md.Title = strptr("Olympus Mons")
	md.MediaHash = strptr("featVRWDTLJsYkUAm2zraGPT8dyTB25diT2DduN1VE==")
	assert.ErrorIs(t, md.Validate(), ErrUnpairedHash)

	md.Media = strptr("https://example.com/olympus.png")
	require.NoError(t, md.Validate())
}
