package nep171

import (
	"errors"
	"fmt"
)

// MetadataSpec is the required value of the ContractMetadata Spec field.
const MetadataSpec = "nft-1.0.0"

// defaultIcon is the inlined NEAR logo used by the example metadata.
const defaultIcon = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 288 288'%3E%3Cg id='l' data-name='l'%3E%3Cpath d='M187.58,79.81l-30.1,44.69a3.2,3.2,0,0,0,4.75,4.2L191.86,103a1.2,1.2,0,0,1,2,.91v80.46a1.2,1.2,0,0,1-2.12.77L102.18,77.93A15.35,15.35,0,0,0,90.47,72.5H87.34A15.34,15.34,0,0,0,72,87.84V201.16A15.34,15.34,0,0,0,87.34,216.5h0a15.35,15.35,0,0,0,13.08-7.31l30.1-44.69a3.2,3.2,0,0,0-4.75-4.2L96.14,186a1.2,1.2,0,0,1-2-.91V104.61a1.2,1.2,0,0,1,2.12-.77l89.55,107.23a15.35,15.35,0,0,0,11.71,5.43h3.13A15.34,15.34,0,0,0,216,201.16V87.84A15.34,15.34,0,0,0,200.66,72.5h0A15.35,15.35,0,0,0,187.58,79.81Z'/%3E%3C/g%3E%3C/svg%3E"

// Metadata validation errors.
var (
	ErrBadMetadataSpec = errors.New("metadata spec mismatch")
	ErrEmptyMetadata   = errors.New("metadata name and symbol are required")
	ErrUnpairedHash    = errors.New("hash field requires its content field")
	ErrBadHashLength   = errors.New("hash field must be 32 bytes, base64-encoded")
)

// ContractMetadata describes the whole contract (NEP-177).
type ContractMetadata struct {
	Spec          string  `json:"spec" yaml:"Spec"`
	Name          string  `json:"name" yaml:"Name"`
	Symbol        string  `json:"symbol" yaml:"Symbol"`
	Icon          *string `json:"icon,omitempty" yaml:"Icon,omitempty"`
	BaseURI       *string `json:"base_uri,omitempty" yaml:"BaseURI,omitempty"`
	Reference     *string `json:"reference,omitempty" yaml:"Reference,omitempty"`
	ReferenceHash *string `json:"reference_hash,omitempty" yaml:"ReferenceHash,omitempty"`
}

// DefaultContractMetadata returns the example metadata used when a
// contract is initialized without an explicit one.
func DefaultContractMetadata() ContractMetadata {
	icon := defaultIcon
	return ContractMetadata{
		Spec:   MetadataSpec,
		Name:   "Example NEAR non-fungible token",
		Symbol: "EXAMPLE",
		Icon:   &icon,
	}
}

// Validate checks the required fields and hash/content pairing.
func (m ContractMetadata) Validate() error {
	if m.Spec != MetadataSpec {
		return fmt.Errorf("%w: want %q, got %q", ErrBadMetadataSpec, MetadataSpec, m.Spec)
	}
	if m.Name == "" || m.Symbol == "" {
		return ErrEmptyMetadata
	}
	return checkHashPair(m.Reference, m.ReferenceHash, "reference")
}

// TokenMetadata describes a single token (NEP-177). All fields are
// optional.
type TokenMetadata struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Media         *string `json:"media,omitempty"`
	MediaHash     *string `json:"media_hash,omitempty"`
	Copies        *uint64 `json:"copies,omitempty"`
	IssuedAt      *string `json:"issued_at,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	StartsAt      *string `json:"starts_at,omitempty"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
	Extra         *string `json:"extra,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	ReferenceHash *string `json:"reference_hash,omitempty"`
}

// Validate checks hash/content pairing for media and reference.
func (m TokenMetadata) Validate() error {
	if err := checkHashPair(m.Media, m.MediaHash, "media"); err != nil {
		return err
	}
	return checkHashPair(m.Reference, m.ReferenceHash, "reference")
}

func checkHashPair(content, hash *string, field string) error {
	if hash == nil {
		return nil
	}
	if content == nil {
		return fmt.Errorf("%w: %s", ErrUnpairedHash, field)
	}
	// 32 bytes base64-encoded is 44 characters with padding.
	if len(*hash) != 44 {
		return fmt.Errorf("%w: %s_hash", ErrBadHashLength, field)
	}
	return nil
}
