// Package crypto provides the signing primitives behind the exchange's
// signature authority: secp256k1 key management, order-hash signing,
// and recovery-based verification.
package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds an ECDSA key pair on the secp256k1 curve
// (Ethereum-compatible) and signs 32-byte order digests.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	publicKey  *ecdsa.PublicKey
	address    common.Address
}

// GenerateKey creates a new random secp256k1 key pair.
func GenerateKey() (*Signer, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return fromPrivateKey(privateKey)
}

// FromPrivateKeyHex creates a Signer from a hex-encoded private key
// (64 hex chars, no 0x prefix).
func FromPrivateKeyHex(hexKey string) (*Signer, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return fromPrivateKey(privateKey)
}

func fromPrivateKey(privateKey *ecdsa.PrivateKey) (*Signer, error) {
	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to cast public key to ECDSA")
	}
	return &Signer{
		privateKey: privateKey,
		publicKey:  publicKey,
		address:    crypto.PubkeyToAddress(*publicKey),
	}, nil
}

// Address returns the account address derived from the public key.
func (s *Signer) Address() common.Address {
	return s.address
}

// PrivateKeyHex returns the private key as hex (no 0x prefix).
// Keep this secret; never log it.
func (s *Signer) PrivateKeyHex() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(s.privateKey))
}

// Sign signs a 32-byte digest and returns the signature in
// [R || S || V] format (65 bytes).
func (s *Signer) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	signature, err := crypto.Sign(hash, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return signature, nil
}

// VerifySignature reports whether signature over hash was produced by
// the holder of address's key. Malformed input verifies as false; the
// exchange maps any false to its signature error.
func VerifySignature(address common.Address, hash []byte, signature []byte) bool {
	recovered, err := RecoverAddress(hash, signature)
	if err != nil {
		return false
	}
	return recovered == address
}

// RecoverAddress recovers the address that signed a 32-byte digest.
func RecoverAddress(hash []byte, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(signature))
	}
	if len(hash) != 32 {
		return common.Address{}, fmt.Errorf("invalid hash length: %d", len(hash))
	}

	publicKeyBytes, err := crypto.Ecrecover(hash, signature)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	publicKey, err := crypto.UnmarshalPubkey(publicKeyBytes)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unmarshal public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// GenerateSalt returns a cryptographically random nonzero order salt.
// Zero is reserved for synthesized counter-orders, so the low bit is
// forced on rather than retrying.
func GenerateSalt() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	return salt | 1, nil
}
