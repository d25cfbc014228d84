package security

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrCipher indicates key-material misconfiguration or malformed ciphertext.
// It is fatal for the operation; it never means "not found".
var ErrCipher = errors.New("field cipher error")

// FieldCipher encrypts PII strings for storage with AES-256-CBC under a
// fixed key and IV. The fixed IV makes encryption deterministic, which is
// required so equality lookups can match on the encrypted value. Do not use
// it for anything that does not need that property.
type FieldCipher struct {
	block cipher.Block
	iv    []byte
}

// NewFieldCipher builds a cipher from hex-encoded key material. The key
// must be 32 bytes (AES-256) and the IV one block (16 bytes).
func NewFieldCipher(keyHex, ivHex string) (*FieldCipher, error) {
	if keyHex == "" || ivHex == "" {
		return nil, fmt.Errorf("%w: key material is absent", ErrCipher)
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key encoding: %v", ErrCipher, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key must be 32 bytes, got %d", ErrCipher, len(key))
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid IV encoding: %v", ErrCipher, err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrCipher, aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCipher, err)
	}

	return &FieldCipher{block: block, iv: iv}, nil
}

// Encrypt returns the hex-encoded ciphertext of plaintext. The same
// plaintext always yields the same ciphertext.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)

	return hex.EncodeToString(out), nil
}

// Decrypt is the inverse of Encrypt.
func (c *FieldCipher) Decrypt(ciphertextHex string) (string, error) {
	raw, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext encoding: %v", ErrCipher, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not block aligned", ErrCipher)
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)

	unpadded, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: malformed padding", ErrCipher)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: malformed padding", ErrCipher)
		}
	}
	return data[:len(data)-n], nil
}
