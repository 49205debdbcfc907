// Package cryptoutil provides hashing utilities for generated documents
package cryptoutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"

	commonerrors "github.com/deploymenttheory/go-job-composer/internal/common/errors"
)

// HashAlgorithm represents supported hash algorithms
type HashAlgorithm string

const (
	// SHA256 algorithm
	SHA256 HashAlgorithm = "sha256"

	// BLAKE2b256 algorithm (BLAKE2b with a 256-bit digest)
	BLAKE2b256 HashAlgorithm = "blake2b"
)

// Hasher provides an interface for hashing operations
type Hasher interface {
	// Algorithm returns the algorithm name
	Algorithm() HashAlgorithm

	// Hash hashes the provided data
	Hash(data []byte) (string, error)

	// HashFile hashes the content of a file
	HashFile(path string) (string, error)

	// HashReader hashes data from a reader
	HashReader(reader io.Reader) (string, error)

	// Verify checks if the provided hash matches the calculated hash for the data
	Verify(data []byte, expectedHash string) (bool, error)
}

// hasherImpl implements the Hasher interface
type hasherImpl struct {
	algorithm HashAlgorithm
	newHash   func() (hash.Hash, error)
}

// NewHasher creates a new Hasher for the specified algorithm
func NewHasher(algorithm HashAlgorithm) (Hasher, error) {
	var newHashFunc func() (hash.Hash, error)

	switch HashAlgorithm(strings.ToLower(string(algorithm))) {
	case SHA256:
		newHashFunc = func() (hash.Hash, error) { return sha256.New(), nil }
	case BLAKE2b256:
		newHashFunc = func() (hash.Hash, error) { return blake2b.New256(nil) }
	default:
		return nil, fmt.Errorf("%w: unsupported hash algorithm '%s'", commonerrors.ErrInvalidHasher, algorithm)
	}

	return &hasherImpl{
		algorithm: HashAlgorithm(strings.ToLower(string(algorithm))),
		newHash:   newHashFunc,
	}, nil
}

func (h *hasherImpl) Algorithm() HashAlgorithm {
	return h.algorithm
}

// Hash hashes the provided data
func (h *hasherImpl) Hash(data []byte) (string, error) {
	hasher, err := h.newHash()
	if err != nil {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrInvalidHasher, err.Error())
	}
	if _, err := hasher.Write(data); err != nil {
		return "", fmt.Errorf("hash operation failed: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashFile hashes the content of a file
func (h *hasherImpl) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", commonerrors.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return h.HashReader(file)
}

// HashReader hashes data from a reader
func (h *hasherImpl) HashReader(reader io.Reader) (string, error) {
	hasher, err := h.newHash()
	if err != nil {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrInvalidHasher, err.Error())
	}
	if _, err := io.Copy(hasher, reader); err != nil {
		return "", fmt.Errorf("hash operation failed: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Verify checks if the provided hash matches the calculated hash for the data
func (h *hasherImpl) Verify(data []byte, expectedHash string) (bool, error) {
	actualHash, err := h.Hash(data)
	if err != nil {
		return false, err
	}

	return strings.EqualFold(actualHash, expectedHash), nil
}

// ChecksumLine formats a digest the way sha256sum and b2sum do: "<hex>  <name>"
func ChecksumLine(digest, fileName string) string {
	return digest + "  " + fileName + "\n"
}

// ParseChecksumLine extracts the digest from a checksum file line
func ParseChecksumLine(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("checksum line is empty or malformed")
	}
	return fields[0], nil
}
