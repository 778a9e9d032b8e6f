package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrBlobNotFound is returned by Load when nothing has been saved under the key.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrCorruptBlob is returned by Load when the stored bytes fail an integrity check.
	ErrCorruptBlob = errors.New("blob failed integrity check")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// BlobStore persists opaque snapshots under string keys.
// Every Save replaces the whole value stored under the key.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
