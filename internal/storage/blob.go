package storage

import (
	"errors"
	"io"
)

var (
	ErrBadKey   = errors.New("invalid blob key")
	ErrNotFound = errors.New("blob not found")
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
