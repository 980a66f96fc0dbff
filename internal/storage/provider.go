// Package storage defines the sequence document store.
package storage

import "github.com/starford/vistrack/internal/models"

// Provider is the interface for document file operations. Paths are
// relative to the store root and use forward slashes.
type Provider interface {
	// List returns metadata for every sequence document under dir.
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the document at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the document at path.
	Write(path string, content []byte) error
	// Delete removes the document at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
}
