package filestorage

import (
	"io"
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations.
// Stored files are addressed by a key relative to the storage root, e.g. "reports/<uuid>.xlsx".
type FileStorage interface {
	// SaveFileWithPath stores an uploaded file under subPath and returns its key
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// Save stores the content of r under subPath with the given extension and returns its key
	Save(r io.Reader, subPath, ext string) (string, error)

	// Open opens a stored file for reading
	Open(key string) (io.ReadCloser, error)

	// DeleteFile removes a file from storage
	DeleteFile(key string) error

	// GetFullPath returns the filesystem path of a key
	GetFullPath(key string) string

	// URL returns the public address of a key
	URL(key string) string
}
