package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/egresados/internal/pkg/logger"
)

// ErrInvalidKey is returned for keys that escape the storage root
var ErrInvalidKey = errors.New("invalid file key")

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Prepended to keys by URL, optional
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath saves an uploaded file to a subdirectory under a generated name
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key, err := ls.Save(file, subPath, filepath.Ext(fileHeader.Filename))
	if err != nil {
		return "", err
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File saved successfully")
	return key, nil
}

// Save copies r into a new file under subPath
func (ls *LocalStorage) Save(r io.Reader, subPath, ext string) (string, error) {
	key := path.Join(subPath, uuid.New().String()+ext)
	dstPath, err := ls.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	return key, nil
}

// Open opens a stored file
func (ls *LocalStorage) Open(key string) (io.ReadCloser, error) {
	p, err := ls.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// DeleteFile removes a stored file. Deleting a missing file is not an error.
func (ls *LocalStorage) DeleteFile(key string) error {
	if key == "" {
		return nil
	}
	p, err := ls.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", p).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", p).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", p).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the filesystem path of key, or "" when key is invalid
func (ls *LocalStorage) GetFullPath(key string) string {
	p, err := ls.resolve(key)
	if err != nil {
		return ""
	}
	return p
}

// URL returns baseURL/key, or the bare key when no base URL is configured
func (ls *LocalStorage) URL(key string) string {
	if ls.baseURL == "" {
		return key
	}
	return ls.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (ls *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(clean)), nil
}
