package filesystem

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

var (
	ErrFileNotFound = errors.New("filesystem: file not found")
	ErrInvalidPath  = errors.New("filesystem: invalid path")
)

// Filesystem is the read-only view the static file resolver works against.
type Filesystem interface {
	ReadFile(path string, limit int64) ([]byte, error)

	FileExists(path string) (bool, error)
	FileSize(path string) (int64, error)
	FileMetaData(path string) (os.FileInfo, error)

	IsDirectory(path string) (bool, error)
	GetAbsolutePath(path string) (string, error)
}

type localFileSystem struct {
}

func NewLocalFileSystem() Filesystem {
	return &localFileSystem{}
}

func (filesystem *localFileSystem) FileExists(path string) (bool, error) {
	if path == "" {
		return false, ErrInvalidPath
	}

	_, err := os.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (filesystem *localFileSystem) FileMetaData(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}

		return nil, err
	}

	return info, nil
}

// FileSize reports the byte length of a regular file. Missing files and
// directories have size 0.
func (filesystem *localFileSystem) FileSize(path string) (int64, error) {
	info, err := filesystem.FileMetaData(path)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if info.IsDir() {
		return 0, nil
	}

	return info.Size(), nil
}

// ReadFile reads at most limit bytes from path. Directories read as empty.
func (filesystem *localFileSystem) ReadFile(path string, limit int64) ([]byte, error) {
	isDir, err := filesystem.IsDirectory(path)
	if err != nil {
		return nil, err
	}
	if isDir || limit <= 0 {
		return []byte{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("closing file error", "error", closeErr)
		}
	}()

	data := make([]byte, limit)
	n, err := io.ReadFull(file, data)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	return data[:n], nil
}

func (filesystem *localFileSystem) IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// isNotExist reports whether err means nothing is present at the path. A
// parent that is a regular file or a segment longer than the name limit
// cannot name an existing file either.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ENAMETOOLONG)
}

func (filesystem *localFileSystem) GetAbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}
