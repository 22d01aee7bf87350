// Package filestore stages uploaded binary content on disk before attachment
// metadata is recorded. Only images and PDFs are accepted, capped per file.
package filestore

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	dErrors "careline/pkg/domainerrors"
)

// StoredFile describes a staged upload.
type StoredFile struct {
	Name     string // original file name as uploaded
	Path     string // stored name under the upload directory
	Size     int64
	MIMEType string
}

// DiskStager writes uploads under a single directory with unique names.
type DiskStager struct {
	dir     string
	maxSize int64
}

func NewDiskStager(dir string, maxSize int64) (*DiskStager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStager{dir: dir, maxSize: maxSize}, nil
}

// Save persists one multipart file part and returns its stored metadata.
func (s *DiskStager) Save(header *multipart.FileHeader) (*StoredFile, error) {
	if header.Size > s.maxSize {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "file %q exceeds the %d byte limit", header.Filename, s.maxSize)
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedType(contentType) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "only images and PDF files are allowed")
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against a lying Content-Length.
	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if written > s.maxSize {
		_ = os.Remove(dst.Name())
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "file %q exceeds the %d byte limit", header.Filename, s.maxSize)
	}

	return &StoredFile{
		Name:     header.Filename,
		Path:     storedName,
		Size:     written,
		MIMEType: contentType,
	}, nil
}

func allowedType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}
