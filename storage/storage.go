// Package storage persists uploaded section files and serves them back.
package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"learnhub/models"

	"github.com/google/uuid"
)

// PublicPrefix is the URL prefix under which stored files are served.
const PublicPrefix = "/uploads/"

var (
	ErrNotFound        = errors.New("file not found")
	ErrInvalidFilename = errors.New("invalid filename")
)

// Content is the reference stored on a section.
type Content = models.SectionContent

// Uploader stores files and hands back the reference saved on a section.
type Uploader interface {
	Save(ctx context.Context, file *multipart.FileHeader) (Content, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}

// SaveAll stores files in order; on failure the files already stored are removed.
func SaveAll(ctx context.Context, u Uploader, files []*multipart.FileHeader) ([]Content, error) {
	out := make([]Content, 0, len(files))
	for _, fh := range files {
		content, err := u.Save(ctx, fh)
		if err != nil {
			RemoveAll(ctx, u, out)
			return nil, err
		}
		out = append(out, content)
	}
	return out, nil
}

// RemoveAll deletes stored files, ignoring errors.
func RemoveAll(ctx context.Context, u Uploader, contents []Content) {
	for _, c := range contents {
		if !c.Empty() {
			_ = u.Delete(ctx, c.Filename)
		}
	}
}

// newFilename keeps the original extension and makes the name unique.
func newFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8] + ext
}

func contentRef(filename string) Content {
	return Content{Filename: filename, Path: PublicPrefix + filename}
}

// cleanName rejects anything that could escape the upload root.
func cleanName(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) || strings.HasPrefix(filename, ".") {
		return "", ErrInvalidFilename
	}
	return filename, nil
}
