package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Local writes uploads into a directory on disk.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Dir is the directory served statically under PublicPrefix.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Save(_ context.Context, file *multipart.FileHeader) (Content, error) {
	src, err := file.Open()
	if err != nil {
		return Content{}, err
	}
	defer src.Close()

	name := newFilename(file.Filename)
	if err := l.write(name, src); err != nil {
		return Content{}, err
	}
	return contentRef(name), nil
}

// write copies src into the upload directory and removes the partial file on failure.
func (l *Local) write(name string, src io.Reader) error {
	path := filepath.Join(l.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

func (l *Local) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	name, err := cleanName(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *Local) Delete(_ context.Context, filename string) error {
	name, err := cleanName(filename)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
