package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxSpotImages caps the number of images accepted per submission.
const MaxSpotImages = 5

// ImageStore persists uploaded spot images on local disk under random
// filenames and hands back the URL path they are served from.
type ImageStore struct {
	dir string
}

// NewImageStore ensures the upload directory exists.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save writes one uploaded file and returns its public URL path.
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return "/uploads/" + name, nil
}

// SaveAll stores up to MaxSpotImages files, ignoring any extras.
func (s *ImageStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) > MaxSpotImages {
		files = files[:MaxSpotImages]
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.Save(f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
