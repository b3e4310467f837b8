package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MaxAvatarSize is the largest accepted avatar upload.
const MaxAvatarSize = 5 * 1024 * 1024

var (
	ErrInvalidImageType = errors.New("invalid file type. Only JPG, PNG, GIF, WEBP allowed")
	ErrImageTooLarge    = errors.New("file too large. Maximum size is 5MB")
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ObjectStorageService stores user avatars on the local filesystem under
// <basePath>/avatars/<user id>/ and serves them below baseURL.
type ObjectStorageService struct {
	basePath string
	baseURL  string
}

func NewObjectStorageService(basePath, baseURL string) (*ObjectStorageService, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "avatars"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &ObjectStorageService{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveAvatar writes the upload and returns its path relative to basePath,
// using forward slashes.
func (s *ObjectStorageService) SaveAvatar(userID uint, file multipart.File, header *multipart.FileHeader) (string, error) {
	if !s.isValidImageType(header.Filename) {
		return "", ErrInvalidImageType
	}
	if header.Size > MaxAvatarSize {
		return "", ErrImageTooLarge
	}

	uid := strconv.FormatUint(uint64(userID), 10)
	userDir := filepath.Join(s.basePath, "avatars", uid)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar dir: %w", err)
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	rel := path.Join("avatars", uid, filename)
	dst, err := os.Create(filepath.Join(userDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// the header size comes from the client, so cap the copy as well
	n, err := io.Copy(dst, io.LimitReader(file, MaxAvatarSize+1))
	if err != nil {
		dst.Close()
		_ = s.DeleteImage(rel)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if n > MaxAvatarSize {
		_ = s.DeleteImage(rel)
		return "", ErrImageTooLarge
	}
	log.Printf("[storage] saved avatar for user %d: %s (%d bytes)", userID, rel, n)
	return rel, nil
}

// URL returns the public URL of a stored file, or "" for an empty path.
func (s *ObjectStorageService) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.baseURL + "/" + rel
}

// DeleteImage removes a stored file. Missing files are ignored.
func (s *ObjectStorageService) DeleteImage(rel string) error {
	if rel == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid image path %q", rel)
	}
	err := os.Remove(filepath.Join(s.basePath, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *ObjectStorageService) isValidImageType(filename string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(filename)))
}
