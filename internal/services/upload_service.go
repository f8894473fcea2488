package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"lapublica/internal/apperrors"
)

// allowed extensions per upload kind
var uploadKinds = map[string]map[string]bool{
	"image":    {".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true},
	"video":    {".mp4": true, ".webm": true},
	"document": {".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true},
}

const maxUploadBytes = 20 << 20 // 20 MiB

type UploadService struct {
	RootDir string
}

func NewUploadService(rootDir string) *UploadService {
	return &UploadService{RootDir: filepath.Clean(rootDir)}
}

// Save stores an uploaded file under the files root and returns the public
// URL path. The stored name is random; the original name only supplies the
// extension.
func (s *UploadService) Save(file *multipart.FileHeader, kind string) (string, error) {
	allowed, ok := uploadKinds[kind]
	if !ok {
		return "", apperrors.Validationf("unknown upload type %q", kind)
	}
	if file.Size > maxUploadBytes {
		return "", apperrors.Validationf("file exceeds %d bytes", maxUploadBytes)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", apperrors.Validationf("extension %q not allowed for type %q", ext, kind)
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	name := hex.EncodeToString(b) + ext

	dir := filepath.Join(s.RootDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("/files/%s/%s", kind, name), nil
}
