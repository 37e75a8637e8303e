package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dmruiz/floresta-backend/pkg/config"
	pkgerrors "github.com/dmruiz/floresta-backend/pkg/errors"
	"github.com/dmruiz/floresta-backend/pkg/storage"
	"github.com/google/uuid"
)

const (
	defaultBaseURL    = "/uploads"
	defaultUploadsDir = "uploads"
	fallbackFolder    = "default"
	fallbackBaseName  = "file"
)

// Storage stores uploaded files under <publicDir>/<uploadsDirName>/... and
// resolves them through the configured public base URL.
type Storage struct {
	publicDir      string
	publicBaseURL  string
	uploadsDirName string
}

var _ storage.FileStorage = (*Storage)(nil)

// New builds a local storage from the storage config section. PublicDir must
// already be absolute (config.Load guarantees this).
func New(cfg config.StorageConfig) (*Storage, error) {
	if cfg.PublicDir == "" {
		return nil, fmt.Errorf("storage public dir required")
	}
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	uploadsDir := cfg.UploadsDirName
	if uploadsDir == "" {
		uploadsDir = defaultUploadsDir
	}
	return &Storage{
		publicDir:      cfg.PublicDir,
		publicBaseURL:  strings.TrimRight(baseURL, "/"),
		uploadsDirName: uploadsDir,
	}, nil
}

// Save sanitizes the folder and file name, writes the bytes to a temp file in
// the target directory and renames it into place, so a reader can never
// observe a partially written file at the public path.
func (s *Storage) Save(ctx context.Context, file storage.UploadFile, folder string) (*storage.StoredFile, error) {
	safeFolder, err := normalizeFolder(folder)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upload folder")
	}

	originalName := file.Name
	if originalName == "" {
		originalName = fallbackBaseName
	}
	ext := guessExtension(originalName, file.MimeType)
	baseName := sanitizeBaseName(stripExtension(originalName))
	filename := fmt.Sprintf("%s-%s%s", baseName, uuid.NewString(), ext)

	absFolder := filepath.Join(s.publicDir, s.uploadsDirName, filepath.FromSlash(safeFolder))
	if err := os.MkdirAll(absFolder, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create upload directory")
	}

	size, err := s.writeAtomically(absFolder, filename, file.Content)
	if err != nil {
		return nil, err
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &storage.StoredFile{
		URL:       joinURL(s.publicBaseURL, safeFolder, filename),
		Filename:  filename,
		MimeType:  mimeType,
		SizeBytes: size,
	}, nil
}

func (s *Storage) writeAtomically(dir, filename string, content io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create temp file")
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, content)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write upload bytes")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "flush upload bytes")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "set upload permissions")
	}
	if err := os.Rename(tmpName, filepath.Join(dir, filename)); err != nil {
		os.Remove(tmpName)
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "publish upload")
	}
	return size, nil
}

// Delete removes the file behind a public locator. Locators outside the
// configured base URL are ignored rather than resolved, so the storage can
// never be talked into unlinking arbitrary paths. A file that is already gone
// counts as success.
func (s *Storage) Delete(ctx context.Context, url string) error {
	if url != s.publicBaseURL && !strings.HasPrefix(url, s.publicBaseURL+"/") {
		return nil
	}

	relative := strings.TrimPrefix(url, s.publicBaseURL)
	relative = strings.TrimLeft(relative, "/")
	relative = filepath.Clean(filepath.FromSlash(relative))
	if relative == "." || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return nil
	}

	absolute := filepath.Join(s.publicDir, s.uploadsDirName, relative)
	if err := os.Remove(absolute); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete stored file")
	}
	return nil
}

// normalizeFolder flattens separators, strips outer slashes and collapses
// duplicate ones. Parent-directory segments are rejected outright.
func normalizeFolder(folder string) (string, error) {
	cleaned := strings.TrimSpace(folder)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	cleaned = strings.Trim(cleaned, "/")
	cleaned = multiSlashRe.ReplaceAllString(cleaned, "/")

	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return "", fmt.Errorf("folder %q escapes the storage root", folder)
		}
	}

	if cleaned == "" {
		return fallbackFolder, nil
	}
	return cleaned, nil
}

var (
	multiSlashRe   = regexp.MustCompile(`/+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	unsafeRuneRe   = regexp.MustCompile(`[^a-z0-9._-]`)
	validExtension = regexp.MustCompile(`^\.[a-z0-9]+$`)
)

// sanitizeBaseName lowercases the name, turns whitespace into hyphens and
// drops everything outside [a-z0-9._-].
func sanitizeBaseName(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	cleaned = whitespaceRe.ReplaceAllString(cleaned, "-")
	cleaned = unsafeRuneRe.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return fallbackBaseName
	}
	return cleaned
}

func stripExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx > 0 {
		return filename[:idx]
	}
	return filename
}

var extensionByMime = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// guessExtension prefers a plausible extension already on the original name,
// then falls back to the mime map, then to no extension at all.
func guessExtension(originalName, mimeType string) string {
	idx := strings.LastIndex(originalName, ".")
	if idx > 0 && idx < len(originalName)-1 {
		ext := strings.ToLower(originalName[idx:])
		if validExtension.MatchString(ext) {
			return ext
		}
	}
	return extensionByMime[mimeType]
}

// joinURL joins URL parts with single slashes, preserving the leading slash
// of the base.
func joinURL(parts ...string) string {
	joined := strings.Join(parts, "/")
	collapsed := multiSlashRe.ReplaceAllString(joined, "/")
	if !strings.HasPrefix(collapsed, "/") {
		collapsed = "/" + collapsed
	}
	return collapsed
}
