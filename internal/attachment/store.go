package attachment

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/asset-tracking/internal"
)

// Kind is the role a stored file plays for its owning record.
type Kind string

const (
	KindCertificate Kind = "certificate"
	KindManual      Kind = "manual"
	KindReceipt     Kind = "receipt"
)

// UploadsDir is the first segment of every stored relative path.
const UploadsDir = "uploads"

var kindDirs = map[Kind]string{
	KindCertificate: "certificates",
	KindManual:      "manuals",
	KindReceipt:     "receipts",
}

func (k Kind) Dir() (string, bool) {
	dir, ok := kindDirs[k]
	return dir, ok
}

// Storage keeps uploaded files under deterministic names derived from the
// owner id, so a re-upload for the same owner and kind replaces the old file.
type Storage interface {
	Save(kind Kind, ownerID, originalName string, content io.Reader) (string, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
}

type LocalStore struct {
	root   string
	logger *slog.Logger
}

// NewLocalStore creates the upload directories under root.
func NewLocalStore(root string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, dir := range kindDirs {
		full := filepath.Join(root, UploadsDir, dir)
		if err := os.MkdirAll(full, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", full, err)
		}
	}
	return &LocalStore{root: root, logger: logger}, nil
}

// RelativePath is the path stored on the owning record,
// e.g. uploads/certificates/{id}_certificate.pdf.
func RelativePath(kind Kind, ownerID, originalName string) (string, error) {
	dir, ok := kind.Dir()
	if !ok {
		return "", fmt.Errorf("unknown attachment kind %q", kind)
	}
	if ownerID == "" || strings.ContainsAny(ownerID, `/\`) || ownerID == "." || ownerID == ".." {
		return "", fmt.Errorf("invalid owner id %q", ownerID)
	}
	ext := filepath.Ext(filepath.Base(strings.ReplaceAll(originalName, `\`, "/")))
	return path.Join(UploadsDir, dir, fmt.Sprintf("%s_%s%s", ownerID, kind, ext)), nil
}

// Save writes content next to its final name and renames it into place, so
// readers never see a partially written file.
func (s *LocalStore) Save(kind Kind, ownerID, originalName string, content io.Reader) (string, error) {
	rel, err := RelativePath(kind, ownerID, originalName)
	if err != nil {
		return "", err
	}
	full, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), filepath.Base(full)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}

	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move %s into place: %w", rel, err)
	}

	s.logger.Info("attachment stored", "path", rel, "kind", kind, "owner_id", ownerID, "bytes", written)
	return rel, nil
}

// Open returns ErrFileNotFound when the file is gone, even if a record still
// points at it.
func (s *LocalStore) Open(relPath string) (*os.File, error) {
	full, err := s.resolve(relPath)
	if err != nil {
		return nil, internal.ErrFileNotFound.WithCause(err)
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internal.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", relPath, err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, internal.ErrFileNotFound
	}
	return f, nil
}

// Delete removes the file. A file that is already gone is not an error.
func (s *LocalStore) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}
	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", relPath, err)
	}
	s.logger.Info("attachment deleted", "path", relPath)
	return nil
}

// resolve maps a stored relative path onto the filesystem and refuses
// anything that would land outside the uploads directory.
func (s *LocalStore) resolve(relPath string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(relPath, `\`, "/"))
	if path.IsAbs(cleaned) || !strings.HasPrefix(cleaned, UploadsDir+"/") {
		return "", fmt.Errorf("path %q is outside the uploads directory", relPath)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
