package media

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pressforge/core/internal/models"
	"gorm.io/gorm"
)

// Library stores uploaded files on disk and records each one as an
// attachment row. It backs the image, file and gallery field types and
// satisfies the sanitizer's attachment resolver.
type Library struct {
	db        *gorm.DB
	uploadDir string
	baseURL   string
}

func NewLibrary(db *gorm.DB, uploadDir, baseURL string) *Library {
	if uploadDir == "" {
		uploadDir = filepath.Join(".", "uploads")
	}
	return &Library{
		db:        db,
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// AttachmentExists reports whether an attachment row with this id is live.
func (l *Library) AttachmentExists(id int) bool {
	if id <= 0 {
		return false
	}
	var count int64
	if err := l.db.Model(&models.AttachmentModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// Add writes the payload to the upload directory and records the attachment.
func (l *Library) Add(ctx context.Context, originalName string, payload []byte) (*models.AttachmentModel, error) {
	name := buildFileName(originalName)
	if err := os.MkdirAll(l.uploadDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(l.uploadDir, name), payload, 0o644); err != nil {
		return nil, err
	}

	att := &models.AttachmentModel{
		FileName: name,
		MimeType: detectMime(name),
		Size:     int64(len(payload)),
		URL:      l.baseURL + "/uploads/" + name,
	}
	if err := l.db.WithContext(ctx).Create(att).Error; err != nil {
		_ = os.Remove(filepath.Join(l.uploadDir, name))
		return nil, err
	}
	return att, nil
}

// Get returns one attachment by id.
func (l *Library) Get(ctx context.Context, id int) (*models.AttachmentModel, error) {
	var att models.AttachmentModel
	if err := l.db.WithContext(ctx).First(&att, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// List returns attachments newest first, optionally filtered by mime prefix
// (e.g. "image/").
func (l *Library) List(ctx context.Context, mimePrefix string, limit, offset int) ([]models.AttachmentModel, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	tx := l.db.WithContext(ctx).Model(&models.AttachmentModel{})
	if mimePrefix != "" {
		tx = tx.Where("mime_type LIKE ?", mimePrefix+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.AttachmentModel
	err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

// Remove deletes the attachment row and its file. A missing file is not an
// error; the row is the source of truth.
func (l *Library) Remove(ctx context.Context, id int) error {
	att, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := l.db.WithContext(ctx).Delete(&models.AttachmentModel{}, "id = ?", id).Error; err != nil {
		return err
	}
	if name := safeName(att.FileName); name != "" {
		_ = os.Remove(filepath.Join(l.uploadDir, name))
	}
	return nil
}

// FilePath resolves the on-disk path for a stored attachment name.
func (l *Library) FilePath(fileName string) (string, bool) {
	name := safeName(fileName)
	if name == "" {
		return "", false
	}
	path := filepath.Join(l.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

func detectMime(name string) string {
	typ := mime.TypeByExtension(filepath.Ext(name))
	if typ == "" {
		return "application/octet-stream"
	}
	return typ
}

func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return ""
	}
	return name
}
