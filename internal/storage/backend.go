package storage

import (
	"errors"
	"sync"

	"github.com/pressforge/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TargetKind is the persistence bucket a value lives in.
type TargetKind string

const (
	KindOption      TargetKind = "option"
	KindPostMeta    TargetKind = "post_meta"
	KindUserMeta    TargetKind = "user_meta"
	KindTermMeta    TargetKind = "term_meta"
	KindCommentMeta TargetKind = "comment_meta"
)

// Backend is the raw persistence seam under Store. Values are JSON strings.
type Backend interface {
	Read(kind TargetKind, objectID, key string) (string, bool, error)
	Write(kind TargetKind, objectID, key, raw string) error
	Delete(kind TargetKind, objectID, key string) error
}

// GormBackend persists options and meta rows through gorm.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend { return &GormBackend{db: db} }

var metaTables = map[TargetKind]string{
	KindPostMeta:    models.PostMetaModel{}.TableName(),
	KindUserMeta:    models.UserMetaModel{}.TableName(),
	KindTermMeta:    models.TermMetaModel{}.TableName(),
	KindCommentMeta: models.CommentMetaModel{}.TableName(),
}

func (b *GormBackend) Read(kind TargetKind, objectID, key string) (string, bool, error) {
	if kind == KindOption {
		var opt models.OptionModel
		err := b.db.Where("name = ?", key).First(&opt).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return opt.Value, true, nil
	}

	table, ok := metaTables[kind]
	if !ok {
		return "", false, errors.New("unknown target kind: " + string(kind))
	}
	var row models.MetaModel
	err := b.db.Table(table).Where("object_id = ? AND meta_key = ?", objectID, key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (b *GormBackend) Write(kind TargetKind, objectID, key, raw string) error {
	if kind == KindOption {
		opt := models.OptionModel{Name: key, Value: raw}
		return b.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&opt).Error
	}

	table, ok := metaTables[kind]
	if !ok {
		return errors.New("unknown target kind: " + string(kind))
	}
	// single-statement upsert: MySQL reports changed rows, not matched rows,
	// so an update-then-insert fallback would duplicate on no-op saves
	return b.db.Table(table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "object_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&models.MetaModel{
		ObjectID: objectID,
		Key:      key,
		Value:    raw,
	}).Error
}

func (b *GormBackend) Delete(kind TargetKind, objectID, key string) error {
	if kind == KindOption {
		return b.db.Where("name = ?", key).Delete(&models.OptionModel{}).Error
	}
	table, ok := metaTables[kind]
	if !ok {
		return errors.New("unknown target kind: " + string(kind))
	}
	return b.db.Table(table).
		Where("object_id = ? AND meta_key = ?", objectID, key).
		Delete(&models.MetaModel{}).Error
}

// MemoryBackend is an in-process Backend used by tests and local development.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string]string{}}
}

func memKey(kind TargetKind, objectID, key string) string {
	return string(kind) + "\x00" + objectID + "\x00" + key
}

func (b *MemoryBackend) Read(kind TargetKind, objectID, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	raw, ok := b.data[memKey(kind, objectID, key)]
	return raw, ok, nil
}

func (b *MemoryBackend) Write(kind TargetKind, objectID, key, raw string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[memKey(kind, objectID, key)] = raw
	return nil
}

func (b *MemoryBackend) Delete(kind TargetKind, objectID, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, memKey(kind, objectID, key))
	return nil
}
