package models

// MetaModel is one meta row: a single key/value pair attached to an object.
// Group and repeater values are stored as nested JSON in Value. The
// (object_id, meta_key) pair is unique so writes can upsert.
type MetaModel struct {
	ID       uint   `json:"-"         gorm:"primaryKey;autoIncrement"`
	ObjectID string `json:"object_id" gorm:"uniqueIndex:idx_meta_object_key,priority:1;not null"`
	Key      string `json:"key"       gorm:"uniqueIndex:idx_meta_object_key,priority:2;not null;column:meta_key"`
	Value    string `json:"value"     gorm:"type:longtext;column:meta_value"`
}

// PostMetaModel stores meta for posts.
type PostMetaModel struct{ MetaModel }

func (PostMetaModel) TableName() string { return "post_meta" }

// UserMetaModel stores meta for users.
type UserMetaModel struct{ MetaModel }

func (UserMetaModel) TableName() string { return "user_meta" }

// TermMetaModel stores meta for taxonomy terms.
type TermMetaModel struct{ MetaModel }

func (TermMetaModel) TableName() string { return "term_meta" }

// CommentMetaModel stores meta for comments.
type CommentMetaModel struct{ MetaModel }

func (CommentMetaModel) TableName() string { return "comment_meta" }
