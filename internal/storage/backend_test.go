package storage

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockBackend(t *testing.T) (*GormBackend, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return NewGormBackend(db), mock
}

// Re-saving a meta box with unchanged values must not grow the table: MySQL
// reports changed rows rather than matched rows, so every write has to be a
// single upsert statement instead of update-then-insert.
func TestGormBackendMetaWriteUpserts(t *testing.T) {
	b, mock := newMockBackend(t)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `post_meta` .*ON DUPLICATE KEY UPDATE").
			WithArgs("42", "seo_title", `"Hello"`).
			// an identical-value upsert affects 0 rows; still a success
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	require.NoError(t, b.Write(KindPostMeta, "42", "seo_title", `"Hello"`))
	require.NoError(t, b.Write(KindPostMeta, "42", "seo_title", `"Hello"`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackendOptionWriteUpserts(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `options` .*ON DUPLICATE KEY UPDATE").
		WithArgs("theme_options", `{"k":"v"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, b.Write(KindOption, "", "theme_options", `{"k":"v"}`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBackendReadMissingRow(t *testing.T) {
	b, mock := newMockBackend(t)

	mock.ExpectQuery("SELECT \\* FROM `user_meta` WHERE object_id = \\? AND meta_key = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "object_id", "meta_key", "meta_value"}))

	_, found, err := b.Read(KindUserMeta, "7", "bio")
	require.NoError(t, err)
	require.False(t, found)
}
