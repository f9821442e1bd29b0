package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"kanban-board/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewTaskRepository(db).Init(ctx))
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) {
	t.Helper()
	user := &domain.User{Username: username, Password: "digest"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
}
