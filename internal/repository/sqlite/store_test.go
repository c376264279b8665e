package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/domain"
	"todolist/internal/errors"
	"todolist/internal/repository"
	"todolist/internal/repository/repositorytest"
)

func TestStoreContract(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.Store {
		store, err := New(":memory:")
		require.NoError(t, err)
		return store
	})
}

func TestStoreContract_File(t *testing.T) {
	repositorytest.Run(t, func(t *testing.T) repository.Store {
		store, err := NewWithOptions(filepath.Join(t.TempDir(), "todolist.db"), Options{
			QueryTimeout: 5 * time.Second,
			WriteTimeout: 5 * time.Second,
		})
		require.NoError(t, err)
		return store
	})
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todolist.db")

	store, err := New(path)
	require.NoError(t, err)
	project := repositorytest.AddProject(t, store, "Alpha")
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Projects().Get(context.Background(), project.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alpha", got.Name)
}

func TestStore_ForeignKeyCascade(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	project := repositorytest.AddProject(t, store, "Alpha")
	repositorytest.AddTask(t, store, project.ID, "T1", domain.StatusTodo, nil)

	// Bypass the repository to prove the schema cascades on its own
	_, err = store.DB().Exec(`DELETE FROM projects WHERE id = ?`, project.ID)
	require.NoError(t, err)

	n, err := store.Tasks().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_DuplicateOnUpdate(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	repositorytest.AddProject(t, store, "Alpha")
	beta := repositorytest.AddProject(t, store, "Beta")

	beta.Name = "Alpha"
	_, err = store.Projects().Update(context.Background(), beta)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDuplicate))
}

func TestStore_CancelledContext(t *testing.T) {
	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Projects().Count(ctx)
	assert.Error(t, err)
}
