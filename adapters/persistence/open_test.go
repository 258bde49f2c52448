package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

func TestOpenDirectoryRepo_File(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = config.StorageFile
	cfg.Storage.Dir = t.TempDir()

	repo, closeFn, err := OpenDirectoryRepo(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, repo.SaveCategories(context.Background(), []string{"Design"}))
	got, err := repo.LoadCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Design"}, got)
}

func TestOpenDirectoryRepo_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = "sqlite"

	_, _, err := OpenDirectoryRepo(context.Background(), cfg, logger.NewNopLogger())
	assert.ErrorContains(t, err, `unknown storage driver "sqlite"`)
}
