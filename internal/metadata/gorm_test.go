package metadata_test

import (
	"context"
	"os"
	"testing"

	"github.com/Yash-Soni1/vectra-backend/config"
	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/repo"
	"github.com/Yash-Soni1/vectra-backend/model"
	"github.com/stretchr/testify/require"
)

// TestGormStoresRoundTrip runs against the MySQL test database named by
// DB_NAME_TEST, creating it when absent. Set MYSQL_INTEGRATION=1 to enable.
func TestGormStoresRoundTrip(t *testing.T) {
	if os.Getenv("MYSQL_INTEGRATION") == "" {
		t.Skip("set MYSQL_INTEGRATION=1 to run against MySQL")
	}
	config.InitConfig()
	repo.InitMysqlTest()
	db := repo.Db
	require.NoError(t, db.Exec("DELETE FROM files").Error)
	require.NoError(t, db.Exec("DELETE FROM folders").Error)

	files := metadata.NewGormStore(db)
	folders := metadata.NewGormFolderStore(db)
	ctx := context.Background()

	folder := &model.Folder{UserID: 1, Name: "Docs"}
	require.NoError(t, folders.Create(ctx, folder))

	file := &model.File{
		UserID:   1,
		Name:     "Quarterly Report.pdf",
		Path:     "1/report.pdf",
		Size:     3,
		Type:     "application/pdf",
		FolderID: &folder.ID,
	}
	require.NoError(t, files.Create(ctx, file))

	items, total, err := files.List(ctx, 1, metadata.InFolder(folder.ID), metadata.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.Equal(t, file.Path, items[0].Path)

	// root scope must translate to IS NULL, not equality against null
	root, rootTotal, err := files.List(ctx, 1, metadata.RootScope(), metadata.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Zero(t, rootTotal)
	require.Empty(t, root)

	matches, err := files.Search(ctx, 1, metadata.InFolder(folder.ID), "REPORT")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	matches, err = files.Search(ctx, 1, metadata.RootScope(), "REPORT")
	require.NoError(t, err)
	require.Empty(t, matches)

	count, err := files.CountInFolder(ctx, folder.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	deleted, err := files.Delete(ctx, 1, file.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = folders.Delete(ctx, 1, folder.ID)
	require.NoError(t, err)
	require.True(t, deleted)
}
