package backup

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type stubExporter struct {
	body string
	err  error
}

func (e *stubExporter) Execute(_ context.Context, w io.Writer) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	_, err := io.WriteString(w, e.body)
	return 2, err
}

type fakeUploader struct {
	uploads   map[string]string
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: map[string]string{}}
}

func (u *fakeUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if u.uploadErr != nil {
		return "", u.uploadErr
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	u.uploads[publicID] = string(b)
	return "https://res.example.com/raw/upload/" + publicID, nil
}

func (u *fakeUploader) Delete(_ context.Context, publicID string) error {
	if u.deleteErr != nil {
		return u.deleteErr
	}
	u.deleted = append(u.deleted, publicID)
	delete(u.uploads, publicID)
	return nil
}

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Hour)
		return now
	}
}

func TestBackup_UploadsExport(t *testing.T) {
	up := newFakeUploader()
	uc := NewBackupUseCase(&stubExporter{body: "id,name\n1,Ada\n"}, up, "backups/directory", 0, logger.NewNopLogger())
	uc.now = fixedClock(time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC))

	res, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/directory/export-2026-10-16_09-30-00.csv", res.PublicID)
	assert.Equal(t, 2, res.Profiles)
	assert.Contains(t, res.URL, res.PublicID)
	assert.Equal(t, "id,name\n1,Ada\n", up.uploads[res.PublicID])
}

func TestBackup_KeepsOnlyRetainedUploads(t *testing.T) {
	up := newFakeUploader()
	uc := NewBackupUseCase(&stubExporter{body: "x"}, up, "b", 2, logger.NewNopLogger())
	uc.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		_, err := uc.Execute(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"b/export-2026-01-01_00-00-00.csv"}, up.deleted)
	assert.Len(t, up.uploads, 2)
}

func TestBackup_ExportFailure(t *testing.T) {
	up := newFakeUploader()
	boom := errors.New("store unavailable")
	uc := NewBackupUseCase(&stubExporter{err: boom}, up, "b", 0, logger.NewNopLogger())

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, up.uploads)
}

func TestBackup_UploadFailure(t *testing.T) {
	up := newFakeUploader()
	up.uploadErr = errors.New("quota exceeded")
	uc := NewBackupUseCase(&stubExporter{body: "x"}, up, "b", 0, logger.NewNopLogger())

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, apperror.ErrInternal)
}

func TestBackup_FailedPruneIsRetried(t *testing.T) {
	up := newFakeUploader()
	up.deleteErr = errors.New("timeout")
	uc := NewBackupUseCase(&stubExporter{body: "x"}, up, "b", 1, logger.NewNopLogger())
	uc.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background())
	require.NoError(t, err)
	_, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, up.deleted)

	up.deleteErr = nil
	_, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, up.deleted, 2)
	assert.Len(t, up.uploads, 1)
}
