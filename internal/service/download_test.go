package service

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attachapi/internal/model"
	"attachapi/internal/storage"
)

type downloadFixture struct {
	svc      AttachmentService
	files    *storage.Local
	entities *memEntities
	meta     *memMeta
}

// newDownloadFixture seeds post #42 with attachments #101 (a.txt, 0 downloads) and
// #102 (b.txt, 3 downloads). Post #7 has no attachments.
func newDownloadFixture(t *testing.T) *downloadFixture {
	t.Helper()
	ctx := context.Background()

	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	_, err = files.Put(ctx, "2023/05/a.txt", bytes.NewReader([]byte("alpha")), storage.PutObjectOptions{})
	require.NoError(t, err)
	_, err = files.Put(ctx, "b.txt", bytes.NewReader([]byte("bravo")), storage.PutObjectOptions{})
	require.NoError(t, err)

	entities := newMemEntities(
		model.Entity{ID: 42, Kind: "post", Title: "Hello"},
		model.Entity{ID: 7, Kind: "post", Title: "Empty"},
		model.Entity{ID: 101, Kind: model.KindAttachment, Title: "a", ParentID: 42},
		model.Entity{ID: 102, Kind: model.KindAttachment, Title: "b", ParentID: 42},
		model.Entity{ID: 103, Kind: model.KindAttachment, Title: "gone"},
	)
	meta := newMemMeta().
		put(101, model.MetaAttachedFile, "2023/05/a.txt").
		put(102, model.MetaAttachedFile, "b.txt").
		put(102, model.MetaDownloads, "3").
		put(103, model.MetaAttachedFile, "2022/01/gone.txt").
		put(42, model.MetaRelation, "101", "102")

	svc := NewAttachmentService(files, files, entities, meta,
		WithBaseURL("http://localhost:8080/"),
		WithChunkSize(2),
		WithClock(func() time.Time { return time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC) }),
	)
	return &downloadFixture{svc: svc, files: files, entities: entities, meta: meta}
}

func (f *downloadFixture) archives(t *testing.T) []string {
	t.Helper()
	m, err := filepath.Glob(filepath.Join(f.files.Root(), "*.zip"))
	require.NoError(t, err)
	return m
}

func streamAll(t *testing.T, tr *Transfer) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	n, err := tr.Stream(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, tr.Size(), n)
	return buf.Bytes()
}

func zipNames(t *testing.T, b []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(body)
	}
	return out
}

func TestDownloadAll_EndToEnd(t *testing.T) {
	f := newDownloadFixture(t)

	tr, err := f.svc.DownloadAll(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, f.archives(t), 1, "archive exists while the transfer is pending")
	assert.Regexp(t, `^attachment; filename=[0-9a-f-]{36}\.zip$`, tr.Header().Get("Content-Disposition"))

	got := zipNames(t, streamAll(t, tr))

	assert.Equal(t, map[string]string{"a.txt": "alpha", "b.txt": "bravo"}, got)
	assert.Equal(t, "1", f.meta.value(101, model.MetaDownloads))
	assert.Equal(t, "4", f.meta.value(102, model.MetaDownloads))
	assert.Empty(t, f.archives(t))
}

func TestDownloadAll_NoAttachments(t *testing.T) {
	f := newDownloadFixture(t)

	tr, err := f.svc.DownloadAll(context.Background(), 7)

	assert.ErrorIs(t, err, ErrNoAttachments)
	assert.Nil(t, tr)
	assert.Empty(t, f.archives(t), "no temporary archive is created")
	assert.Zero(t, f.meta.writeCount())
}

func TestDownloadAll_Aborted(t *testing.T) {
	f := newDownloadFixture(t)

	tr, err := f.svc.DownloadAll(context.Background(), 42)
	require.NoError(t, err)

	_, err = tr.Stream(context.Background(), &recordingWriter{failAt: 1})

	assert.Error(t, err)
	assert.Empty(t, f.archives(t))
	assert.Equal(t, "1", f.meta.value(101, model.MetaDownloads))
	assert.Equal(t, "4", f.meta.value(102, model.MetaDownloads))
}

func TestDownloadAll_Abandoned(t *testing.T) {
	f := newDownloadFixture(t)

	tr, err := f.svc.DownloadAll(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	assert.Empty(t, f.archives(t))
	assert.Zero(t, f.meta.writeCount(), "an abandoned transfer is not counted")
}

func TestDownloadAll_SkipsMissingSources(t *testing.T) {
	f := newDownloadFixture(t)
	f.meta.put(42, model.MetaRelation, "103", "9999")

	tr, err := f.svc.DownloadAll(context.Background(), 42)
	require.NoError(t, err)

	got := zipNames(t, streamAll(t, tr))

	assert.Equal(t, map[string]string{"a.txt": "alpha", "b.txt": "bravo"}, got)
	assert.Empty(t, f.meta.value(9999, model.MetaDownloads), "stale relation ids are not counted")
}

func TestDownloadAll_AllSourcesMissing(t *testing.T) {
	f := newDownloadFixture(t)
	f.meta.put(50, model.MetaRelation, "103")

	tr, err := f.svc.DownloadAll(context.Background(), 50)

	assert.ErrorIs(t, err, ErrFileUnavailable)
	assert.Nil(t, tr)
	assert.Empty(t, f.archives(t), "an empty archive is removed")
	assert.Zero(t, f.meta.writeCount())
}

func TestDownloadAll_ArchiveOpenFailure(t *testing.T) {
	f := newDownloadFixture(t)
	dir := filepath.Join(t.TempDir(), "scratch")
	scratch, err := storage.NewLocal(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	svc := NewAttachmentService(f.files, scratch, f.entities, f.meta)
	tr, err := svc.DownloadAll(context.Background(), 42)

	assert.Nil(t, tr)
	var openErr *ArchiveOpenError
	require.True(t, errors.As(err, &openErr))
	assert.Regexp(t, `^cannot open <[0-9a-f-]{36}\.zip> zip file$`, err.Error())
	assert.Zero(t, f.meta.writeCount())
}

func TestDownloadOne(t *testing.T) {
	ctx := context.Background()

	t.Run("streams and counts", func(t *testing.T) {
		f := newDownloadFixture(t)

		tr, err := f.svc.DownloadOne(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "attachment; filename=a.txt", tr.Header().Get("Content-Disposition"))
		assert.Equal(t, "5", tr.Header().Get("Content-Length"))

		assert.Equal(t, "alpha", string(streamAll(t, tr)))
		assert.Equal(t, "1", f.meta.value(101, model.MetaDownloads))
		assert.Equal(t, "3", f.meta.value(102, model.MetaDownloads))
	})

	t.Run("unparsable counter reads as zero", func(t *testing.T) {
		f := newDownloadFixture(t)
		f.meta.put(101, model.MetaDownloads, "lots")

		tr, err := f.svc.DownloadOne(ctx, 101)
		require.NoError(t, err)
		streamAll(t, tr)

		assert.Equal(t, "1", f.meta.value(101, model.MetaDownloads))
	})

	t.Run("not an attachment", func(t *testing.T) {
		f := newDownloadFixture(t)

		for _, id := range []int64{42, 9999, 0} {
			tr, err := f.svc.DownloadOne(ctx, id)
			assert.ErrorIs(t, err, ErrNotAttachment)
			assert.Nil(t, tr)
		}
		assert.Zero(t, f.meta.writeCount())
	})

	t.Run("missing file", func(t *testing.T) {
		f := newDownloadFixture(t)

		tr, err := f.svc.DownloadOne(ctx, 103)

		assert.ErrorIs(t, err, ErrFileUnavailable)
		assert.Nil(t, tr)
		assert.Zero(t, f.meta.writeCount())
	})
}

func TestDownloadOne_UnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	f := newDownloadFixture(t)
	p := filepath.Join(f.files.Root(), "b.txt")
	require.NoError(t, os.Chmod(p, 0o000))
	t.Cleanup(func() { os.Chmod(p, 0o644) })

	tr, err := f.svc.DownloadOne(context.Background(), 102)

	assert.ErrorIs(t, err, ErrFileUnavailable)
	assert.Nil(t, tr)
	assert.Equal(t, "3", f.meta.value(102, model.MetaDownloads))
	assert.Zero(t, f.meta.writeCount())
}

func TestListPostAttachments(t *testing.T) {
	f := newDownloadFixture(t)
	f.meta.put(42, model.MetaRelation, "bogus", "101", "9999")

	got, err := f.svc.ListPostAttachments(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Attachment{ID: 101, ParentID: 42, Title: "a", File: "2023/05/a.txt"}, got[0])
	assert.Equal(t, model.Attachment{ID: 102, ParentID: 42, Title: "b", File: "b.txt", Downloads: 3}, got[1])

	empty, err := f.svc.ListPostAttachments(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestURLs(t *testing.T) {
	f := newDownloadFixture(t)

	assert.Equal(t, "http://localhost:8080/download?id=101", f.svc.URLFor(101))
	assert.Equal(t, "http://localhost:8080/download?post_id=42", f.svc.PostURLFor(42))
}

func TestResolveLink(t *testing.T) {
	f := newDownloadFixture(t)
	ctx := context.Background()

	link, err := f.svc.ResolveLink(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, `<a href="http://localhost:8080/download?id=101" title="a">a</a>`, link)

	_, err = f.svc.ResolveLink(ctx, 42)
	assert.ErrorIs(t, err, ErrNotAttachment)
	assert.Zero(t, f.meta.writeCount())
}
