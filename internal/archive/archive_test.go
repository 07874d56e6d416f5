package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source(body string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func readZip(t *testing.T, b []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(body)
	}
	return out
}

func TestEntryName(t *testing.T) {
	assert.Equal(t, "report.pdf", EntryName("2023/05/report.pdf"))
	assert.Equal(t, "a.txt", EntryName("a.txt"))
	assert.Equal(t, "b.pdf", EntryName(`2023\a\b.pdf`))
	assert.Equal(t, "", EntryName("2023/.."))
	assert.Equal(t, "", EntryName("."))
}

func TestWrite_FlattensDirectories(t *testing.T) {
	var buf bytes.Buffer

	res, err := Write(&buf, []Entry{
		{Name: "2023/05/report.pdf", Open: source("pdf")},
		{Name: "notes/2024/a.txt", Open: source("hello")},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"report.pdf", "a.txt"}, res.Names)

	files := readZip(t, buf.Bytes())
	assert.Equal(t, map[string]string{"report.pdf": "pdf", "a.txt": "hello"}, files)
	for name := range files {
		assert.NotContains(t, name, "/")
	}
}

func TestWrite_LaterDuplicateWins(t *testing.T) {
	var buf bytes.Buffer

	res, err := Write(&buf, []Entry{
		{Name: "2023/01/a.txt", Open: source("old")},
		{Name: "2023/02/a.txt", Open: source("new")},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Names)
	assert.Equal(t, map[string]string{"a.txt": "new"}, readZip(t, buf.Bytes()))
}

func TestWrite_DuplicateFallsBackWhenLaterIsUnreadable(t *testing.T) {
	var buf bytes.Buffer
	missing := errors.New("no such file")

	res, err := Write(&buf, []Entry{
		{Name: "2023/01/a.txt", Open: source("old")},
		{Name: "2023/02/a.txt", Open: func() (io.ReadCloser, error) { return nil, missing }},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, res.Names)
	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0].Err, missing)
	assert.Equal(t, map[string]string{"a.txt": "old"}, readZip(t, buf.Bytes()))
}

func TestWrite_DropsDotNames(t *testing.T) {
	var buf bytes.Buffer

	res, err := Write(&buf, []Entry{
		{Name: "2023/..", Open: source("up")},
		{Name: `dir\c.txt`, Open: source("c")},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"c.txt"}, res.Names)
	assert.Equal(t, map[string]string{"c.txt": "c"}, readZip(t, buf.Bytes()))
}

func TestWrite_SkipsUnreadableSources(t *testing.T) {
	var buf bytes.Buffer
	missing := errors.New("no such file")

	res, err := Write(&buf, []Entry{
		{Name: "gone.txt", Open: func() (io.ReadCloser, error) { return nil, missing }},
		{Name: "b.txt", Open: source("b")},
		{Name: "2023/", Open: source("dir")},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt"}, res.Names)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "gone.txt", res.Skipped[0].Name)
	assert.ErrorIs(t, res.Skipped[0].Err, missing)
	assert.Equal(t, map[string]string{"b.txt": "b"}, readZip(t, buf.Bytes()))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_WriteFailure(t *testing.T) {
	_, err := Write(failingWriter{}, []Entry{
		{Name: "a.txt", Open: source(strings.Repeat("x", 64*1024))},
	}, time.Now())

	assert.ErrorContains(t, err, "disk full")
}
