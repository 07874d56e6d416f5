package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"attachapi/internal/metrics"
	"attachapi/internal/model"
)

// DefaultChunkSize is the number of bytes copied and flushed per iteration.
const DefaultChunkSize = 512 * 1024

// expiredDate is sent as Expires so that intermediaries never cache a download.
const expiredDate = "Mon, 26 Jul 1997 05:00:00 GMT"

// FlushWriter is the response body a transfer is streamed into. A write or flush
// error is treated as the client having gone away.
type FlushWriter interface {
	io.Writer
	Flush() error
}

// Transfer is a download whose file handle is already open. It exists only when the
// file could be opened, so callers that get one may send headers.
//
// A Transfer must be finished exactly once, either with Stream or with Close.
type Transfer struct {
	filename  string
	size      int64
	body      io.ReadCloser
	chunkSize int
	scope     string
	metrics   *metrics.Downloads

	cleanup  []func()
	complete []func(ctx context.Context)
	once     sync.Once
}

// NewTransfer wraps an opened body of size bytes that is sent as filename.
// chunkSize <= 0 selects DefaultChunkSize.
func NewTransfer(filename string, size int64, body io.ReadCloser, chunkSize int) *Transfer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Transfer{
		filename:  filename,
		size:      size,
		body:      body,
		chunkSize: chunkSize,
	}
}

func newTransfer(filename string, size int64, body io.ReadCloser, chunkSize int, scope string, m *metrics.Downloads) *Transfer {
	t := NewTransfer(filename, size, body, chunkSize)
	t.scope = scope
	t.metrics = m
	return t
}

// Filename is the directory-stripped, percent-decoded name sent to the client.
func (t *Transfer) Filename() string {
	name := model.BaseName(t.filename)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

// Size is the exact number of bytes the body holds.
func (t *Transfer) Size() int64 { return t.size }

// Header returns the response headers for a forced binary download.
func (t *Transfer) Header() http.Header {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": t.Filename()})
	if disposition == "" {
		disposition = "attachment"
	}

	h := make(http.Header)
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Disposition", disposition)
	h.Set("Content-Transfer-Encoding", "binary")
	h.Set("Accept-Ranges", "bytes")
	h.Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", expiredDate)
	h.Set("Content-Length", strconv.FormatInt(t.size, 10))
	return h
}

// OnCleanup registers fn to run after the body is closed, whether or not it was streamed.
func (t *Transfer) OnCleanup(fn func()) {
	t.cleanup = append(t.cleanup, fn)
}

// OnComplete registers fn to run after Stream returns. It does not run on Close.
func (t *Transfer) OnComplete(fn func(ctx context.Context)) {
	t.complete = append(t.complete, fn)
}

// Stream copies the body to w in fixed-size chunks, flushing after each one. It stops
// early when w fails or ctx is done. Cleanup and completion hooks run before it returns,
// including after an early stop: a started download counts even if the client leaves.
func (t *Transfer) Stream(ctx context.Context, w FlushWriter) (int64, error) {
	buf := make([]byte, t.chunkSize)
	var (
		written   int64
		streamErr error
	)

	for {
		if err := ctx.Err(); err != nil {
			streamErr = err
			break
		}

		n, rerr := io.ReadFull(t.body, buf)
		if n > 0 {
			m, werr := w.Write(buf[:n])
			written += int64(m)
			if werr == nil {
				werr = w.Flush()
			}
			if werr != nil {
				streamErr = werr
				break
			}
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			streamErr = rerr
			break
		}
	}

	t.finish(ctx)
	t.metrics.Finished(t.scope, written, streamErr == nil && written == t.size)
	return written, streamErr
}

// Close abandons a transfer that was never streamed. Only cleanup hooks run.
func (t *Transfer) Close() error {
	var err error
	t.once.Do(func() {
		err = t.release()
	})
	return err
}

func (t *Transfer) finish(ctx context.Context) {
	t.once.Do(func() {
		_ = t.release()
		ctx = context.WithoutCancel(ctx)
		for _, fn := range t.complete {
			fn(ctx)
		}
	})
}

func (t *Transfer) release() error {
	err := t.body.Close()
	for _, fn := range t.cleanup {
		fn()
	}
	return err
}
