package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"attachapi/internal/archive"
	"attachapi/internal/metrics"
	"attachapi/internal/model"
	"attachapi/internal/render"
	"attachapi/internal/repository"
	"attachapi/internal/storage"
)

// UploadInput carries a new attachment's content. PostID is optional.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	PostID      int64
}

// AttachmentService defines the download and upload use cases for attachments.
type AttachmentService interface {
	// URLFor returns the public download URL of a single attachment. It does not check existence.
	URLFor(attachmentID int64) string

	// PostURLFor returns the public URL that downloads all attachments of a post as a zip.
	PostURLFor(postID int64) string

	// ResolveLink renders an anchor to the attachment's download URL.
	// It returns ErrNotAttachment when the ID is not an attachment.
	ResolveLink(ctx context.Context, attachmentID int64) (string, error)

	// ListPostAttachments returns the attachments related to a post, in relation order.
	// Stale relation IDs are skipped.
	ListPostAttachments(ctx context.Context, postID int64) ([]model.Attachment, error)

	// DownloadOne opens a single attachment for streaming.
	DownloadOne(ctx context.Context, attachmentID int64) (*Transfer, error)

	// DownloadAll bundles every attachment of a post into a temporary zip and opens it
	// for streaming. The archive is deleted once the transfer is finished.
	DownloadAll(ctx context.Context, postID int64) (*Transfer, error)

	// Upload stores the content, creates the attachment and optionally relates it to a post.
	// The stored file is rolled back when the database writes fail.
	Upload(ctx context.Context, in UploadInput) (*model.Attachment, error)
}

type attachmentService struct {
	files    storage.Storage
	scratch  storage.Scratch
	entities repository.EntityRepository
	meta     repository.MetaRepository
	opts     options
}

// NewAttachmentService constructs a new AttachmentService. Attachment files are read from
// files; download archives are built in scratch.
func NewAttachmentService(files storage.Storage, scratch storage.Scratch, entities repository.EntityRepository, meta repository.MetaRepository, opts ...Option) AttachmentService {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &attachmentService{
		files:    files,
		scratch:  scratch,
		entities: entities,
		meta:     meta,
		opts:     o,
	}
}

func (s *attachmentService) URLFor(attachmentID int64) string {
	return s.opts.baseURL + "/download?id=" + strconv.FormatInt(attachmentID, 10)
}

func (s *attachmentService) PostURLFor(postID int64) string {
	return s.opts.baseURL + "/download?post_id=" + strconv.FormatInt(postID, 10)
}

func (s *attachmentService) ResolveLink(ctx context.Context, attachmentID int64) (string, error) {
	e, err := s.attachment(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	return render.Link(s.URLFor(e.ID), e.Title), nil
}

func (s *attachmentService) ListPostAttachments(ctx context.Context, postID int64) ([]model.Attachment, error) {
	return relatedAttachments(ctx, s.entities, s.meta, postID)
}

func (s *attachmentService) DownloadOne(ctx context.Context, attachmentID int64) (*Transfer, error) {
	ctx, span := s.opts.tracer.Start(ctx, "attachments.DownloadOne",
		trace.WithAttributes(attribute.Int64("attachment.id", attachmentID)))
	defer span.End()

	e, err := s.attachment(ctx, attachmentID)
	if err != nil {
		return nil, spanError(span, err)
	}

	file, _, err := s.meta.Get(ctx, e.ID, model.MetaAttachedFile)
	if err != nil {
		return nil, spanError(span, fmt.Errorf("read attached file: %w", err))
	}
	if file == "" {
		return nil, spanError(span, ErrFileUnavailable)
	}

	rc, info, err := s.files.Get(ctx, file)
	if err != nil {
		s.opts.logger.DebugContext(ctx, "attachment file unavailable",
			slog.Int64("attachment_id", e.ID), slog.String("file", file), slog.Any("error", err))
		return nil, spanError(span, ErrFileUnavailable)
	}

	t := newTransfer(file, info.Size, rc, s.opts.chunkSize, metrics.ScopeSingle, s.opts.metrics)
	t.OnComplete(func(ctx context.Context) { s.countDownload(ctx, e.ID) })
	s.opts.metrics.Started(metrics.ScopeSingle)
	span.SetAttributes(attribute.Int64("file.size", info.Size))
	return t, nil
}

func (s *attachmentService) DownloadAll(ctx context.Context, postID int64) (*Transfer, error) {
	ctx, span := s.opts.tracer.Start(ctx, "attachments.DownloadAll",
		trace.WithAttributes(attribute.Int64("post.id", postID)))
	defer span.End()

	atts, err := s.ListPostAttachments(ctx, postID)
	if err != nil {
		return nil, spanError(span, err)
	}
	if len(atts) == 0 {
		return nil, spanError(span, ErrNoAttachments)
	}

	name := s.opts.token() + ".zip"
	f, err := s.scratch.Create(name)
	if err != nil {
		s.opts.logger.ErrorContext(ctx, "cannot create download archive",
			slog.String("path", s.scratch.Path(name)), slog.Any("error", err))
		return nil, spanError(span, &ArchiveOpenError{Name: name, Path: s.scratch.Path(name), Err: err})
	}

	entries := make([]archive.Entry, 0, len(atts))
	for _, a := range atts {
		file := a.File
		entries = append(entries, archive.Entry{
			Name: file,
			Open: func() (io.ReadCloser, error) {
				if file == "" {
					return nil, ErrFileUnavailable
				}
				rc, _, err := s.files.Get(ctx, file)
				return rc, err
			},
		})
	}

	res, werr := archive.Write(f, entries, s.opts.now())
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		s.discard(ctx, name)
		return nil, spanError(span, fmt.Errorf("build archive: %w", werr))
	}
	for _, sk := range res.Skipped {
		s.opts.logger.WarnContext(ctx, "attachment left out of archive",
			slog.Int64("post_id", postID), slog.String("file", sk.Name), slog.Any("error", sk.Err))
	}
	if len(res.Names) == 0 {
		s.discard(ctx, name)
		return nil, spanError(span, ErrFileUnavailable)
	}
	s.opts.metrics.ArchiveBuilt(len(res.Names))

	rc, info, err := s.scratch.Get(ctx, name)
	if err != nil {
		s.discard(ctx, name)
		return nil, spanError(span, ErrFileUnavailable)
	}

	t := newTransfer(name, info.Size, rc, s.opts.chunkSize, metrics.ScopeBundle, s.opts.metrics)
	t.OnCleanup(func() { s.discard(ctx, name) })
	for _, a := range atts {
		id := a.ID
		t.OnComplete(func(ctx context.Context) { s.countDownload(ctx, id) })
	}
	s.opts.metrics.Started(metrics.ScopeBundle)
	span.SetAttributes(attribute.Int("archive.entries", len(res.Names)), attribute.Int64("file.size", info.Size))
	return t, nil
}

func (s *attachmentService) Upload(ctx context.Context, in UploadInput) (*model.Attachment, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if in.PostID != 0 {
		post, err := s.entities.FindByID(ctx, in.PostID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrPostNotFound
			}
			return nil, err
		}
		if post.IsAttachment() {
			return nil, ErrPostNotFound
		}
	}

	now := s.opts.now()
	name := uploadName(in.Filename)
	key := path.Join(now.Format("2006/01"), uuid.NewString(), name)

	objInfo, err := s.files.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	ent, err := s.entities.Create(ctx, &model.Entity{
		Kind:      model.KindAttachment,
		Title:     strings.TrimSuffix(name, path.Ext(name)),
		MimeType:  in.ContentType,
		ParentID:  in.PostID,
		CreatedAt: now,
	})
	if err != nil {
		return nil, s.rollbackUpload(ctx, key, 0, err)
	}
	if err := s.meta.Set(ctx, ent.ID, model.MetaAttachedFile, objInfo.Key); err != nil {
		return nil, s.rollbackUpload(ctx, key, ent.ID, err)
	}
	if in.PostID != 0 {
		if err := s.meta.Add(ctx, in.PostID, model.MetaRelation, strconv.FormatInt(ent.ID, 10)); err != nil {
			return nil, fmt.Errorf("relate to post: %w", err)
		}
	}

	return &model.Attachment{
		ID:       ent.ID,
		ParentID: ent.ParentID,
		Title:    ent.Title,
		MimeType: ent.MimeType,
		File:     objInfo.Key,
	}, nil
}

func (s *attachmentService) rollbackUpload(ctx context.Context, key string, entityID int64, cause error) error {
	if entityID != 0 {
		if err := s.entities.Delete(ctx, entityID); err != nil {
			s.opts.logger.ErrorContext(ctx, "rollback attachment row failed",
				slog.Int64("attachment_id", entityID), slog.Any("error", err))
		}
	}
	if delErr := s.files.Delete(ctx, key); delErr != nil {
		return fmt.Errorf("db save failed: %v; rollback delete failed: %v", cause, delErr)
	}
	return fmt.Errorf("db save failed: %w", cause)
}

// attachment loads id and checks that it is an attachment.
func (s *attachmentService) attachment(ctx context.Context, id int64) (*model.Entity, error) {
	if id <= 0 {
		return nil, ErrNotAttachment
	}
	e, err := s.entities.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotAttachment
		}
		return nil, err
	}
	if !e.IsAttachment() {
		return nil, ErrNotAttachment
	}
	return e, nil
}

// countDownload adds one to the attachment's download counter. The read and the
// write are separate statements, so concurrent downloads may lose an increment.
func (s *attachmentService) countDownload(ctx context.Context, id int64) {
	v, _, err := s.meta.Get(ctx, id, model.MetaDownloads)
	if err != nil {
		s.opts.logger.ErrorContext(ctx, "read download counter failed",
			slog.Int64("attachment_id", id), slog.Any("error", err))
		return
	}
	next := strconv.FormatInt(parseCount(v)+1, 10)
	if err := s.meta.Set(ctx, id, model.MetaDownloads, next); err != nil {
		s.opts.logger.ErrorContext(ctx, "write download counter failed",
			slog.Int64("attachment_id", id), slog.Any("error", err))
	}
}

func (s *attachmentService) discard(ctx context.Context, name string) {
	if err := s.scratch.Remove(name); err != nil {
		s.opts.logger.ErrorContext(ctx, "remove download archive failed",
			slog.String("path", s.scratch.Path(name)), slog.Any("error", err))
	}
}

func uploadName(original string) string {
	name := strings.TrimSpace(model.BaseName(strings.ReplaceAll(original, `\`, "/")))
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
