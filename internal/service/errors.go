package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAttachment is returned when an ID does not resolve to an attachment entity.
	ErrNotAttachment = errors.New("not an attachment")
	// ErrNoAttachments is returned when a post has no attachments to bundle.
	ErrNoAttachments = errors.New("the post has no attachments to download")
	// ErrFileUnavailable is returned when a stored file is missing or unreadable.
	ErrFileUnavailable = errors.New("file is missing or unreadable")
	// ErrReaderNil is returned by Upload when no content reader is given.
	ErrReaderNil = errors.New("reader is nil")
	// ErrPostNotFound is returned when a content item does not exist or has another type.
	ErrPostNotFound = errors.New("post not found")
	// ErrUnknownContentType is returned for content types that were never registered.
	ErrUnknownContentType = errors.New("content type is not registered for attachments")
	// ErrNotRelated is returned by Reorder for IDs that are not attached to the post.
	ErrNotRelated = errors.New("attachment is not related to the post")
)

// ArchiveOpenError reports that the temporary download archive could not be created.
type ArchiveOpenError struct {
	Name string
	Path string
	Err  error
}

func (e *ArchiveOpenError) Error() string {
	return fmt.Sprintf("cannot open <%s> zip file", e.Name)
}

func (e *ArchiveOpenError) Unwrap() error { return e.Err }
