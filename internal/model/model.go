package model

// Package model contains domain models/data structures.
// Keep it free of persistence and transport concerns; no business logic here.

// KindAttachment is the entity kind of uploaded media files.
const KindAttachment = "attachment"

// Metadata keys stored in the per-entity key-value store.
const (
	// MetaAttachedFile holds the attachment's path relative to the file store root.
	MetaAttachedFile = "_attached_file"
	// MetaDownloads holds the attachment's download counter as a decimal string.
	MetaDownloads = "_attachment_downloads"
	// MetaRelation is repeated on a content item, one row per related attachment id.
	MetaRelation = "attachment"
)
