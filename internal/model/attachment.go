package model

import "strings"

// Attachment is the read model of an attachment entity joined with its metadata.
type Attachment struct {
	ID        int64  `json:"id"`
	ParentID  int64  `json:"parent_id,omitempty"`
	Title     string `json:"title"`
	MimeType  string `json:"mime_type,omitempty"`
	File      string `json:"file"`
	Downloads int64  `json:"downloads"`
}

// IsImage reports whether the attachment can be shown as a thumbnail.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// BaseName is the file name without any directory prefix.
func (a Attachment) BaseName() string {
	return BaseName(a.File)
}

// BaseName strips everything up to and including the last '/' or '\'.
func BaseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
