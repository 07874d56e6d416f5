package model

import "time"

// Entity is a stored content item or attachment. Kind is either a registered content
// type name (e.g. "post") or KindAttachment.
type Entity struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	MimeType  string    `json:"mime_type,omitempty"`
	ParentID  int64     `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAttachment reports whether the entity is an uploaded media file.
func (e *Entity) IsAttachment() bool {
	return e != nil && e.Kind == KindAttachment
}
