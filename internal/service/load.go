package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// relatedAttachments resolves a post's relation rows to attachments, in relation order.
// IDs that no longer name an attachment are skipped.
func relatedAttachments(ctx context.Context, entities repository.EntityRepository, meta repository.MetaRepository, postID int64) ([]model.Attachment, error) {
	values, err := meta.GetAll(ctx, postID, model.MetaRelation)
	if err != nil {
		return nil, fmt.Errorf("read relation: %w", err)
	}
	ids := relationIDs(values)
	if len(ids) == 0 {
		return []model.Attachment{}, nil
	}

	ents, err := entities.FindByIDs(ctx, model.KindAttachment, ids)
	if err != nil {
		return nil, fmt.Errorf("find attachments: %w", err)
	}

	byID := make(map[int64]model.Entity, len(ents))
	for _, e := range ents {
		byID[e.ID] = e
	}
	ordered := make([]model.Entity, 0, len(ents))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			ordered = append(ordered, e)
		}
	}
	return hydrate(ctx, meta, ordered)
}

// hydrate joins attachment entities with their file and counter metadata.
func hydrate(ctx context.Context, meta repository.MetaRepository, ents []model.Entity) ([]model.Attachment, error) {
	out := make([]model.Attachment, 0, len(ents))
	if len(ents) == 0 {
		return out, nil
	}

	ids := make([]int64, len(ents))
	for i, e := range ents {
		ids[i] = e.ID
	}
	files, err := meta.GetMany(ctx, ids, model.MetaAttachedFile)
	if err != nil {
		return nil, fmt.Errorf("read attached files: %w", err)
	}
	counts, err := meta.GetMany(ctx, ids, model.MetaDownloads)
	if err != nil {
		return nil, fmt.Errorf("read download counters: %w", err)
	}

	for _, e := range ents {
		out = append(out, model.Attachment{
			ID:        e.ID,
			ParentID:  e.ParentID,
			Title:     e.Title,
			MimeType:  e.MimeType,
			File:      files[e.ID],
			Downloads: parseCount(counts[e.ID]),
		})
	}
	return out, nil
}

// relationIDs parses relation values, dropping malformed entries and repeats.
func relationIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func parseCount(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
