package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// TypeRegistry reports which content types accept attachments.
type TypeRegistry interface {
	IsRegistered(name string) bool
}

// AttachmentListResult is the service-level DTO for paginated attachments.
type AttachmentListResult struct {
	Items []model.Attachment `json:"data"`
	Total int                `json:"total"`
}

// RelationService manages which attachments are related to a content item and in
// what order. Every operation checks that the post exists with the given type.
type RelationService interface {
	// Rows returns the related attachments in display order.
	Rows(ctx context.Context, postType string, postID int64) ([]model.Attachment, error)

	// Attach relates an attachment to the post. Attaching twice is a no-op.
	Attach(ctx context.Context, postType string, postID, attachmentID int64) error

	// Detach removes an attachment from the post. Detaching an unrelated ID is a no-op.
	Detach(ctx context.Context, postType string, postID, attachmentID int64) error

	// Reorder moves ids to the front in the given order; the remaining attachments keep
	// their relative order after them. Every ID must already be related.
	Reorder(ctx context.Context, postType string, postID int64, ids []int64) error

	// Available returns all attachments, newest first, using limit/offset and a total count.
	Available(ctx context.Context, limit, offset int) (*AttachmentListResult, error)
}

type relationService struct {
	types    TypeRegistry
	entities repository.EntityRepository
	meta     repository.MetaRepository
}

// NewRelationService constructs a new RelationService.
func NewRelationService(types TypeRegistry, entities repository.EntityRepository, meta repository.MetaRepository) RelationService {
	return &relationService{types: types, entities: entities, meta: meta}
}

func (s *relationService) Rows(ctx context.Context, postType string, postID int64) ([]model.Attachment, error) {
	if err := s.checkPost(ctx, postType, postID); err != nil {
		return nil, err
	}
	return relatedAttachments(ctx, s.entities, s.meta, postID)
}

func (s *relationService) Attach(ctx context.Context, postType string, postID, attachmentID int64) error {
	if err := s.checkPost(ctx, postType, postID); err != nil {
		return err
	}
	e, err := s.entities.FindByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotAttachment
		}
		return err
	}
	if !e.IsAttachment() {
		return ErrNotAttachment
	}

	current, err := s.currentIDs(ctx, postID)
	if err != nil {
		return err
	}
	for _, id := range current {
		if id == attachmentID {
			return nil
		}
	}
	return s.meta.Add(ctx, postID, model.MetaRelation, strconv.FormatInt(attachmentID, 10))
}

func (s *relationService) Detach(ctx context.Context, postType string, postID, attachmentID int64) error {
	if err := s.checkPost(ctx, postType, postID); err != nil {
		return err
	}
	return s.meta.DeleteValue(ctx, postID, model.MetaRelation, strconv.FormatInt(attachmentID, 10))
}

func (s *relationService) Reorder(ctx context.Context, postType string, postID int64, ids []int64) error {
	if err := s.checkPost(ctx, postType, postID); err != nil {
		return err
	}
	current, err := s.currentIDs(ctx, postID)
	if err != nil {
		return err
	}

	related := make(map[int64]bool, len(current))
	for _, id := range current {
		related[id] = false
	}

	values := make([]string, 0, len(current))
	for _, id := range ids {
		placed, ok := related[id]
		if !ok {
			return fmt.Errorf("%w: %d", ErrNotRelated, id)
		}
		if placed {
			continue
		}
		related[id] = true
		values = append(values, strconv.FormatInt(id, 10))
	}
	for _, id := range current {
		if !related[id] {
			values = append(values, strconv.FormatInt(id, 10))
		}
	}
	return s.meta.Replace(ctx, postID, model.MetaRelation, values)
}

func (s *relationService) Available(ctx context.Context, limit, offset int) (*AttachmentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.entities.List(ctx, model.KindAttachment, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items, err := hydrate(ctx, s.meta, res.Items)
	if err != nil {
		return nil, err
	}
	return &AttachmentListResult{Items: items, Total: res.Total}, nil
}

func (s *relationService) checkPost(ctx context.Context, postType string, postID int64) error {
	if !s.types.IsRegistered(postType) {
		return ErrUnknownContentType
	}
	if postID <= 0 {
		return ErrPostNotFound
	}
	post, err := s.entities.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if post.Kind != postType {
		return ErrPostNotFound
	}
	return nil
}

func (s *relationService) currentIDs(ctx context.Context, postID int64) ([]int64, error) {
	values, err := s.meta.GetAll(ctx, postID, model.MetaRelation)
	if err != nil {
		return nil, fmt.Errorf("read relation: %w", err)
	}
	return relationIDs(values), nil
}
