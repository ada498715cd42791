package tag

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagService interface {
		CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error)
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTag(ctx context.Context, id string) (domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) CreateTag(ctx context.Context, req domain.CreateTagRequest) (domain.TagResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	if !utils.IsValidTagColor(req.Color) {
		return domain.TagResponse{}, domain.NewFieldError("color", domain.ErrInvalidTagColor)
	}
	if err := utils.Validate.Struct(req); err != nil {
		return domain.TagResponse{}, err
	}

	unique := []struct {
		field string
		value string
		err   error
	}{
		{"name", req.Name, domain.ErrTagNameAlreadyExists},
		{"color", req.Color, domain.ErrTagColorAlreadyExists},
		{"slug", req.Slug, domain.ErrTagSlugAlreadyExists},
	}
	for _, u := range unique {
		exists, err := s.tagRepository.CheckTagFieldExists(ctx, u.field, u.value)
		if err != nil {
			return domain.TagResponse{}, err
		}
		if exists {
			return domain.TagResponse{}, u.err
		}
	}

	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  req.Name,
		Color: req.Color,
		Slug:  req.Slug,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return domain.TagResponse{}, err
	}

	log.Infow("tag created", "tag_id", tag.ID.String(), "slug", tag.Slug)
	return NewTagResponse(tag), nil
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		res = append(res, NewTagResponse(tag))
	}
	return res, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (domain.TagResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.TagResponse{}, domain.ErrTagNotFound
	}

	tag, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, err
	}
	return NewTagResponse(tag), nil
}

func NewTagResponse(tag *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}
