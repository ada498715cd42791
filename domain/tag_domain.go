package domain

var (
	MessageSuccessGetTags = "success get tags"
	MessageSuccessGetTag  = "success get tag"

	MessageFailedGetTags = "failed to get tags"
	MessageFailedGetTag  = "failed to get tag"

	ErrTagNotFound           = NotFound("tag not found")
	ErrTagNameAlreadyExists  = Conflict("tag with this name already exists")
	ErrTagColorAlreadyExists = Conflict("tag with this color already exists")
	ErrTagSlugAlreadyExists  = Conflict("tag with this slug already exists")
	ErrInvalidTagColor       = Validation("color must be a HEX value like #RGB or #RRGGBB")
)

type (
	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=150"`
		Color string `json:"color" validate:"required,tagcolor"`
		Slug  string `json:"slug" validate:"required,max=150,slug"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
)
