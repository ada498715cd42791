package domain

const (
	DefaultPageLimit    = 6
	MaxPageLimit        = 100
	DefaultRecipesLimit = 3
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"

	ErrParseUUID     = Validation("failed to parse UUID")
	ErrTokenNotFound = Unauthorized("failed to token not found")
	ErrTokenExpired  = Unauthorized("token expired")
	ErrTokenInvalid  = Unauthorized("token invalid")
)

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}
