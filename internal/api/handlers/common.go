package handlers

import (
	"strconv"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

// viewerID is the caller's id, empty for anonymous requests.
func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func paginationParams(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageLimit)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	return page, limit
}

func paginated(items any, page, limit int, total int64) fiber.Map {
	return fiber.Map{
		"items":      items,
		"pagination": domain.NewPagination(page, limit, total),
	}
}
