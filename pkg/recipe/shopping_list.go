package recipe

import (
	"bytes"
	"context"
	"fmt"

	"foodgram/domain"
	"foodgram/internal/utils/mailing"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofiber/fiber/v2/log"
)

const shoppingListHeader = "Shopping list:\n"

// shoppingListQuery sums line amounts over every recipe in the user's cart,
// one row per ingredient name and unit.
func shoppingListQuery(userID string) (string, []any, error) {
	return sq.Select(
		"i.name AS name",
		"i.measurement_unit AS measurement_unit",
		"SUM(ri.amount) AS total_amount",
	).
		From("recipe_ingredients ri").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Join("shopping_carts sc ON sc.recipe_id = ri.recipe_id").
		Where(sq.Eq{"sc.user_id": userID}).
		GroupBy("i.name", "i.measurement_unit").
		OrderBy("i.name", "i.measurement_unit").
		ToSql()
}

func (r *recipeRepository) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	query, args, err := shoppingListQuery(userID)
	if err != nil {
		return nil, err
	}

	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList writes one "<name> - <amount> <unit>." line per item.
func RenderShoppingList(items []domain.ShoppingListItem) []byte {
	var buf bytes.Buffer
	buf.WriteString(shoppingListHeader)
	for _, item := range items {
		fmt.Fprintf(&buf, "%s - %d %s.\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return buf.Bytes()
}

func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrShoppingCartEmpty
	}
	return items, nil
}

func (s *recipeService) BuildShoppingList(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	return RenderShoppingList(items), nil
}

// SendShoppingList mails the rendered list to the user as cart.txt.
func (s *recipeService) SendShoppingList(ctx context.Context, userID string) error {
	if s.mailer == nil {
		return domain.Configuration("mailer is not configured")
	}

	user, err := s.followRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	content, err := s.BuildShoppingList(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.mailer.SendMail(
		user.Email,
		"Your Foodgram shopping list",
		"Hi "+user.FirstName+",\n\nyour shopping list is attached.\n",
		mailing.Attachment{Filename: domain.ShoppingListFilename, Content: content},
	); err != nil {
		log.Errorw("sending shopping list failed", "user_id", userID, "error", err)
		return err
	}

	log.Infow("shopping list sent", "user_id", userID)
	return nil
}
