package follow

import (
	"foodgram/domain"
	"foodgram/entities"
)

func NewUserResponse(user *entities.User, isSubscribed bool) domain.UserResponse {
	if user == nil {
		return domain.UserResponse{}
	}
	return domain.UserResponse{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func NewRecipeShort(recipe *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
