package domain

var (
	MessageSuccessFollow           = "subscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedFollow           = "failed to subscribe"
	MessageFailedUnfollow         = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrSelfFollow       = Validation("cannot subscribe to yourself")
	ErrAlreadyFollowing = Conflict("already subscribed to this author")
	ErrNotFollowing     = NotFound("not subscribed to this author")
)

type (
	FolloweeResponse struct {
		UserResponse
		Recipes      []RecipeShort `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}
)
