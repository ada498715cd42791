package domain

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "user logged in successfully"
	MessageSuccessGetUser  = "success get user"
	MessageSuccessGetUsers = "success get users"

	MessageFailedRegister    = "failed to register user"
	MessageFailedLogin       = "failed to login"
	MessageFailedGetUser     = "failed to get user"
	MessageFailedGetUsers    = "failed to get users"
	MessageFailedSetPassword = "failed to change password"

	ErrUserNotFound         = NotFound("user not found")
	ErrEmailAlreadyExists   = Conflict("user with this email already exists")
	ErrUsernameAlreadyTaken = Conflict("user with this username already exists")
	ErrInvalidCredentials   = Unauthorized("invalid email or password")
	ErrReservedUsername     = Validation(`username "me" is reserved`)
	ErrWrongCurrentPassword = Validation("current password is incorrect")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SetPasswordRequest struct {
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
		CurrentPassword string `json:"current_password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}
)
