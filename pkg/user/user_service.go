package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"
	"foodgram/pkg/follow"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, viewerID string, page, limit int) ([]domain.UserResponse, int64, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
	}

	userService struct {
		userRepository   UserRepository
		followRepository follow.FollowRepository
		jwtService       jwt.JWTService
	}
)

func NewUserService(
	userRepository UserRepository,
	followRepository follow.FollowRepository,
	jwtService jwt.JWTService,
) UserService {
	return &userService{
		userRepository:   userRepository,
		followRepository: followRepository,
		jwtService:       jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	if strings.EqualFold(req.Username, "me") {
		return domain.UserResponse{}, domain.ErrReservedUsername
	}
	if !utils.IsValidUsername(req.Username) {
		return domain.UserResponse{}, domain.NewFieldError("username", domain.Validation("username contains invalid characters"))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}

	exists, err = s.userRepository.CheckUsernameExists(ctx, req.Username)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrUsernameAlreadyTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	log.Infow("user registered", "user_id", user.ID.String())
	return follow.NewUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String())
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return follow.NewUserResponse(user, false), nil
}

func (s *userService) GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	subscribed, err := s.followRepository.IsFollowing(ctx, viewerID, user.ID.String())
	if err != nil {
		return domain.UserResponse{}, err
	}
	return follow.NewUserResponse(user, subscribed), nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID string, page, limit int) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID.String())
	}
	followed, err := s.followRepository.GetFollowedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		res = append(res, follow.NewUserResponse(user, followed[user.ID.String()]))
	}
	return res, count, nil
}

// SetPassword replaces the password after checking the current one. Issued
// tokens stay valid until they expire.
func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.NewFieldError("current_password", domain.ErrWrongCurrentPassword)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, user.ID.String(), string(hashed)); err != nil {
		return err
	}

	log.Infow("password changed", "user_id", userID)
	return nil
}

func (s *userService) findUser(ctx context.Context, id string) (*entities.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.userRepository.GetUserByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
