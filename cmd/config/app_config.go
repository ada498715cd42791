package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/ratelimit"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/follow"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dependencies are the outside services the API talks to besides the database.
type Dependencies struct {
	Storage        storage.ImageStorage
	Mailer         mailing.Mailer
	JWTService     jwt.JWTService
	LimiterStorage fiber.Storage
	// RateLimitMax is the per-second request budget per client; 0 disables it.
	RateLimitMax int
	AccessLog    io.Writer
}

// LoadDependencies builds the outside services from configuration. The
// caller owns the result and must Close it.
func LoadDependencies(ctx context.Context) (Dependencies, error) {
	jwtService, err := jwt.NewJWTService()
	if err != nil {
		return Dependencies{}, err
	}

	rateLimitMax, err := strconv.Atoi(utils.GetConfig("RATE_LIMIT_MAX"))
	if err != nil {
		return Dependencies{}, fmt.Errorf("invalid RATE_LIMIT_MAX: %w", err)
	}

	imageStorage, err := storage.NewImageStorage(ctx)
	if err != nil {
		return Dependencies{}, fmt.Errorf("image storage: %w", err)
	}

	logDir := utils.GetConfig("LOG_DIR")
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return Dependencies{}, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		filepath.Join(logDir, "app.log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return Dependencies{}, fmt.Errorf("error opening file: %w", err)
	}

	deps := Dependencies{
		Storage:      imageStorage,
		Mailer:       mailing.NewMailer(mailing.LoadMailConfig()),
		JWTService:   jwtService,
		RateLimitMax: rateLimitMax,
		AccessLog:    file,
	}

	if addr := utils.GetConfig("REDIS_ADDR"); addr != "" {
		redisStorage, err := ratelimit.NewRedisStorage(ctx, addr, utils.GetConfig("REDIS_PASSWORD"))
		if err != nil {
			deps.Close()
			return Dependencies{}, fmt.Errorf("redis limiter storage: %w", err)
		}
		deps.LimiterStorage = redisStorage
		log.Infow("rate limiter uses redis", "addr", addr)
	}

	return deps, nil
}

// Close releases the access log file and the limiter storage.
func (d Dependencies) Close() {
	if closer, ok := d.AccessLog.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warnw("closing access log failed", "error", err)
		}
	}
	if d.LimiterStorage != nil {
		if err := d.LimiterStorage.Close(); err != nil {
			log.Warnw("closing limiter storage failed", "error", err)
		}
	}
}

func BuildApp(db *gorm.DB, deps Dependencies) *fiber.App {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName: "foodgram",
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	if deps.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "UTC",
			Output:     deps.AccessLog,
		}))
	}

	if deps.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimitMax,
			Expiration: 1 * time.Second,
			Storage:    deps.LimiterStorage,
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	followRepository := follow.NewFollowRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := deps.JWTService
	userService := user.NewUserService(userRepository, followRepository, jwtService)
	followService := follow.NewFollowService(followRepository, recipeRepository)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, followRepository, deps.Storage, deps.Mailer)

	// Handler
	userHandler := handlers.NewUserHandler(userService, followService, validator)
	catalogHandler := handlers.NewCatalogHandler(tagService, ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		CatalogHandler: catalogHandler,
		RecipeHandler:  recipeHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app
}
