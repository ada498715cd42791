package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Migrate the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := migration.Migrate(db); err != nil {
			return err
		}
	}

	deps, err := config.LoadDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	app := config.BuildApp(db, deps)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", utils.GetConfig("APP_PORT"))
	log.Infow("starting server", "addr", addr)
	return app.Listen(addr)
}
