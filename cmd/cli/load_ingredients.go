package cli

import (
	"fmt"

	"foodgram/cmd/config"
	"foodgram/internal/utils"
	"foodgram/pkg/ingredient"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var fixturePath string

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Load the ingredient catalog from a JSON fixture",
	Long: `Reads a JSON array of {"name", "measurement_unit"} objects and stores
every ingredient whose name is not in the catalog yet. Existing ingredients are
kept unchanged. A missing file aborts without writing anything.`,
	RunE: runLoadIngredients,
}

func init() {
	loadIngredientsCmd.Flags().StringVar(&fixturePath, "file", "", "Fixture path (defaults to INGREDIENTS_FIXTURE)")
}

func runLoadIngredients(cmd *cobra.Command, args []string) error {
	path := fixturePath
	if path == "" {
		path = utils.GetConfig("INGREDIENTS_FIXTURE")
	}

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}

	utils.InitValidator()
	svc := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	res, err := svc.LoadFixture(cmd.Context(), path)
	if err != nil {
		log.Errorw("loading ingredients failed", "path", path, "error", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d of %d ingredients from %s\n", res.Inserted, res.Total, path)
	return nil
}
