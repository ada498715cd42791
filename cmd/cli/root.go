package cli

import (
	"fmt"
	"os"

	"foodgram/internal/utils"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "foodgram",
	Short: "Recipe sharing API",
	Long: `Foodgram serves the recipe sharing REST API and carries the admin
tasks around it: schema migration, ingredient catalog loading and tag creation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.SetConfigPath(configPath)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(loadIngredientsCmd)
	rootCmd.AddCommand(tagCmd)
}
