package cli

import (
	"fmt"

	"foodgram/cmd/config"
	"foodgram/domain"
	"foodgram/internal/utils"
	"foodgram/pkg/tag"

	"github.com/spf13/cobra"
)

var (
	tagName  string
	tagColor string
	tagSlug  string
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage recipe tags",
}

var tagCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a tag",
	Example: `  foodgram tag create --name Breakfast --color "#E26C2D" --slug breakfast`,
	RunE:    runTagCreate,
}

func init() {
	tagCreateCmd.Flags().StringVar(&tagName, "name", "", "Tag name")
	tagCreateCmd.Flags().StringVar(&tagColor, "color", "", "HEX color, #RGB or #RRGGBB")
	tagCreateCmd.Flags().StringVar(&tagSlug, "slug", "", "URL slug")
	_ = tagCreateCmd.MarkFlagRequired("name")
	_ = tagCreateCmd.MarkFlagRequired("color")
	_ = tagCreateCmd.MarkFlagRequired("slug")

	tagCmd.AddCommand(tagCreateCmd)
}

func runTagCreate(cmd *cobra.Command, args []string) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}

	utils.InitValidator()
	svc := tag.NewTagService(tag.NewTagRepository(db))
	res, err := svc.CreateTag(cmd.Context(), domain.CreateTagRequest{
		Name:  tagName,
		Color: tagColor,
		Slug:  tagSlug,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created tag %s (%s)\n", res.Slug, res.ID)
	return nil
}
