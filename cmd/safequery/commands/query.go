package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/extractor"
	"github.com/satishbabariya/safequery/internal/ui"
)

// prompt asks for a category interactively. Tests replace it.
var prompt = func(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, survey.WithValidator(survey.Required))
	return answer, err
}

// NewQueryCommand creates the query command.
func NewQueryCommand(app *App) *cobra.Command {
	var interactive bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query [category]",
		Short: "Look up catalog items by category",
		Long: `Run the parameterized category lookup and print the matching rows.

The category is passed to the store as a bound parameter, so quotes and
other SQL syntax in it are matched literally.`,
		Example: `  safequery query Electronics
  safequery query "x' OR '1'='1"
  safequery query -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := extractor.Map{}
			param := app.Config().Query.Param

			switch {
			case len(args) == 1:
				params[param] = args[0]
			case interactive:
				answer, err := prompt(fmt.Sprintf("%s:", param))
				if err != nil {
					return err
				}
				params[param] = answer
			}

			return runQuery(cmd.Context(), app, params, asJSON)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the category when not given")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")

	return cmd
}

func runQuery(ctx context.Context, app *App, params extractor.Params, asJSON bool) error {
	c, err := app.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	rs, err := c.CatalogService().ItemsByCategory(ctx, params)
	if err != nil {
		return err
	}

	if asJSON {
		return writeRows(rs)
	}
	return ui.PrintResultSet(rs)
}

func writeRows(rs *domain.ResultSet) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Columns []string     `json:"columns"`
		Rows    []domain.Row `json:"rows"`
	}{rs.Columns(), rs.Rows()})
}
