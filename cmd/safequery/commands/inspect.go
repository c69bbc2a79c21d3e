package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/safequery/internal/adapters/database"
	"github.com/satishbabariya/safequery/internal/core/query/builder"
	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/ui"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <category>",
		Short: "Compare parameterized and concatenated construction",
		Long: `Show the parameterized query built for a category next to the
concatenated query the same input would produce, with audit findings for the
latter. Nothing is sent to the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config()

			d, err := database.Lookup(cfg.Database.Provider)
			if err != nil {
				return err
			}
			b, err := builder.New(d, cfg.Query.Statement())
			if err != nil {
				return err
			}

			report, err := inspectReport(b, domain.CategoryIdentifier(args[0]))
			if err != nil {
				return err
			}

			if plain {
				_, err = fmt.Fprint(ui.Out, report)
				return err
			}
			return ui.PrintMarkdown(report)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")

	return cmd
}

// inspectReport renders both constructions as markdown.
func inspectReport(b *builder.Builder, id domain.CategoryIdentifier) (string, error) {
	safe, err := b.BuildSafe(id)
	if err != nil {
		return "", err
	}
	unsafe := b.BuildUnsafe(id)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Category lookup (%s)\n\n", b.Dialect().Name)

	sb.WriteString("## Parameterized\n\n")
	fmt.Fprintf(&sb, "```sql\n%s\n```\n\n", safe.Template())
	sb.WriteString("| # | Parameter |\n|---|---|\n")
	for i, p := range safe.Params() {
		fmt.Fprintf(&sb, "| %d | `%s` |\n", i+1, escapeCell(fmt.Sprintf("%q", p)))
	}

	sb.WriteString("\n## Concatenated (not executable)\n\n")
	fmt.Fprintf(&sb, "```sql\n%s\n```\n\n", unsafe.Text)
	sb.WriteString("| Rule | Finding |\n|---|---|\n")
	for _, f := range unsafe.Findings {
		fmt.Fprintf(&sb, "| %s | %s |\n", f.Rule, escapeCell(f.Message))
	}

	return sb.String(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
