package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// stdio is the file argument that selects standard input or output.
const stdio = "-"

func (c *cli) randomCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random quote",
		Long:  "Print a random quote from the category, or from the saved filter when none is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quote, err := c.core.Quotes.RandomQuote(cmd.Context(), c.sessionID, category)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd, quote)
			}

			return printQuote(cmd.OutOrStdout(), quote)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", `category filter, "all" for every category`)

	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var text, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quote, err := c.core.Quotes.AddQuote(cmd.Context(), text, category)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd, quote)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %q to %s (%d quotes)\n",
				quote.Text, quote.Category, c.core.Quotes.Count())

			return err
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "quote text")
	cmd.Flags().StringVarP(&category, "category", "c", "", "quote category")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories, marking the saved filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			selected, err := c.core.Quotes.SelectedFilter(ctx)
			if err != nil {
				return err
			}

			categories := c.core.Quotes.Categories(ctx)

			if c.asJSON {
				return printJSON(cmd, map[string]any{"categories": categories, "selected": selected})
			}

			out := cmd.OutOrStdout()
			for _, category := range append([]string{domain.FilterAll}, categories...) {
				marker := " "
				if category == selected {
					marker = "*"
				}

				if _, err := fmt.Fprintf(out, "%s %s\n", marker, category); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes",
		Long:  "List the quotes in the category, or in the saved filter when none is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes, err := c.core.Quotes.ListQuotes(cmd.Context(), category)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd, quotes)
			}

			out := cmd.OutOrStdout()
			if len(quotes) == 0 {
				_, err := fmt.Fprintln(out, "No quotes available. Add some!")
				return err
			}

			for _, quote := range quotes {
				if err := printQuote(out, quote); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", `category filter, "all" for every category`)

	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := c.core.Quotes.Export(cmd.Context())
			if err != nil {
				return err
			}

			if out == stdio {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			if err := os.WriteFile(out, append(data, '\n'), 0o600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}

			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d quotes to %s\n", c.core.Quotes.Count(), out)

			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", app.ExportFilename, `output file, "-" for stdout`)

	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the collection with a JSON array of quotes",
		Long: `Replace the collection with the quotes in a JSON file ("-" reads stdin).

Every element must be an object with "text" and "category" strings; otherwise
nothing is changed. Unless --offline is set the collection is reconciled with
the remote endpoint afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := c.core.Quotes.Import(cmd.Context(), data)
			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "imported %d quotes\n", result.Imported); err != nil {
				return err
			}

			switch {
			case result.SyncError != "":
				_, err = fmt.Fprintf(out, "sync failed: %s\n", result.SyncError)
			case result.Sync != nil:
				err = printSync(out, result.Sync)
			}

			return err
		},
	}
}

func (c *cli) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the collection with the remote endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.core.Sync.Reconcile(cmd.Context(), app.TriggerManual)
			if result != nil {
				if c.asJSON {
					if printErr := printJSON(cmd, result); printErr != nil {
						return printErr
					}
				} else if printErr := printSync(cmd.OutOrStdout(), result); printErr != nil {
					return printErr
				}
			}

			return err
		},
	}
}

func (c *cli) filterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter [category]",
		Short: "Show or save the category filter",
		Long:  `Without an argument, print the saved filter. With one, save it; "" or "all" selects every category.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				filter string
				err    error
			)

			if len(args) == 0 {
				filter, err = c.core.Quotes.SelectedFilter(ctx)
			} else {
				filter, err = c.core.Quotes.SetSelectedFilter(ctx, args[0])
			}

			if err != nil {
				return err
			}

			if c.asJSON {
				return printJSON(cmd, map[string]string{"category": filter})
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), filter)

			return err
		},
	}
}

func printQuote(w io.Writer, quote domain.Quote) error {
	_, err := fmt.Fprintf(w, "%q (%s)\n", quote.Text, quote.Category)
	return err
}

func printSync(w io.Writer, result *app.SyncResult) error {
	line := fmt.Sprintf("sync %s: %d remote, %d local only, %d total",
		result.Status, result.RemoteCount, result.UnmergedLocal, result.Total)

	if result.Error != "" {
		line += " (" + result.Error + ")"
	}

	_, err := fmt.Fprintln(w, line)

	return err
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(cmd.InOrStdin())
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	return data, nil
}
