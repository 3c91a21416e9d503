package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"lang-editor/internal/browse"
	"lang-editor/internal/langfile"
	"lang-editor/internal/markup"
	"lang-editor/internal/preview"
	"lang-editor/internal/textutil"

	"github.com/spf13/cobra"
)

func (a *app) showCmd() *cobra.Command {
	var (
		query string
		page  int
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "List the entries of a lang file, one page at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), doc, query, page-1, a.cfg.PageSize)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "search", "s", "", "Only show entries whose key or value contains this text")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number, starting at 1")
	return cmd
}

func printPage(w io.Writer, doc *langfile.Document, query string, number, size int) {
	results := doc.Search(query)
	page := browse.Paginate(results, number, size)

	fmt.Fprintf(w, "%s (%d %s)\n", doc.FileName(), doc.Len(), textutil.Plural(doc.Len(), "entry"))
	fmt.Fprintf(w, "%s - %s\n", page.Label(), page.ResultLabel())
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}

	left, right := browse.Columns(page.Items)
	for i, e := range left {
		row := fmt.Sprintf("%-*s", browse.KeyWidth+2, browse.Row(e))
		if i < len(right) {
			row += browse.Row(right[i])
		}
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <key>",
		Short: "Print an entry's raw value and a colored preview",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			e, ok := doc.Get(args[1])
			if !ok {
				return fmt.Errorf("get %q: %w", args[1], langfile.ErrEntryNotFound)
			}

			out := cmd.OutOrStdout()
			r := preview.New(out)
			fmt.Fprintln(out, e.Value())
			fmt.Fprintln(out)
			for _, line := range r.Value(e.Value()) {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "set <file> <key> <value>",
		Short: "Change an entry's value and save",
		Long: `Change an entry's value and save. The value is written as given, so
line breaks are typed as a literal \n.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[1], args[2]
			return a.mutate(cmd, args[0], func(doc *langfile.Document) error {
				err := doc.Update(key, key, value)
				if errors.Is(err, langfile.ErrEntryNotFound) && create {
					_, err = doc.Add(key, value)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "Add the entry if it does not exist")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file> <key> <value>",
		Short: "Append a new entry and save",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, args[0], func(doc *langfile.Document) error {
				_, err := doc.Add(args[1], args[2])
				return err
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <file> <key>",
		Aliases: []string{"rm"},
		Short:   "Remove an entry and save",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, args[0], func(doc *langfile.Document) error {
				return doc.Delete(args[1])
			})
		},
	}
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <old-key> <new-key>",
		Short: "Rename an entry in place and save",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, args[0], func(doc *langfile.Document) error {
				e, ok := doc.Get(args[1])
				if !ok {
					return fmt.Errorf("rename %q: %w", args[1], langfile.ErrEntryNotFound)
				}
				return doc.Update(args[1], args[2], e.Value())
			})
		},
	}
}

func (a *app) cleanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean <file> [key...]",
		Short: "Tidy whitespace and empty tags in entry values",
		Long: `Tidy entry values: trailing line breaks and spaces inside tags are
moved out and empty tag pairs are removed. Without keys every entry is cleaned.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			apply := func(doc *langfile.Document) error {
				targets, err := selectEntries(doc, args[1:])
				if err != nil {
					return err
				}

				changed := 0
				for _, e := range targets {
					cleaned := markup.CleanTags(e.Value())
					if cleaned == e.Value() {
						continue
					}
					changed++
					fmt.Fprintf(out, "%s\n  - %s\n  + %s\n", e.Key(), e.Value(), cleaned)
					if !dryRun {
						if err := doc.Set(e, e.Key(), cleaned); err != nil {
							return err
						}
					}
				}
				fmt.Fprintf(out, "%d %s to clean\n", changed, textutil.Plural(changed, "value"))
				return nil
			}

			if dryRun {
				doc, err := loadDocument(args[0])
				if err != nil {
					return err
				}
				return apply(doc)
			}
			return a.mutate(cmd, args[0], apply)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without saving")
	return cmd
}

func selectEntries(doc *langfile.Document, keys []string) ([]*langfile.Entry, error) {
	if len(keys) == 0 {
		return doc.Entries(), nil
	}
	entries := make([]*langfile.Entry, 0, len(keys))
	for _, k := range keys {
		e, ok := doc.Get(k)
		if !ok {
			return nil, fmt.Errorf("clean %q: %w", k, langfile.ErrEntryNotFound)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (a *app) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <file>",
		Short: "Show recent journaled edits of a lang file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("limit must be at least 1, got %d", limit)
			}
			out := cmd.OutOrStdout()
			if a.cfg.DatabaseURL == "" {
				fmt.Fprintln(out, "Edit journal is disabled, set LANGEDIT_DATABASE_URL to enable it")
				return nil
			}

			ctx, cancel := setupContext()
			defer cancel()

			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			rec := a.openJournal(ctx)
			defer rec.Close()

			edits, err := rec.Recent(ctx, doc.Path(), limit)
			if err != nil {
				return err
			}
			if len(edits) == 0 {
				fmt.Fprintln(out, "No recorded edits")
				return nil
			}
			for _, e := range edits {
				fmt.Fprintf(out, "%s %s  %-6s %s\n", e.SavedAt.Local().Format("2006-01-02 15:04:05"), shortID(e.SaveID), e.Action, e.Key)
				if e.OldValue != "" {
					fmt.Fprintf(out, "    - %s\n", e.OldValue)
				}
				if e.NewValue != "" {
					fmt.Fprintf(out, "    + %s\n", e.NewValue)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of edits to show")
	return cmd
}

// shortID is the prefix of a save id shown by history.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
