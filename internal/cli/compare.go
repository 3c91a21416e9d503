package cli

import (
	"fmt"
	"strings"

	"lang-editor/internal/placeholder"
	"lang-editor/internal/textutil"

	"github.com/spf13/cobra"
)

func (a *app) compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <source> <translation>",
		Short: "Compare a translated lang file against its source language",
		Long: `Report keys missing from the translation, keys only the translation has,
and entries whose placeholders ({name}, {0}, %s) differ between the two.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			tr, err := loadDocument(args[1])
			if err != nil {
				return err
			}

			var missing, mismatched []string
			for _, e := range src.Entries() {
				t, ok := tr.Get(e.Key())
				if !ok {
					missing = append(missing, e.Key())
					continue
				}
				lost, added := placeholder.Diff(e.Value(), t.Value())
				if len(lost) == 0 && len(added) == 0 {
					continue
				}
				var parts []string
				if len(lost) > 0 {
					parts = append(parts, "missing "+strings.Join(lost, " "))
				}
				if len(added) > 0 {
					parts = append(parts, "unexpected "+strings.Join(added, " "))
				}
				mismatched = append(mismatched, fmt.Sprintf("%s: %s", e.Key(), strings.Join(parts, ", ")))
			}

			var extra []string
			for _, e := range tr.Entries() {
				if _, ok := src.Get(e.Key()); !ok {
					extra = append(extra, e.Key())
				}
			}

			out := cmd.OutOrStdout()
			printSection := func(title string, items []string) {
				if len(items) == 0 {
					return
				}
				fmt.Fprintf(out, "%s:\n", title)
				for _, it := range items {
					fmt.Fprintf(out, "  %s\n", it)
				}
			}
			printSection("Missing from "+tr.FileName(), missing)
			printSection("Only in "+tr.FileName(), extra)
			printSection("Placeholder mismatches", mismatched)

			fmt.Fprintf(out, "%d missing %s, %d extra, %d placeholder %s\n",
				len(missing), textutil.Plural(len(missing), "key"),
				len(extra),
				len(mismatched), textutil.Plural(len(mismatched), "mismatch"))
			return nil
		},
	}
}
