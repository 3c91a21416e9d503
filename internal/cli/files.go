package cli

import (
	"context"
	"fmt"
	"strings"

	"lang-editor/internal/filewalker"
	"lang-editor/internal/markup"
	"lang-editor/internal/textutil"
	"lang-editor/internal/tui"
	"lang-editor/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List .lang files under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := filewalker.Browse(dirArg(args, a.cfg.ModsDir))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No .lang files found")
				return nil
			}
			for _, f := range files {
				fmt.Fprintf(out, "%-60s %6d %s\n", f.RelPath, f.Entries, textutil.Plural(f.Entries, "entry"))
			}
			return nil
		},
	}
}

func (a *app) modsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mods [dir]",
		Short: "List mods that ship lang files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, err := filewalker.ScanMods(dirArg(args, a.cfg.ModsDir), a.cfg.LanguagePaths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(mods) == 0 {
				fmt.Fprintln(out, "No mods with lang files found")
				return nil
			}
			for _, m := range mods {
				langs := strings.Join(m.LanguageLabels(), ",")
				fmt.Fprintf(out, "%-32s [%s] %s\n", m.Name, langs, m.PreferredFile())
			}
			return nil
		},
	}
}

// fileReport is what check finds in one lang file.
type fileReport struct {
	Path       string
	Entries    int
	Duplicates []string
	Unclean    []string
}

func (r fileReport) ok() bool {
	return len(r.Duplicates) == 0 && len(r.Unclean) == 0
}

func checkFile(_ context.Context, path string) (fileReport, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return fileReport{}, err
	}

	report := fileReport{Path: path, Entries: doc.Len(), Duplicates: doc.DuplicateKeys()}
	for _, e := range doc.Entries() {
		if markup.CleanTags(e.Value()) != e.Value() {
			report.Unclean = append(report.Unclean, e.Key())
		}
	}
	return report, nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Scan every lang file for duplicate keys and untidy markup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			files, err := filewalker.FindLangFiles(dirArg(args, a.cfg.ModsDir))
			if err != nil {
				return err
			}

			pool := worker.NewPool(a.cfg.WorkerCount, checkFile).
				OnProgress(func(done, total int) {
					log.Debug().Int("done", done).Int("total", total).Msg("Checked file")
				})
			jobs := pool.Run(ctx, files)

			out := cmd.OutOrStdout()
			var entries, problems int
			for _, job := range jobs {
				if job.Err != nil {
					fmt.Fprintf(out, "%s: %v\n", job.Input, job.Err)
					continue
				}
				r := job.Output
				entries += r.Entries
				if r.ok() {
					continue
				}
				problems++
				fmt.Fprintf(out, "%s (%d %s)\n", r.Path, r.Entries, textutil.Plural(r.Entries, "entry"))
				if len(r.Duplicates) > 0 {
					fmt.Fprintf(out, "  duplicate keys: %s\n", strings.Join(r.Duplicates, ", "))
				}
				if len(r.Unclean) > 0 {
					fmt.Fprintf(out, "  values to clean: %s\n", strings.Join(r.Unclean, ", "))
				}
			}

			failed := len(worker.Errors(jobs))
			fmt.Fprintf(out, "%d %s, %d %s, %d with problems, %d unreadable\n",
				len(files), textutil.Plural(len(files), "file"),
				entries, textutil.Plural(entries, "entry"),
				problems, failed)

			if failed > 0 {
				return fmt.Errorf("%d %s could not be read", failed, textutil.Plural(failed, "file"))
			}
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive editor",
		Long: `Open the interactive editor on a lang file. Without a file, pick one
from the mods directory first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(dirArg(args, ""))
		},
	}
}

func (a *app) runEdit(file string) error {
	ctx, cancel := setupContext()
	defer cancel()

	rec := a.openJournal(ctx)
	defer rec.Close()

	return tui.Run(ctx, tui.Options{
		File:          file,
		ModsDir:       a.cfg.ModsDir,
		LanguagePaths: a.cfg.LanguagePaths,
		Presets:       a.cfg.ColorPresets,
		PageSize:      a.cfg.PageSize,
		Journal:       rec,
	})
}
