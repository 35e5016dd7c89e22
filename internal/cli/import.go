package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/utopialog/internal/service"
)

type importOptions struct {
	Dir string
	CSV string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import legacy data files or a CSV backup",
		Long: `Import the flat files of the old dashboard (mission_data.csv, todo_list.json,
library_status.json, journal_entries.json) from --dir, or a single CSV backup with --csv.
Files missing from the directory are skipped. Existing dates are overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory holding the legacy files")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "CSV backup file")
	return cmd
}

func runImport(rootOpts *RootOptions, opts *importOptions, out io.Writer) error {
	if (opts.Dir == "") == (opts.CSV == "") {
		return errors.New("exactly one of --dir or --csv is required")
	}

	log, err := rootOpts.logger()
	if err != nil {
		return err
	}
	a, err := openApp(rootOpts, log)
	if err != nil {
		return err
	}
	defer a.Close()

	var summary service.ImportSummary
	if opts.Dir != "" {
		summary, err = a.set.Backups.ImportLegacyDir(opts.Dir)
	} else {
		var f *os.File
		f, err = os.Open(opts.CSV)
		if err != nil {
			return fmt.Errorf("open %s: %w", opts.CSV, err)
		}
		summary, err = a.set.Backups.ImportCSV(f)
		f.Close()
	}
	if err != nil {
		return err
	}

	if rootOpts.Format == "json" {
		return writeJSON(out, summary)
	}
	_, err = fmt.Fprintf(out, "✓ Imported %d record(s), %d directive(s), %d book(s), %d journal entr(ies); %d row(s) dropped\n",
		summary.Records, summary.Directives, summary.Books, summary.JournalEntries, summary.Dropped)
	return err
}
