package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	Out string
	Dir string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the record store as CSV",
		Long: `Write every daily record as CSV. Without --out the CSV goes to stdout.
With --dir a timestamped backup file is written into that directory instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "write a timestamped backup into this directory")
	return cmd
}

func runExport(rootOpts *RootOptions, opts *exportOptions, out, errOut io.Writer) error {
	log, err := rootOpts.logger()
	if err != nil {
		return err
	}
	a, err := openApp(rootOpts, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.Dir != "" {
		path, err := a.set.Backups.ExportToDir(opts.Dir, a.cfg.Today())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(errOut, "backup written to %s\n", path)
		return err
	}

	if opts.Out == "" {
		_, err := a.set.Backups.ExportCSV(out)
		return err
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Out, err)
	}
	n, err := a.set.Backups.ExportCSV(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(errOut, "%d records written to %s\n", n, opts.Out)
	return err
}
