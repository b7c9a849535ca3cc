package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/source"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Store a week's timesheet from a JSON document (stdin when omitted or \"-\")",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	ts, err := source.FileSource{Path: path, Reader: cmd.InOrStdin()}.QueryTimeSheet(cmd.Context())
	if err != nil {
		return err
	}
	if ts == nil {
		return errors.New("document has no week ending, nothing to import")
	}

	if err := timesheets.Save(cmd.Context(), appStore, *ts); err != nil {
		if errors.Is(err, model.ErrInvalidTimeSheet) {
			return err
		}
		return dataError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored week of %s (%d time card(s)).\n", ts.Key(), len(ts.TimeCards))
	return nil
}
