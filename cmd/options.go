package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/options"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show or change the reminder options",
}

var optionsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every option and whether the settings are valid",
	Args:  cobra.NoArgs,
	RunE:  runOptionsShow,
}

var optionsSetCmd = &cobra.Command{
	Use:   "set <option> <value>",
	Short: "Change one option",
	Long: `Change one option. Times use HH:MM, days are lower-case weekday names and
the daily reminder days are comma separated, e.g. "monday,tuesday".`,
	Args: cobra.ExactArgs(2),
	RunE: runOptionsSet,
}

var optionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default options",
	Args:  cobra.NoArgs,
	RunE:  runOptionsReset,
}

func init() {
	optionsCmd.AddCommand(optionsShowCmd)
	optionsCmd.AddCommand(optionsSetCmd)
	optionsCmd.AddCommand(optionsResetCmd)
}

func runOptionsShow(cmd *cobra.Command, args []string) error {
	opts := options.Load(cmd.Context(), appStore)
	out := cmd.OutOrStdout()
	for _, name := range options.FieldNames {
		value, err := opts.Field(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-28s %s\n", name, value)
	}
	if invalid := opts.Validate().Invalid(); len(invalid) > 0 {
		for _, el := range invalid {
			fmt.Fprintln(out, alertStyle.Render("invalid: "+string(el)))
		}
	}
	return nil
}

func runOptionsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := options.Load(ctx, appStore)
	if err := opts.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := options.Save(ctx, appStore, opts); err != nil {
		return err
	}
	value, _ := opts.Field(args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], value)
	return nil
}

func runOptionsReset(cmd *cobra.Command, args []string) error {
	if err := options.Save(cmd.Context(), appStore, options.Default()); err != nil {
		return dataError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Options reset to defaults.")
	return nil
}
