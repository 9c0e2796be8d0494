package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/gsm-forecast/internal/dispatch"
	"github.com/i474232898/gsm-forecast/internal/weather"
)

// RootCommand creates and returns the root command.
func RootCommand(ctx *Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gsm-forecast",
		Short:         "Hourly GSM weather forecasts by coordinate or city",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCommand(ctx),
		forecastCommand(ctx),
		cityCommand(ctx),
		citiesCommand(ctx),
		searchCommand(ctx),
		toolsCommand(),
	)
	return rootCmd
}

// forecastFlags are shared by the forecast and city commands.
type forecastFlags struct {
	hours  int
	format string
}

func (f *forecastFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.hours, "hours", weather.DefaultHours, "number of forecast hours (1-172)")
	cmd.Flags().StringVar(&f.format, "format", string(dispatch.TextFormat), "output format: text or json")
}

// run dispatches op and prints the response. Error responses become the
// command's error.
func run(cmd *cobra.Command, ctx *Context, op dispatch.Operation, args map[string]any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	resp := ctx.Dispatcher().Call(cmd.Context(), string(op), raw)
	if resp.IsError {
		return errors.New(resp.Text())
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Text())
	return err
}
