package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/i474232898/gsm-forecast/internal/dispatch"
	"github.com/i474232898/gsm-forecast/internal/weather"
)

func forecastCommand(ctx *Context) *cobra.Command {
	var flags forecastFlags
	cmd := &cobra.Command{
		Use:   "forecast <lat,lng> | <lat> <lng>",
		Short: "Show the forecast for a coordinate",
		Long:  "Show the forecast for a coordinate. Use -- before negative values, e.g. forecast -- -33.87 151.21.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := parseCoordinateArgs(args)
			if err != nil {
				return err
			}
			return run(cmd, ctx, dispatch.OpForecastByCoordinate, map[string]any{
				"latitude":  coord.Latitude,
				"longitude": coord.Longitude,
				"hours":     flags.hours,
				"format":    flags.format,
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func parseCoordinateArgs(args []string) (weather.Coordinate, error) {
	if len(args) == 1 {
		return weather.ParseCoordinate(args[0])
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("latitude %q is not a number", args[0])
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("longitude %q is not a number", args[1])
	}
	return weather.Coordinate{Latitude: lat, Longitude: lng}, nil
}

func cityCommand(ctx *Context) *cobra.Command {
	var flags forecastFlags
	cmd := &cobra.Command{
		Use:   "city <name>",
		Short: "Show the forecast for a named city",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ctx, dispatch.OpForecastByCity, map[string]any{
				"city":   args[0],
				"hours":  flags.hours,
				"format": flags.format,
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func citiesCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the supported city names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, ctx, dispatch.OpListCities, nil)
		},
	}
}

func searchCommand(ctx *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search city names by substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ctx, dispatch.OpSearchCities, map[string]any{"query": args[0]})
		},
	}
}

func toolsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the operation catalogue as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(dispatch.Tools())
		},
	}
}
