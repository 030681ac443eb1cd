// Package main provides the drone-stats CLI.
// The root command runs the report pipeline; subcommands cover the TUI
// viewer and the MCP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomzx/drone-stats/src/config"
	"github.com/tomzx/drone-stats/src/drone"
	"github.com/tomzx/drone-stats/src/export"
	"github.com/tomzx/drone-stats/src/fetch"
	"github.com/tomzx/drone-stats/src/logger"
	"github.com/tomzx/drone-stats/src/mcp"
	"github.com/tomzx/drone-stats/src/report"
	"github.com/tomzx/drone-stats/src/tui"
)

// Application configuration, loaded before any command runs.
var appConfig *config.Config

// rootCmd runs the report pipeline: fetch builds 1..N, flatten step timings,
// write {repository}.csv plus any configured extra sinks.
var rootCmd = &cobra.Command{
	Use:   "drone-stats <organization> <repository> <url> <token>",
	Short: "Flatten Drone CI build step timings into a tabular report",
	Long: `drone-stats fetches every build of a repository from a Drone server,
flattens each build's first process group into step durations, and writes
one CSV row per build.

API responses are cached under the cache directory keyed by request path,
so repeated runs only fetch builds that were never seen before. Delete the
cache directory to force a refresh.

Arguments:
  organization  Organization (e.g., my-organization)
  repository    Repository (e.g., my-repository)
  url           URL to the API (e.g., https://drone.yourcompany.com)
  token         Drone token`,
	Args:          cobra.ExactArgs(4),
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		appConfig, err = config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(1)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runReport(cmd.Context(), args[0], args[1], args[2], args[3])
	},
}

// viewCmd renders a previously written report CSV in an interactive table.
var viewCmd = &cobra.Command{
	Use:   "view <report.csv>",
	Short: "Browse a report CSV in an interactive table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return tui.Start(args[0])
	},
}

// mcpCmd serves the report pipeline over MCP on stdio. Credentials come
// from DRONE_SERVER and DRONE_TOKEN instead of positional arguments.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve build reports as MCP tools on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		srv, err := mcp.NewServer(appConfig)
		if err != nil {
			return err
		}
		return srv.Run()
	},
}

func runReport(ctx context.Context, org, repo, url, token string) error {
	log := logger.NewConsoleLogger(appConfig.Verbose)

	fetcher, err := fetch.New(url, token, appConfig.CacheDir, log,
		fetch.WithTimeout(appConfig.HTTPTimeout))
	if err != nil {
		return err
	}

	builder := report.NewBuilder(drone.NewClient(fetcher), org, repo, log)
	table, err := builder.Run(ctx)
	if err != nil {
		return err
	}

	sinks, err := buildSinks(repo)
	if err != nil {
		return err
	}

	for _, sink := range sinks {
		if err := sink.Write(ctx, repo, table); err != nil {
			return fmt.Errorf("%s sink: %w", sink.Name(), err)
		}
		if err := sink.Close(); err != nil {
			return fmt.Errorf("%s sink: %w", sink.Name(), err)
		}
	}

	log.Info("Wrote %s.csv (%d builds)", repo, table.Len())
	return nil
}

// buildSinks returns the CSV sink plus any sinks enabled by configuration.
func buildSinks(repo string) ([]export.Sink, error) {
	sinks := []export.Sink{export.NewCSVSink(repo + ".csv")}

	if appConfig.PostgresDSN != "" {
		pg, err := export.NewPostgresSink(appConfig.PostgresDSN)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, pg)
	}

	if len(appConfig.KafkaBrokers) > 0 {
		kafka, err := export.NewKafkaSink(appConfig.KafkaBrokers, appConfig.KafkaTopic)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, kafka)
	}

	return sinks, nil
}

func main() {
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(mcpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
