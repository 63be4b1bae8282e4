package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sha1n/stackfeed/internal/app"
	"github.com/sha1n/stackfeed/internal/config"
	"github.com/sha1n/stackfeed/internal/domain"
	"github.com/sha1n/stackfeed/internal/questions"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "stackfeed"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "StackOverflow content pipeline",
		Long:          "Fetches answered StackOverflow questions into a local store, with full-text search and MCP access",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	rootCmd.AddCommand(
		newIngestCmd(),
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newSearchCmd(),
		newExportCmd(),
		newReindexCmd(),
		newServeCmd(version),
	)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(os.Stdout)

	return rootCmd.Execute()
}

// newService loads settings from flags/env and builds the questions service.
func newService(flags *pflag.FlagSet) (*questions.Service, *config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	svc, err := questions.NewService(&settings.Ingest)
	if err != nil {
		return nil, nil, err
	}
	return svc, settings, nil
}

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <category>",
		Short: "Fetch new answered questions for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, settings, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			sortMode, err := domain.ParseSortMode(settings.Ingest.Sort)
			if err != nil {
				return err
			}

			result, runErr := svc.Ingest(cmd.Context(), args[0], settings.Ingest.Limit, sortMode)
			if result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d questions (%d total)\n", len(result.Added), result.Total)
				for _, q := range result.Added {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", q.ID, q.Title)
				}
			}
			return runErr
		},
	}
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		category string
		answered bool
		orderBy  string
		stats    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			if stats {
				return printStats(cmd.OutOrStdout(), svc)
			}

			order, err := questions.ParseOrderBy(orderBy)
			if err != nil {
				return err
			}

			opts := questions.ListOptions{Category: category, OrderBy: order}
			if cmd.Flags().Changed("answered") {
				opts.Answered = &answered
			}

			qs, err := svc.Questions(opts)
			if err != nil {
				return err
			}

			for _, q := range qs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-10s score=%-5d answers=%-3d %s\n", q.ID, q.Category, q.Score, len(q.Answers), q.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions\n", len(qs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	cmd.Flags().BoolVar(&answered, "answered", false, "Filter by presence of stored answers")
	cmd.Flags().StringVar(&orderBy, "order", string(questions.OrderByFetched), "Order: score, views, answers, date or fetched")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print collection statistics instead of a listing")
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func printStats(w io.Writer, svc *questions.Service) error {
	stats, err := svc.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total:         %d\n", stats.Total)
	fmt.Fprintf(w, "With answers:  %d\n", stats.WithAnswers)
	fmt.Fprintf(w, "With accepted: %d\n", stats.WithAccepted)

	categories := make([]string, 0, len(stats.ByCategory))
	for c := range stats.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(w, "  %-12s %d\n", c, stats.ByCategory[c])
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored question with its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			q, err := svc.Question(args[0])
			if err != nil {
				return err
			}
			if q == nil {
				return fmt.Errorf("question not found: %s", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n\n", q.Title, q.Link)
			fmt.Fprintf(out, "category=%s score=%d views=%d author=%s posted=%s\n\n", q.Category, q.Score, q.ViewCount, q.Author, q.PubDate.Format("2006-01-02"))
			fmt.Fprintln(out, q.FullBody)
			for i, a := range q.Answers {
				marker := ""
				if a.IsAccepted {
					marker = " [accepted]"
				}
				fmt.Fprintf(out, "\n--- answer %d%s (score=%d, by %s) ---\n%s\n", i+1, marker, a.Score, a.Author, a.Body)
			}
			return nil
		},
	}
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete stored questions by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			removed, err := svc.Delete(args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d questions\n", removed)
			return nil
		},
	}
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func newSearchCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over stored questions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			results, err := svc.Search(strings.Join(args, " "), category, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, hit := range results.Hits {
				fmt.Fprintf(out, "%d. [%s] %s (%s, %.3f)\n", i+1, hit.ID, hit.Title, hit.Category, hit.Score)
			}
			fmt.Fprintf(out, "%d results\n", results.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		format string
		outP   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored questions as JSON or an Atom feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			qs, err := svc.Questions(questions.ListOptions{OrderBy: questions.OrderByDate})
			if err != nil {
				return err
			}

			var payload string
			switch format {
			case "json":
				data, err := json.MarshalIndent(qs, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode questions: %w", err)
				}
				payload = string(data)
			case "atom":
				payload, err = questions.BuildFeed(qs, time.Now())
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("format must be 'json' or 'atom', got: %s", format)
			}

			if outP == "" {
				fmt.Fprintln(cmd.OutOrStdout(), payload)
				return nil
			}
			if err := os.WriteFile(outP, []byte(payload), 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			slog.Info("Export written", "path", outP, "questions", len(qs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json or atom")
	cmd.Flags().StringVarP(&outP, "out", "o", "", "Output file (defaults to stdout)")
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func newReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService(cmd.Flags())
			if err != nil {
				return err
			}

			count, err := svc.Reindex()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d questions\n", count)
			return nil
		},
	}
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}

func newServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored questions over MCP (stdio or SSE)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunWithDeps(context.Background(), app.DefaultRunParams(), cmd.Flags(), version)
		},
	}
	app.RegisterServeFlags(cmd.Flags())
	app.RegisterIngestFlags(cmd.Flags())
	return cmd
}
