package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Agrumas/gh-ranker/config"
	"github.com/Agrumas/gh-ranker/github"
	"github.com/Agrumas/gh-ranker/logger"
	"github.com/Agrumas/gh-ranker/report"
	"github.com/Agrumas/gh-ranker/service"
)

var (
	query       string
	limit       int
	sortBy      string
	order       string
	exportFile  string
	importFile  string
	token       string
	concurrency int
	logLevel    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ghranker",
	Short: "Rank GitHub repositories by activity and maintenance health",
	Long: `ghranker searches GitHub for repositories, fetches their recent
activity (commits, issues, comments, pull requests, releases) and ranks
them by a weighted heuristic score.

Fetched data can be exported as a JSON snapshot and replayed later with
--import, so scoring experiments skip the network entirely.

Example:
  ghranker -q "language:go cache" -l 50
  ghranker -i data_latest`,
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "repository search query")
	rootCmd.Flags().IntVarP(&limit, "limit", "l", config.DefaultLimit, "maximum search results to fetch")
	rootCmd.Flags().StringVarP(&sortBy, "sort", "s", config.DefaultSort, "search sort field (stars|forks|updated)")
	rootCmd.Flags().StringVarP(&order, "order", "o", config.DefaultOrder, "search sort order (asc|desc)")
	rootCmd.Flags().StringVarP(&exportFile, "export", "e", config.DefaultExport, "snapshot file to write fetched data to")
	rootCmd.Flags().StringVarP(&importFile, "import", "i", "", "snapshot file to replay instead of fetching")
	rootCmd.Flags().StringVar(&token, "token", "", "GitHub access token (falls back to GITHUB_TOKEN, then ./token)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "repositories fetched in parallel")
	rootCmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")

	viper.BindPFlag("query", rootCmd.Flags().Lookup("query"))
	viper.BindPFlag("limit", rootCmd.Flags().Lookup("limit"))
	viper.BindPFlag("sort", rootCmd.Flags().Lookup("sort"))
	viper.BindPFlag("order", rootCmd.Flags().Lookup("order"))
	viper.BindPFlag("export", rootCmd.Flags().Lookup("export"))
	viper.BindPFlag("import", rootCmd.Flags().Lookup("import"))
	viper.BindPFlag("token", rootCmd.Flags().Lookup("token"))
	viper.BindPFlag("concurrency", rootCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("log-level", rootCmd.Flags().Lookup("log-level"))
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	if err := cfg.Load(); err != nil {
		return err
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	client := github.NewClient(cfg.Token)
	svc := service.New(cfg, client, time.Now())

	ranked, err := svc.Run(cmd.Context())
	if err != nil {
		return err
	}

	return report.Print(os.Stdout, ranked)
}
