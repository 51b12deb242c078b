package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	iai "github.com/seekly/matcher/internal/ai"
	"github.com/seekly/matcher/internal/ai/gemini"
	"github.com/seekly/matcher/internal/cache"
	"github.com/seekly/matcher/internal/logger"
	"github.com/seekly/matcher/internal/matching"
	"github.com/seekly/matcher/internal/secrets"
	"github.com/seekly/matcher/internal/store"
	"github.com/seekly/matcher/internal/store/postgres"
)

const (
	PromptReport     = "Report by employers"
	PromptDumpToFile = "Dump matches to file"
	PromptExit       = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReport, PromptDumpToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search through the matching engine and browse the results",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("recommendations", "r", false, "use the seeker's profile as criteria instead of the search section")
	runCmd.Flags().BoolP("no-prompt", "y", false, "print the matches as JSON and exit without the interactive menu")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the seekly-matcher", zap.String("version", version))

	if config == nil || config.Store == nil || config.Store.DatabaseURL == "" {
		logger.Fatal("store.database-url is required",
			zap.String("hint", "set DATABASE_URL or the 'store.database-url' key in the configuration file"),
		)
	}

	jobs, err := postgres.New(ctx, config.Store.DatabaseURL)
	if err != nil {
		logger.Fatal("connecting to the job store", zap.Error(err))
	}
	defer jobs.Close()

	kv := buildCache(ctx, config, logger)
	assistant := buildAssistant(ctx, config, logger)

	engine := matching.NewEngine(jobs, kv, assistant, logger)

	criteria, limit := searchCriteria(config)

	var matches *matching.Matches
	if cmd.Flag("recommendations").Value.String() == "true" {
		if criteria.SeekerID == "" {
			logger.Fatal("search.seeker-id is required for recommendations")
		}
		matches, err = engine.Recommendations(ctx, criteria.SeekerID, limit)
	} else {
		matches, err = engine.FindMatchingJobs(ctx, criteria, limit)
	}
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if matches.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matches found"))
		return
	}

	logger.Info("found matches", zap.Int("count", matches.Len()))

	if cmd.Flag("no-prompt").Value.String() == "true" {
		pretty, _ := json.MarshalIndent(matches, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, matches *matching.Matches) error {
	switch action {
	case PromptReport:
		pretty, _ := json.MarshalIndent(matches.ReportByEmployer(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", matches.Len()))
		return nil
	case PromptDumpToFile:
		filename, err := matches.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func buildCache(ctx context.Context, config *Config, logger *zap.Logger) cache.Cache {
	if config.Cache == nil || config.Cache.RedisURL == "" {
		logger.Info("cache is not configured, searches are always recomputed")
		return cache.Noop{}
	}

	redis, err := cache.NewRedis(ctx, config.Cache.RedisURL)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", zap.Error(err))
		return cache.Noop{}
	}
	return redis
}

func buildAssistant(ctx context.Context, config *Config, logger *zap.Logger) iai.Assistant {
	if config.AI == nil || !config.AI.Enabled {
		logger.Info("ai assistant is disabled, using deterministic fallbacks")
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.APIKey,
		File:  config.AI.APIKeyFile,
	})
	if err != nil {
		logger.Warn("loading gemini api key failed, using deterministic fallbacks", zap.Error(err))
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Model, config.AI.MaxRetries, logger)
	if err != nil {
		logger.Warn("creating gemini generator failed, using deterministic fallbacks", zap.Error(err))
		return nil
	}

	return gemini.NewAssistant(generator, logger, config.AI.MaxLogLength)
}

func searchCriteria(config *Config) (matching.Criteria, int) {
	if config.Search == nil {
		return matching.Criteria{}, 0
	}

	s := config.Search
	criteria := matching.Criteria{
		SeekerID:        s.SeekerID,
		Keyword:         s.Keyword,
		Location:        s.Location,
		Region:          s.Region,
		EmploymentTypes: s.EmploymentTypes,
		Categories:      s.Categories,
		Experience:      s.Experience,
	}
	if s.SalaryMax > s.SalaryMin && s.SalaryMax > 0 {
		criteria.Salary = &store.SalaryRange{Min: s.SalaryMin, Max: s.SalaryMax}
	}

	return criteria, s.Limit
}
