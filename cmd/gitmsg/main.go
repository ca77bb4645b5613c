// gitmsg suggests a conventional-format commit message for the working-tree
// changes of a git repository, using an OpenAI-compatible chat endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitmsg/gitmsg/internal/app"
	"github.com/gitmsg/gitmsg/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL     string
		apiKey      string
		model       string
		temperature float64
		maxTokens   int
		recent      int
		interactive bool
		configPath  string
	)

	cmd := &cobra.Command{
		Use:           "gitmsg <repo-path>",
		Short:         "Suggest a commit message for working-tree changes using an LLM",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Could not read config file: %v\n", err)
			}

			opts := app.Options{
				RepoPath:      args[0],
				BaseURL:       config.ResolveString(baseURL, os.Getenv("GITMSG_BASE_URL"), fileCfg.BaseURL, config.DefaultBaseURL),
				APIKey:        config.ResolveString(apiKey, os.Getenv("GITMSG_API_KEY"), fileCfg.APIKey, config.DefaultAPIKey),
				Model:         config.ResolveString(model, os.Getenv("GITMSG_MODEL"), fileCfg.Model, config.DefaultModel),
				Temperature:   config.ResolveFloat(temperature, cmd.Flags().Changed("temperature"), fileCfg.Temperature, config.DefaultTemperature),
				MaxTokens:     config.ResolveInt(maxTokens, cmd.Flags().Changed("max-tokens"), fileCfg.MaxTokens, config.DefaultMaxTokens),
				RecentCommits: config.ResolveInt(recent, cmd.Flags().Changed("recent"), fileCfg.RecentCommits, config.DefaultRecentCommits),
				Interactive:   interactive,
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "chat completion endpoint base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the endpoint")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", config.DefaultMaxTokens, "output token cap")
	cmd.Flags().IntVar(&recent, "recent", config.DefaultRecentCommits, "recent commit subjects to include as style reference")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "confirm, edit or regenerate the suggestion before committing")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: user config dir)")

	return cmd
}
