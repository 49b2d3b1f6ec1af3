package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/bird-observations-service/internal/adapter/llm"
	"github.com/couchcryptid/bird-observations-service/internal/observability"
	"github.com/couchcryptid/bird-observations-service/internal/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type askOptions struct {
	apiKey  string
	baseURL string
	model   string
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the model API a question about the observations",
		Long: `Sends the question together with the raw CSV to the configured
OpenAI-compatible chat completion API and prints the answer.

Example:
  birdctl ask --api-key sk-... "How many egrets were seen at Mai Po?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if ask.baseURL != "" {
				cfg.LLMBaseURL = ask.baseURL
			}
			if ask.model != "" {
				cfg.LLMModel = ask.model
			}
			logger := opts.logger(cmd)

			// A failed load is reported by the dispatcher after the key
			// and question are validated.
			cat, err := openCatalog(cmd.Context(), cfg, logger)
			if cat == nil {
				return err
			}
			if err != nil {
				logger.Warn("csv not loaded", "source", cfg.CSVSource, "error", err)
			}

			client := llm.NewClient(llm.Options{
				BaseURL:     cfg.LLMBaseURL,
				Model:       cfg.LLMModel,
				MaxTokens:   cfg.LLMMaxTokens,
				Temperature: cfg.LLMTemperature,
				Timeout:     cfg.LLMTimeout,
			}, logger)

			metrics := observability.NewMetricsWith(prometheus.NewRegistry())
			dispatcher := query.New(cat, client, nil, query.Config{
				Model:         cfg.LLMModel,
				DefaultAPIKey: cfg.LLMAPIKey,
				MaxInFlight:   1,
			}, logger, metrics, nil)

			res, err := dispatcher.Ask(cmd.Context(), query.Request{
				APIKey: ask.apiKey,
				Query:  strings.Join(args, " "),
			})
			if err != nil {
				return errors.New(query.UserMessage(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&ask.apiKey, "api-key", "", "model API key (default $LLM_API_KEY)")
	cmd.Flags().StringVar(&ask.baseURL, "base-url", "", "OpenAI-compatible API base URL (default $LLM_BASE_URL)")
	cmd.Flags().StringVar(&ask.model, "model", "", "model name (default $LLM_MODEL)")
	return cmd
}
