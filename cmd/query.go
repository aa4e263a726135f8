package cmd

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var queryCmd = &cobra.Command{
	Use:   "query <free text>",
	Short: "Recommend assessments from natural language or job description text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().IntP("top", "n", 10, "number of recommendations to return (clamped to 5-10)")
	queryCmd.Flags().BoolP("explain", "e", false, "ask the configured AI provider to explain the recommendations")
	queryCmd.Flags().BoolP("interactive", "i", false, "inspect recommendations interactively")
}

func query(cmd *cobra.Command, text string) {
	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	eng := newEngine(config, log)

	topN, _ := cmd.Flags().GetInt("top")

	ranked := eng.RecommendFromText(text, topN)
	if len(ranked) == 0 {
		log.Fatal("exiting", zap.Error(errors.New("the query produced no recommendations")))
	}

	log.Info("recommendations ready", zap.Int("count", len(ranked)))

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		items := make([]string, 0, len(ranked))
		payloads := make([]any, 0, len(ranked))
		for _, rec := range ranked {
			items = append(items, fmt.Sprintf("%s %s (similarity %.3f)", rec.ID, rec.Name, rec.Similarity))
			payloads = append(payloads, rec)
		}

		if err := inspect(items, payloads); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
	} else {
		pretty, err := json.MarshalIndent(ranked, "", "  ")
		if err != nil {
			log.Fatal("rendering recommendations", zap.Error(err))
		}
		fmt.Println(string(pretty))
	}

	explain, _ := cmd.Flags().GetBool("explain")
	if !explain {
		return
	}

	var aiConfig *AIConfig
	if config != nil {
		aiConfig = config.AI
	}

	explainer, err := newExplainer(cmd.Context(), aiConfig, log)
	if err != nil {
		log.Fatal("building the explainer", zap.Error(err))
	}
	if explainer == nil {
		log.Fatal("explanations require ai.enabled in the configuration file")
	}

	explanation, err := explainer.Explain(cmd.Context(), text, ranked)
	if err != nil {
		log.Fatal("generating explanation", zap.Error(err))
	}

	fmt.Println(explanation)
}
