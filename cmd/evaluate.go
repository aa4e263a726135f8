package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/evaluate"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate text recommendations with Mean Recall@K over a labeled query set",
	Run: func(cmd *cobra.Command, _ []string) {
		runEvaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().String("labels", "", "path to the labeled CSV file (required)")
	evaluateCmd.Flags().IntP("k", "k", evaluate.DefaultK, "K for Recall@K")
	evaluateCmd.Flags().String("query-col", evaluate.DefaultQueryColumn, "column name for the query text")
	evaluateCmd.Flags().String("relevant-col", evaluate.DefaultRelevantColumn, "column name for the relevant IDs")
	evaluateCmd.Flags().String("sep", evaluate.DefaultIDSeparator, "separator between relevant IDs within the column")

	evaluateCmd.MarkFlagRequired("labels")
}

func runEvaluate(cmd *cobra.Command) {
	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	eng := newEngine(config, log)

	labelsPath, _ := cmd.Flags().GetString("labels")
	queryCol, _ := cmd.Flags().GetString("query-col")
	relevantCol, _ := cmd.Flags().GetString("relevant-col")
	sep, _ := cmd.Flags().GetString("sep")
	k, _ := cmd.Flags().GetInt("k")

	queries, err := evaluate.LoadLabeledQueries(labelsPath, evaluate.LoadOptions{
		QueryColumn:    queryCol,
		RelevantColumn: relevantCol,
		IDSeparator:    sep,
	})
	if err != nil {
		log.Fatal("loading labeled queries", zap.Error(err))
	}
	if len(queries) == 0 {
		log.Fatal("exiting",
			zap.Error(errors.New("no labeled queries loaded")),
			zap.String("hint", "check the file and the column names"),
		)
	}

	log.Info("evaluating", zap.Int("queries", len(queries)), zap.Int("k", k))

	result := evaluate.MeanRecallAtK(eng, queries, k, log)

	fmt.Printf("Mean Recall@%d over %d queries: %.4f\n", k, len(queries), result.MeanRecall)
}
