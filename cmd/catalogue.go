package cmd

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/engine"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Inspect the product catalogue",
}

var catalogueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all assessments in the catalogue",
	Run: func(_ *cobra.Command, _ []string) {
		log := newLogger()
		eng := mustEngine(log)

		assessments := eng.GetAll()
		log.Info("catalogue listed", zap.Int("count", len(assessments)))

		printJSON(log, assessments)
	},
}

var catalogueShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single assessment by ID",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		log := newLogger()
		eng := mustEngine(log)

		assessment := eng.GetByID(args[0])
		if assessment == nil {
			log.Fatal("exiting",
				zap.Error(errors.New("assessment not found")),
				zap.String("id", args[0]),
			)
		}

		printJSON(log, assessment)
	},
}

var catalogueSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search assessments by name or description",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		log := newLogger()
		eng := mustEngine(log)

		results := eng.SearchByName(args[0])
		log.Info("search finished",
			zap.String("term", args[0]),
			zap.Int("count", len(results)),
		)

		printJSON(log, results)
	},
}

func init() {
	rootCmd.AddCommand(catalogueCmd)
	catalogueCmd.AddCommand(catalogueListCmd)
	catalogueCmd.AddCommand(catalogueShowCmd)
	catalogueCmd.AddCommand(catalogueSearchCmd)
}

func mustEngine(log *zap.Logger) *engine.Engine {
	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}
	return newEngine(config, log)
}

func printJSON(log *zap.Logger, payload any) {
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatal("rendering output", zap.Error(err))
	}
	fmt.Println(string(pretty))
}
