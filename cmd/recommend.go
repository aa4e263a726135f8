package cmd

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentgrid/assessment-recommender/internal/engine"
)

const PromptDone = "done"

var errNoResults = errors.New("no assessments matched the given criteria")

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend assessments for structured criteria",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().String("role", "", "target job role (e.g. manager, sales, engineer)")
	recommendCmd.Flags().StringSlice("competency", nil, "required competency, repeatable")
	recommendCmd.Flags().String("use-case", "", "hiring, development, promotion, coaching, succession_planning or team_building")
	recommendCmd.Flags().String("type", "", "assessment type (cognitive, personality, situational, ...)")
	recommendCmd.Flags().Int("max-duration", 0, "maximum assessment duration in minutes")
	recommendCmd.Flags().String("difficulty", "", "beginner, intermediate or advanced")
	recommendCmd.Flags().String("language", "", "language code (e.g. en, es, fr)")
	recommendCmd.Flags().StringSlice("exclude", nil, "assessment ID to exclude, repeatable")
	recommendCmd.Flags().IntP("top", "n", 5, "number of recommendations to return")
	recommendCmd.Flags().BoolP("interactive", "i", false, "inspect recommendations interactively")
}

func recommend(cmd *cobra.Command) {
	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	eng := newEngine(config, log)

	criteria := criteriaFromFlags(cmd)
	topN, _ := cmd.Flags().GetInt("top")

	recommendations := eng.Recommend(criteria, topN)
	if len(recommendations) == 0 {
		log.Fatal("exiting", zap.Error(errNoResults))
	}

	log.Info("recommendations ready", zap.Int("count", len(recommendations)))

	interactive, _ := cmd.Flags().GetBool("interactive")
	if interactive {
		items := make([]string, 0, len(recommendations))
		payloads := make([]any, 0, len(recommendations))
		for _, rec := range recommendations {
			items = append(items, fmt.Sprintf("%s %s (score %.2f)", rec.ID, rec.Name, rec.MatchScore))
			payloads = append(payloads, rec)
		}

		if err := inspect(items, payloads); err != nil {
			log.Fatal("exiting", zap.Error(err))
		}
		return
	}

	pretty, err := json.MarshalIndent(recommendations, "", "  ")
	if err != nil {
		log.Fatal("rendering recommendations", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

// criteriaFromFlags treats only flags the user actually set as active, so
// an explicit zero (e.g. --max-duration 0) still counts.
func criteriaFromFlags(cmd *cobra.Command) *engine.Criteria {
	flags := cmd.Flags()
	criteria := &engine.Criteria{}

	if flags.Changed("role") {
		v, _ := flags.GetString("role")
		criteria.TargetRole = engine.String(v)
	}
	if flags.Changed("competency") {
		criteria.Competencies, _ = flags.GetStringSlice("competency")
	}
	if flags.Changed("use-case") {
		v, _ := flags.GetString("use-case")
		criteria.UseCase = engine.String(v)
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		criteria.AssessmentType = engine.String(v)
	}
	if flags.Changed("max-duration") {
		v, _ := flags.GetInt("max-duration")
		criteria.MaxDurationMinutes = engine.Int(v)
	}
	if flags.Changed("difficulty") {
		v, _ := flags.GetString("difficulty")
		criteria.DifficultyLevel = engine.String(v)
	}
	if flags.Changed("language") {
		v, _ := flags.GetString("language")
		criteria.Language = engine.String(v)
	}
	if flags.Changed("exclude") {
		criteria.ExcludeIDs, _ = flags.GetStringSlice("exclude")
	}

	return criteria
}

// inspect loops a selection prompt over the recommendation labels, printing
// the full record for each pick until the user is done.
func inspect(items []string, payloads []any) error {
	prompt := promptui.Select{
		Label: "Choose an assessment and press ENTER",
		Items: append(items, PromptDone),
	}

	for {
		index, selected, err := prompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptDone {
			return nil
		}

		pretty, err := json.MarshalIndent(payloads[index], "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(pretty))
	}
}
