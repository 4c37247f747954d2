package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/assessment-recommender/model"
	"github.com/gcbaptista/assessment-recommender/services"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Recommend assessments for a query",
	Long: `Load the catalog, build the index and print the assessments recommended
for a free-text query or job description.

Examples:
  recommender recommend "Java developer who can collaborate with business teams"
  recommender recommend --json "entry level sales role"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	eng, closeEmbedder, err := buildEngine(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer closeEmbedder() //nolint:errcheck

	assessments, err := eng.Recommend(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}
	if jsonOutput {
		data, err := json.MarshalIndent(services.RecommendResponse{RecommendedAssessments: assessments}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputRecommendTable(cmd, assessments)
	return nil
}

func outputRecommendTable(cmd *cobra.Command, assessments []model.Assessment) {
	if len(assessments) == 0 {
		cmd.Println("No assessments found.")
		return
	}

	cmd.Println("Recommended assessments:")
	cmd.Println()
	for i := range assessments {
		a := assessments[i]
		cmd.Printf("  [%d] %s\n", i+1, a.Name)
		cmd.Printf("      %s\n", a.URL)
		details := fmt.Sprintf("Remote: %s  Adaptive: %s", a.RemoteSupport, a.AdaptiveSupport)
		if a.Duration != nil {
			details += fmt.Sprintf("  Duration: %d min", *a.Duration)
		}
		if len(a.TestType) > 0 {
			details += "  Type: " + strings.Join(a.TestType, ", ")
		}
		cmd.Printf("      %s\n", details)
		cmd.Println()
	}
}
