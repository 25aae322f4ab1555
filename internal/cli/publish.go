package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wikiforge/wikiforge/internal/document"
)

var (
	publishAudience         string
	publishTargetWordCount  int
	publishRequiredSections []string
	publishRelatedPages     []string
	publishSourceURLs       []string
)

var publishSuccessStyle = lipgloss.NewStyle().Bold(true)
var publishFailureStyle = lipgloss.NewStyle().Bold(true)

var publishCmd = &cobra.Command{
	Use:   "publish <topic>",
	Short: "Run the pipeline for one topic brief",
	Long: `publish drives a TopicBrief through every phase of the publishing
pipeline -- researching, drafting, fact-checking, editing, and critiquing --
and materializes the resulting article once it reaches PUBLISHED.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		orch, _, err := buildOrchestrator(cfg)
		if err != nil {
			return err
		}

		brief := document.TopicBrief{
			Topic:            args[0],
			Audience:         publishAudience,
			TargetWordCount:  publishTargetWordCount,
			RequiredSections: publishRequiredSections,
			RelatedPages:     publishRelatedPages,
			SourceURLs:       publishSourceURLs,
		}

		if flagDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "would publish %q (audience=%q, targetWordCount=%d)\n",
				brief.Topic, brief.Audience, brief.TargetWordCount)
			return nil
		}

		result := orch.Execute(context.Background(), brief)
		if !result.Success {
			fmt.Fprintln(cmd.OutOrStdout(), publishFailureStyle.Render(fmt.Sprintf(
				"publish failed at %s: %s", result.FailedAtState, result.ErrorMessage)))
			if result.FailedDocumentPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "debug artifact: %s\n", result.FailedDocumentPath)
			}
			return fmt.Errorf("pipeline: publishing %q failed at %s", brief.Topic, result.FailedAtState)
		}

		fmt.Fprintln(cmd.OutOrStdout(), publishSuccessStyle.Render(fmt.Sprintf(
			"published %s in %s", result.Document.PageName, result.TotalTime)))
		fmt.Fprintf(cmd.OutOrStdout(), "output: %s\n", result.OutputPath)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishAudience, "audience", "general readers", "Intended audience for the article")
	publishCmd.Flags().IntVar(&publishTargetWordCount, "word-count", 600, "Target word count for the article")
	publishCmd.Flags().StringSliceVar(&publishRequiredSections, "section", nil, "Required section heading (repeatable)")
	publishCmd.Flags().StringSliceVar(&publishRelatedPages, "related", nil, "Related page name (repeatable)")
	publishCmd.Flags().StringSliceVar(&publishSourceURLs, "source", nil, "Seed source URL (repeatable)")
	rootCmd.AddCommand(publishCmd)
}
