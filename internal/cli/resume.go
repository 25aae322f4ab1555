package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <document-id>",
	Short: "Resume a checkpointed pipeline run",
	Long: `resume reloads a PublishingDocument checkpointed by a previous
"publish" invocation and continues it from whatever phase it last completed,
re-running only the phases it had not yet reached.`,
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

		result := orch.Resume(context.Background(), args[0])
		if !result.Success {
			return fmt.Errorf("pipeline: resuming %q failed at %s: %s", args[0], result.FailedAtState, result.ErrorMessage)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "published %s in %s\n", result.Document.PageName, result.TotalTime)
		fmt.Fprintf(cmd.OutOrStdout(), "output: %s\n", result.OutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}
