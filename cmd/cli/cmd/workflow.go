package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow [build_id]",
	Short: "Download the generated GitHub Actions workflow for a build",
	Long: `Fetch the GitHub Actions workflow YAML generated for a build's framework
and platform. By default the document is printed to stdout; use -o to
write it to a file.

Example:
  gitappctl workflow <build-id>
  gitappctl workflow <build-id> -o .github/workflows/build-mobile.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		buildID := args[0]
		output, _ := cmd.Flags().GetString("output")

		client := NewBuildClient(viper.GetString("url"))
		doc, err := client.GetWorkflow(buildID)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		if output == "" {
			cmd.Print(doc)
			return
		}

		if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
			cmd.Printf("Error: failed to write %s: %v\n", output, err)
			return
		}
		cmd.Printf("✓ Workflow written to %s\n", output)
	},
}

func init() {
	workflowCmd.Flags().StringP("output", "o", "", "Write the workflow to this file instead of stdout")

	rootCmd.AddCommand(workflowCmd)
}
