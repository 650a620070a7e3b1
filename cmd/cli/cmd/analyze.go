package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a GitHub repository without building it",
	Long: `Analyze a GitHub repository and report the detected mobile framework
and repository metadata. No build record is created.

Example:
  gitappctl analyze --repo https://github.com/acme/app`,
	Run: func(cmd *cobra.Command, args []string) {
		repo, _ := cmd.Flags().GetString("repo")
		if repo == "" {
			cmd.Println("Error: --repo is required")
			return
		}

		client := NewBuildClient(viper.GetString("url"))
		analysis, err := client.Analyze(repo)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		if !analysis.Valid {
			cmd.Printf("✗ %s\n", analysis.ErrorMessage)
			return
		}

		cmd.Printf("✓ %s%s%s\n", colorBold, analysis.Name, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Printf("%sFramework:%s  %s\n", colorDim, colorReset, analysis.Framework)
		cmd.Printf("%sLanguage:%s   %s\n", colorDim, colorReset, analysis.Language)
		cmd.Printf("%sBranch:%s     %s\n", colorDim, colorReset, analysis.DefaultBranch)
		cmd.Printf("%sStars:%s      %d\n", colorDim, colorReset, analysis.Stars)
		if analysis.Description != "" {
			cmd.Printf("%sAbout:%s      %s\n", colorDim, colorReset, analysis.Description)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringP("repo", "r", "", "GitHub repository URL (required)")

	rootCmd.AddCommand(analyzeCmd)
}
