package cmd

import (
	"gitapp/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new mobile build for a GitHub repository",
	Long: `Submit a GitHub repository for a mobile build. The server analyzes the
repository, detects its framework, and triggers the build in the background.

Example:
  gitappctl create --repo https://github.com/acme/app --platform both --profile production
  gitappctl create --repo https://github.com/acme/app --platform android --profile preview`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		repo, _ := flags.GetString("repo")
		platform, _ := flags.GetString("platform")
		profile, _ := flags.GetString("profile")

		if repo == "" {
			cmd.Println("Error: --repo is required")
			return
		}

		client := NewBuildClient(viper.GetString("url"))
		req := api.CreateBuildRequest{
			RepoURL:  repo,
			Platform: platform,
			Profile:  profile,
		}

		build, err := client.CreateBuild(req)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Build submitted!\nID: %s\nRepo: %s\nFramework: %s\nPlatform: %s\nProfile: %s\n",
			build.ID, build.RepoName, build.Framework, build.Platform, build.Profile)
	},
}

func init() {
	flags := createCmd.Flags()
	flags.StringP("repo", "r", "", "GitHub repository URL (required)")
	flags.StringP("platform", "p", "both", "Target platform: android, ios, or both")
	flags.String("profile", "production", "Build profile: development, preview, or production")

	rootCmd.AddCommand(createCmd)
}
