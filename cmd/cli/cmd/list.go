package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent builds",
	Long: `List recent builds, newest first.

Example:
  gitappctl list
  gitappctl list --limit 50`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		client := NewBuildClient(viper.GetString("url"))
		builds, err := client.ListBuilds(limit)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		if len(builds) == 0 {
			cmd.Println("No builds found.")
			return
		}

		for _, b := range builds {
			cmd.Printf("%s  %-36s  %-14s  %-8s  %s\n",
				statusIcon(b.Status), b.ID, b.Framework, b.Platform, b.RepoName)
		}
	},
}

func init() {
	listCmd.Flags().IntP("limit", "l", 0, "Maximum number of builds to return (default: server default)")

	rootCmd.AddCommand(listCmd)
}
