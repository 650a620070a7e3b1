package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [build_id]",
	Short: "Delete a build record",
	Long: `Delete a build record from the server. Deletion is idempotent, so
deleting an id that is already gone still succeeds.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		buildID := args[0]

		client := NewBuildClient(viper.GetString("url"))
		if err := client.DeleteBuild(buildID); err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Build %s deleted\n", buildID)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
