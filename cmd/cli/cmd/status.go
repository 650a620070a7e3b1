package cmd

import (
	"fmt"
	"time"

	"gitapp/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status [build_id]",
	Short: "Get status of a build",
	Long: `Retrieve detailed status information for a build, including its current
state (queued, building, success, failed, cancelled) and artifact URLs.

With --refresh the server polls the build provider first, so the answer
reflects the provider's latest state.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		buildID := args[0]
		refresh, _ := cmd.Flags().GetBool("refresh")

		client := NewBuildClient(viper.GetString("url"))

		var build *api.Build
		var err error
		if refresh {
			build, err = client.PollBuild(buildID)
		} else {
			build, err = client.GetBuild(buildID)
		}
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		printStatus(cmd, build)
	},
}

func printStatus(cmd *cobra.Command, build *api.Build) {
	icon := statusIcon(build.Status)
	cmd.Printf("%s %sBuild Details%s\n", icon, colorBold, colorReset)
	cmd.Println("──────────────────────────────")

	cmd.Printf("%sID:%s         %s\n", colorDim, colorReset, build.ID)
	cmd.Printf("%sRepo:%s       %s\n", colorDim, colorReset, build.RepoName)
	cmd.Printf("%sFramework:%s  %s\n", colorDim, colorReset, build.Framework)
	cmd.Printf("%sPlatform:%s   %s\n", colorDim, colorReset, build.Platform)
	cmd.Printf("%sProfile:%s    %s\n", colorDim, colorReset, build.Profile)
	cmd.Printf("%sStatus:%s     %s\n", colorDim, colorReset, colorizeStatus(build.Status))

	if build.AndroidArtifactURL != "" {
		cmd.Printf("%sAndroid:%s    %s\n", colorDim, colorReset, build.AndroidArtifactURL)
	}
	if build.IOSArtifactURL != "" {
		cmd.Printf("%siOS:%s        %s\n", colorDim, colorReset, build.IOSArtifactURL)
	}
	if build.ErrorMessage != "" {
		cmd.Printf("%sError:%s      %s%s%s\n", colorDim, colorReset, colorRed, build.ErrorMessage, colorReset)
	}

	cmd.Printf("%sCreated:%s    %s\n", colorDim, colorReset, formatTimeWithRelative(build.CreatedAt))
	cmd.Printf("%sUpdated:%s    %s\n", colorDim, colorReset, formatTimeWithRelative(build.UpdatedAt))
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func statusIcon(status string) string {
	switch status {
	case "success":
		return colorGreen + "✓" + colorReset
	case "failed":
		return colorRed + "✗" + colorReset
	case "cancelled":
		return colorRed + "⊘" + colorReset
	case "building":
		return colorYellow + "⏳" + colorReset
	case "queued":
		return colorCyan + "◯" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	icon := statusIcon(status)
	switch status {
	case "success":
		return icon + " " + colorGreen + status + colorReset
	case "failed", "cancelled":
		return icon + " " + colorRed + status + colorReset
	case "building":
		return icon + " " + colorYellow + status + colorReset
	case "queued":
		return icon + " " + colorCyan + status + colorReset
	default:
		return status
	}
}

func formatTimeWithRelative(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s %s(%s ago)%s", t.Format("Mon, 02 Jan 2006 15:04:05 MST"), colorDim, relativeTime(t), colorReset)
}

func relativeTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}

func init() {
	statusCmd.Flags().Bool("refresh", false, "Poll the build provider before reporting status")

	rootCmd.AddCommand(statusCmd)
}
