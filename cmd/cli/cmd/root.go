package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gitappctl",
	Short: "Gitappctl is a command line tool for turning GitHub repos into mobile app builds",
	Long: `gitappctl is the command-line interface for the gitapp build service.

gitapp takes a GitHub repository URL, detects its mobile framework
(Expo, React Native, Flutter, or native Android) and drives cloud builds
for Android and iOS, tracking each build from queued to its artifact URLs.

Common workflows:

  Analyze a repository without building:
    gitappctl analyze --repo https://github.com/acme/app

  Submit a build:
    gitappctl create --repo https://github.com/acme/app --platform both --profile production

  Check build status (optionally refreshing from the provider first):
    gitappctl status <build-id> --refresh

  List recent builds:
    gitappctl list --limit 10

  Download the generated GitHub Actions workflow:
    gitappctl workflow <build-id> -o .github/workflows/build-mobile.yml

Configuration:
  Set the API endpoint via a flag, environment variable, or config file:
    GITAPP_URL    API endpoint (default: http://localhost:8080)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gitappctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".gitappctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "GITAPP_VARNAME"
	viper.SetEnvPrefix("GITAPP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gitappctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8080", "gitapp API URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
