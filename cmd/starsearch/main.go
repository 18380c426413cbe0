package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	settingsPath string
	listenHost   string
	listenPort   int
	debugLog     bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "starsearch",
	Short: "Semantic search over your starred GitHub repositories",
	Long: `starsearch fetches your starred GitHub repositories, summarizes their
READMEs with a language model, indexes the summaries in a local vector
store, and answers free-text requirement queries over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the starsearch HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the starsearch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("starsearch version", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	serveCmd.Flags().StringVar(&settingsPath, "settings", "settings.json", "path to the settings file")
	serveCmd.Flags().StringVar(&listenHost, "host", "localhost", "listen host")
	serveCmd.Flags().IntVar(&listenPort, "port", 8000, "listen port")
	serveCmd.Flags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
