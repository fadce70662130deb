package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	storeDriver string
	sqlitePath  string
	redisURL    string
	dbURL       string
	logFile     string
	logLevel    string
	themeFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "blogtui",
	Short: "A one-screen blog in your terminal",
	Long: `blogtui shows the stored posts three to a page with a form for writing a new one.

Posts are kept in the store selected by --store (or STORE_DRIVER in config.yml
or the environment), so the terminal and the HTTP server can share a blog.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the stored posts with an empty blog",
	Long: `Overwrites whatever is stored, readable or not, with an empty collection.
Use it when the stored posts are corrupt and the screen refuses new posts.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Store driver: memory, sqlite, redis or postgres")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "Redis URL for the redis store")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "Postgres DSN for the postgres store")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "blogtui.log", "File to write logs to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default from LOG_LEVEL)")
	rootCmd.Flags().StringVar(&themeFlag, "theme", "dark", "Initial theme: dark, light or system")

	resetCmd.Flags().Bool("yes", false, "Do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
