package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chiheye/LLMGraphChat/cmd/schema"
	"github.com/chiheye/LLMGraphChat/cmd/serve"
	"github.com/chiheye/LLMGraphChat/cmd/version"
	"github.com/chiheye/LLMGraphChat/internal/config"
	"github.com/chiheye/LLMGraphChat/internal/logging"
)

// logManager is the global logging manager, created in init() and upgraded after config loads
var logManager *logging.Manager

var graphchatCmd = &cobra.Command{
	Use:   "graphchat",
	Short: "A Natural Language Chat Interface for Graph Databases",
	Long: "GraphChat turns natural-language questions into graph database queries.\n\n" +
		"Each chat turn synthesizes a Cypher query with an LLM, executes it against a " +
		"Neo4j database with automatic mechanical repair of common query defects, and " +
		"composes a reply with the result normalized as a graph or a table.\n\n",
	PersistentPreRunE: runInitialize,
}

func init() {
	// Create logging Manager in bootstrap mode (stderr text only)
	logManager = logging.NewManager()

	graphchatCmd.AddCommand(serve.ServeCmd)
	graphchatCmd.AddCommand(schema.SchemaCmd)
	graphchatCmd.AddCommand(version.VersionCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := config.Init(); err != nil {
		return err
	}

	// Upgrade logging after config is available
	cfg := config.Get()
	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		level = logging.DefaultLevel
		if cfg.LogLevel != "" {
			logger.Warn("invalid log level configured, using default", "configured", cfg.LogLevel, "default", "info")
		}
	}

	if err := logManager.Upgrade(cfg.LogFile, level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		// Don't return error - continue with bootstrap mode
	}

	serve.SetLogger(logManager.Logger())
	schema.SetLogger(logManager.Logger())

	return nil
}

func Execute() error {
	graphchatCmd.SilenceErrors = true
	graphchatCmd.SilenceUsage = true

	// Ensure logging is properly closed on exit
	defer func() { _ = logManager.Close() }()

	err := graphchatCmd.Execute()

	if err != nil {
		cmd, _, _ := graphchatCmd.Find(os.Args[1:])
		if cmd == nil {
			cmd = graphchatCmd
		}

		fmt.Printf("Error: %v\n", err)
		if !cmd.SilenceUsage {
			fmt.Printf("\n")
			cmd.SetOut(os.Stdout)
			_ = cmd.Usage()
		}

		return err
	}

	return nil
}
