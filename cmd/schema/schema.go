// Package schema implements the schema command, which prints the database
// schema descriptor as JSON.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chiheye/LLMGraphChat/internal/graphdb"
	"github.com/chiheye/LLMGraphChat/internal/schema"
)

var logger = slog.Default()

// SetLogger installs the application logger for the schema command.
func SetLogger(l *slog.Logger) {
	logger = l
}

var (
	dbURI      string
	dbUsername string
	dbPassword string
)

// SchemaCmd introspects a graph database and prints its schema.
var SchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Introspect a graph database and print its schema",
	Long: "Introspect a graph database and print its schema.\n\n" +
		"Connects to the given Neo4j database, lists node labels and relationship " +
		"types, samples one node per label for property names, and prints the " +
		"resulting descriptor as JSON. An unreachable database yields an empty " +
		"descriptor rather than an error.",
	Example: `  # Print the schema of a local database
  graphchat schema --uri bolt://localhost:7687 --username neo4j --password secret`,
	PreRunE: validateSchema,
	RunE:    runSchema,
}

func init() {
	SchemaCmd.Flags().StringVar(&dbURI, "uri", "", "Neo4j connection URI (required)")
	SchemaCmd.Flags().StringVar(&dbUsername, "username", "", "Neo4j username (required)")
	SchemaCmd.Flags().StringVar(&dbPassword, "password", "", "Neo4j password (required)")
}

func validateSchema(cmd *cobra.Command, args []string) error {
	if dbURI == "" {
		return fmt.Errorf("missing required flag --uri")
	}
	if dbUsername == "" {
		return fmt.Errorf("missing required flag --username")
	}
	if dbPassword == "" {
		return fmt.Errorf("missing required flag --password")
	}

	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	manager := graphdb.NewManager(graphdb.WithLogger(logger))
	runner := manager.Runner(graphdb.Config{
		URI:      dbURI,
		Username: dbUsername,
		Password: dbPassword,
	})

	ctx := context.Background()
	defer func() { _ = manager.Close(ctx) }()

	introspector := schema.NewIntrospector(runner, schema.WithLogger(logger))
	descriptor := introspector.GetSchema(ctx)

	out, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema descriptor; %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
