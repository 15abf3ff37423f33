package cmd

import (
	"fmt"
	"os"

	mcpserver "github.com/okarabey/kitapara/mcp"
	"github.com/okarabey/kitapara/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// buildDeps assembles the services behind the MCP tools. The archive
// is optional; with no usable database the local tools report that
// instead of failing the whole server.
func buildDeps() (mcpserver.Deps, func(), error) {
	cat, err := loadCatalog()
	if err != nil {
		return mcpserver.Deps{}, nil, err
	}
	co := buildCoordinator(cat)

	st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "archive unavailable: %v\n", err)
		return mcpserver.Deps{Coordinator: co}, func() {}, nil
	}

	var queue *store.SaveQueue
	if cfg.AutoSave {
		queue = store.NewSaveQueue(st, cfg.QueueCapacity, cfg.BatchSize)
		co.Queue = queue
	}

	cleanup := func() {
		if queue != nil {
			queue.Stop()
		}
		st.Close()
	}
	return mcpserver.Deps{Coordinator: co, Store: st}, cleanup, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	deps, cleanup, err := buildDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting kitapara MCP server on stdio...")

	// Returning the error lets the deferred cleanup flush the queue
	// and close the store before the process exits.
	return mcpserver.Serve(deps)
}
