package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentic-research/fixtured/internal/loader"
	"github.com/agentic-research/fixtured/internal/registry"
	"github.com/agentic-research/fixtured/internal/server"
)

var (
	port       int
	dataDir    string
	configPath string
)

func init() {
	rootCmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to listen on")
	rootCmd.Flags().StringVarP(&dataDir, "data", "d", "./data", "Path to the data directory of .json files")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to an optional HCL config file")
}

var rootCmd = &cobra.Command{
	Use:   "fixtured",
	Short: "Serve a directory of JSON files as a REST-style API",
	Long: `fixtured maps every name.json in the data directory onto GET /api/name,
served from memory as a JSON array. GET /api lists the discovered endpoints.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func run(ctx context.Context, cfg Config) error {
	// Directory problems are the one fatal class; anything wrong with an
	// individual file is logged and skipped by the loader.
	info, err := os.Stat(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("data directory %s: %w", cfg.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s: not a directory", cfg.DataDir)
	}

	snap, problems, err := loader.Load(cfg.DataDir)
	if err != nil {
		return err
	}
	for _, p := range problems {
		log.Printf("skipping %s", p)
	}

	table := registry.NewHotSwap()
	table.Publish(snap)
	log.Printf("serving %d routes from %s", snap.Len(), cfg.DataDir)
	for _, name := range snap.Routes() {
		log.Printf("  /api/%s", name)
	}

	srv := server.New(table, server.Options{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Reload: func() (*registry.Snapshot, []loader.Problem, error) {
			return loader.Load(cfg.DataDir)
		},
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("shutting down")
		return srv.Stop(context.Background())
	})
	return g.Wait()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
