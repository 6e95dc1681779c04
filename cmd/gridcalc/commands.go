package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/gridcalc/api"
	"github.com/katalvlaran/gridcalc/sheet"
	"github.com/katalvlaran/gridcalc/sheetio"
	"github.com/katalvlaran/gridcalc/store"
)

const shutdownTimeout = 5 * time.Second

// options holds flag values shared by the subcommands.
type options struct {
	verbose bool
	texts   bool
	addr    string
	dbPath  string
	name    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gridcalc",
		Short:         "Spreadsheet engine with formulas and dependency tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug events to stderr")

	printCmd := &cobra.Command{
		Use:   "print [input.csv|input.xlsx]",
		Short: "Print the values (or texts) of a sheet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd, opts, args[0])
		},
	}
	printCmd.Flags().BoolVar(&opts.texts, "texts", false, "Print cell texts instead of values")

	convertCmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a sheet between CSV and XLSX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], args[1])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import [input]",
		Short: "Store a sheet file in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a stored sheet over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.addr, "addr", ":8080", "Listen address")

	for _, cmd := range []*cobra.Command{importCmd, serveCmd} {
		cmd.Flags().StringVar(&opts.dbPath, "db", "gridcalc.db", "Database file")
		cmd.Flags().StringVar(&opts.name, "sheet", "main", "Sheet name in the database")
	}

	rootCmd.AddCommand(printCmd, convertCmd, importCmd, serveCmd)

	return rootCmd
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runPrint(cmd *cobra.Command, o *options, path string) error {
	s, err := sheetio.LoadFile(path, sheet.WithLogger(o.logger()))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if o.texts {
		return s.PrintTexts(cmd.OutOrStdout())
	}
	if err := s.Recalculate(cmd.Context()); err != nil {
		return err
	}

	return s.PrintValues(cmd.OutOrStdout())
}

func runConvert(o *options, in, out string) error {
	s, err := sheetio.LoadFile(in, sheet.WithLogger(o.logger()))
	if err != nil {
		return fmt.Errorf("load %s: %w", in, err)
	}
	if err := sheetio.SaveFile(out, s); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}

	return nil
}

func runImport(cmd *cobra.Command, o *options, path string) error {
	s, err := sheetio.LoadFile(path, sheet.WithLogger(o.logger()))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	st, err := store.Open(o.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Save(o.name, s); err != nil {
		return fmt.Errorf("save %s: %w", o.name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d cells into %s\n", s.Len(), o.name)

	return nil
}

func runServe(ctx context.Context, o *options) error {
	logger := o.logger()

	st, err := store.Open(o.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	// 1) Resume the stored sheet, or start an empty one.
	s, err := st.Load(o.name, sheet.WithLogger(logger))
	if errors.Is(err, store.ErrSheetNotFound) {
		s, err = sheet.New(sheet.WithLogger(logger)), nil
	}
	if err != nil {
		return err
	}

	// 2) Serve until interrupted.
	srv := &http.Server{
		Addr:              o.addr,
		Handler:           api.NewServer(s, api.WithStore(o.name, st), api.WithLogger(logger)).Handler(),
		ReadHeaderTimeout: shutdownTimeout,
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", o.addr), slog.String("sheet", o.name), slog.Int("cells", s.Len()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// 3) Graceful shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}
