package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/httpapi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// DefaultHTTPAddr is where serve listens when neither the flag nor config set one.
const DefaultHTTPAddr = "127.0.0.1:8080"

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show portfolio statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Portfolio.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPortfolioStats(stats))
			return nil
		},
	}
}

func newRecentCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently updated deals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deals, err := app.Portfolio.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(deals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No deals found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDealList(deals))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "How many deals (default 5)")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the portfolio as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var w io.Writer = cmd.OutOrStdout()
			if path != "" && path != "-" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}
			if err := app.Portfolio.Export(cmd.Context(), w); err != nil {
				return err
			}
			if path != "" && path != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Portfolio written to %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.HTTPAddr
			}
			if addr == "" {
				addr = DefaultHTTPAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := httpapi.NewServer(httpapi.Services{
				Deals:       app.Deals,
				Checklists:  app.Checklists,
				ActionPlans: app.ActionPlans,
				Portfolio:   app.Portfolio,
				Documents:   app.Documents,
				Analysis:    app.Analysis,
			}, app.logger()).Routes()

			srv := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				app.logger().Info("listening", "addr", addr)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config or "+DefaultHTTPAddr+")")
	return cmd
}
