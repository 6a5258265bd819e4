package main

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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/config"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/greeter"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/inspector"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/repository"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/internal/server"
	"github.com/klcolon/Rusty-Tools-for-Astrophotographers/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "astrobridge",
		Short:         "Greet and report image dimensions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGreetCmd(), newReadImageCmd(), newServeCmd())
	return root
}

// setup loads config and builds the logger shared by every subcommand.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func newGreetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "greet NAME",
		Short: "Print a greeting for NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			greeter.New(printer(cmd.OutOrStdout()), log).Greet(args[0])
			return nil
		},
	}
}

// printer is the terminal stand-in for the browser's alert.
func printer(w io.Writer) greeter.DisplayFunc {
	return func(msg string) {
		fmt.Fprintln(w, msg)
	}
}

func newReadImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-image PATH",
		Short: "Print the dimensions of the image at PATH",
		Long: "Print \"Image dimensions: WxH\" for the image at PATH. PATH may be a local file\n" +
			"or s3://<bucket>/<key> when S3_ENABLED is set. APP_MAX_IMAGE_SIZE does not apply.\n" +
			"Exits with status 1 if the image cannot be opened or decoded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			src, err := readImageSource(cfg, log, args[0])
			if err != nil {
				return err
			}

			// No size cap: any decodable image is reported, however large.
			insp := inspector.New(src, cmd.OutOrStdout(), 0, log)
			insp.ReadImage(cmd.Context(), args[0])
			return nil
		},
	}
}

// openRepository is replaced in tests.
var openRepository = repository.Open

// readImageSource only touches S3 when path is an s3:// object, so reading a
// local file never contacts the bucket.
func readImageSource(cfg *config.Config, log *zap.Logger, path string) (inspector.Source, error) {
	if !inspector.IsS3Path(path) {
		return inspector.NewFileSource(""), nil
	}

	s3Repo, err := openRepository(&cfg.S3, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 repository: %w", err)
	}
	return inspector.NewSource("", s3Repo), nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve greet and dimension lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			sugar := log.Sugar()

			srv, err := server.New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				sugar.Infof("Starting server on %s:%s", cfg.Server.Host, cfg.Server.Port)
				if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			sugar.Info("Shutting down gracefully...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				sugar.Errorf("Server forced to shutdown: %v", err)
			}

			sugar.Info("Server exited")
			return nil
		},
	}
}
