package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/motivatchi/tchi/internal/devserver"
)

// ServeCmd implements the tchi serve command.
type ServeCmd struct {
	flags *Flags

	addr string
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run a local in-memory API server",
		UsageText: "tchi serve [--addr <host:port>]",
		Description: `Runs a local stand-in for the remote API, useful for trying
tchi without an account. State lives in memory and is lost on
exit.

  tchi serve &
  tchi --api-url http://localhost:8000 ls`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "localhost:8000",
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	srv := &http.Server{
		Addr:    cmd.addr,
		Handler: devserver.New().Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	_, _ = fmt.Fprintf(c.Root().Writer, "dev server listening on %s\n", cmd.addr)
	log.Info().Str("addr", cmd.addr).Msg("dev server started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
