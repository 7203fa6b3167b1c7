package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/dmitrijs2005/dealerledger/internal/logging"
	"github.com/dmitrijs2005/dealerledger/internal/services"
	"github.com/dmitrijs2005/dealerledger/internal/snapshot"
)

const prompt = "ledger> "

// Snapshots is the part of snapshot.Snapshotter the CLI uses.
type Snapshots interface {
	Create(ctx context.Context) (*snapshot.Manifest, error)
	Restore(ctx context.Context, id string) (*snapshot.Manifest, error)
}

type App struct {
	service     services.DealershipService
	snapshots   Snapshots
	logger      logging.Logger
	out         io.Writer
	interactive bool
}

// NewApp wires the REPL. snapshots may be nil, which disables the snapshot
// and restore commands. interactive turns on the prompt.
func NewApp(service services.DealershipService, snapshots Snapshots, logger logging.Logger, out io.Writer, interactive bool) *App {
	return &App{
		service:     service,
		snapshots:   snapshots,
		logger:      logger,
		out:         out,
		interactive: interactive,
	}
}

// Run reads commands from in until it is exhausted or the user exits.
func (a *App) Run(ctx context.Context, in io.Reader) {
	p := ""
	if a.interactive {
		printlnFn("Dealer ledger (type 'help' for commands)")
		p = prompt
	}
	a.logger.Debug(ctx, "repl started", "interactive", a.interactive)
	runREPL(ctx, a, p, bufio.NewScanner(in))
}
