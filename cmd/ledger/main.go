package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/dealerledger/internal/cli"
	"github.com/dmitrijs2005/dealerledger/internal/config"
	"github.com/dmitrijs2005/dealerledger/internal/filex"
	"github.com/dmitrijs2005/dealerledger/internal/logging"
	"github.com/dmitrijs2005/dealerledger/internal/repositories/repomanager"
	"github.com/dmitrijs2005/dealerledger/internal/services"
	"github.com/dmitrijs2005/dealerledger/internal/snapshot"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	format := cfg.LogFormat
	if format == config.LogFormatAuto {
		format = logging.FormatJSON
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = logging.FormatText
		}
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, format)
	if err != nil {
		return err
	}

	root, err := filex.EnsureDir(cfg.RootDir)
	if err != nil {
		return err
	}
	logger.Info(ctx, "ledger opened", "root", root, "slot_width", cfg.SlotWidth)

	repos := repomanager.NewFileRepositoryManager(root, cfg.SlotWidth)
	service := services.NewDealershipService(repos, logger)

	var snaps cli.Snapshots
	if cfg.SnapshotsEnabled() {
		client, err := snapshot.NewS3Client(ctx, snapshot.ClientOptions{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			return err
		}
		s, err := snapshot.New(client, cfg.S3Bucket, cfg.S3Prefix, root, cfg.SlotWidth, logger.With("component", "snapshot"))
		if err != nil {
			return err
		}
		defer s.Close()
		snaps = s
	}

	app := cli.NewApp(service, snaps, logger, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
	app.Run(ctx, os.Stdin)
	return nil
}
