package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it.
type execIface interface {
	AddModel(ctx context.Context, args []string) error
	AddCar(ctx context.Context, args []string) error
	Sell(ctx context.Context, args []string) error
	Cars(ctx context.Context, args []string) error
	Info(ctx context.Context, args []string) error
	UpdateVIN(ctx context.Context, args []string) error
	Revert(ctx context.Context, args []string) error
	Top(ctx context.Context) error
	Snapshot(ctx context.Context) error
	Restore(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  addmodel <id> <name> <brand>
  addcar <vin> <model_id> <price> <date_start> [status]
  sell <vin> <cost> <date> [sales_number]
  cars [status]
  info <vin>
  updatevin <vin> <new_vin>
  revert <sales_number>
  top
  snapshot
  restore <snapshot_id>
  exit`

// runREPL reads commands from scanner until EOF, "exit" or "quit". Command
// errors are reported and the loop continues. An empty prompt is not printed.
func runREPL(ctx context.Context, a execIface, prompt string, scanner *bufio.Scanner) {
	for {
		if prompt != "" {
			printlnFn(prompt)
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "addmodel":
			err = a.AddModel(ctx, args)
		case "addcar":
			err = a.AddCar(ctx, args)
		case "sell":
			err = a.Sell(ctx, args)
		case "cars":
			err = a.Cars(ctx, args)
		case "info":
			err = a.Info(ctx, args)
		case "updatevin":
			err = a.UpdateVIN(ctx, args)
		case "revert":
			err = a.Revert(ctx, args)
		case "top":
			err = a.Top(ctx)
		case "snapshot":
			err = a.Snapshot(ctx)
		case "restore":
			err = a.Restore(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
