// Package cli provides the interactive command-line front end of the ledger.
//
// Each input line is one command followed by whitespace-separated arguments:
//
//	addmodel <id> <name> <brand>
//	addcar <vin> <model_id> <price> <date_start> [status]
//	sell <vin> <cost> <date> [sales_number]
//	cars [status]
//	info <vin>
//	updatevin <vin> <new_vin>
//	revert <sales_number>
//	top
//	snapshot
//	restore <snapshot_id>
//	help
//	exit | quit
//
// Dates are written as YYYY-MM-DD. The REPL is started with App.Run, which
// blocks until input ends or the user exits.
package cli
