// Package models defines the ledger entities persisted by the repositories
// and the read models returned by the dealership service.
package models
