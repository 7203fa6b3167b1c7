package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records the sale of one car. A reverted sale keeps its record with
// IsDeleted set.
type Sale struct {
	SalesNumber string
	CarVIN      string
	SalesDate   time.Time
	Cost        decimal.Decimal
	IsDeleted   bool
}

// ModelSaleStats aggregates the live sales of one model.
type ModelSaleStats struct {
	CarModelName string
	Brand        string
	SalesNumber  int
	TotalCost    decimal.Decimal
}
