package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CarStatus is the sales state of a single vehicle.
type CarStatus string

const (
	CarStatusAvailable CarStatus = "available"
	CarStatusReserved  CarStatus = "reserved"
	CarStatusSold      CarStatus = "sold"
)

func (s CarStatus) Valid() bool {
	switch s {
	case CarStatusAvailable, CarStatusReserved, CarStatusSold:
		return true
	}
	return false
}

// ParseCarStatus converts stored text into a CarStatus.
func ParseCarStatus(s string) (CarStatus, error) {
	status := CarStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown car status %q", s)
	}
	return status, nil
}

// Car is a single vehicle unit identified by its VIN.
type Car struct {
	VIN       string
	Model     int
	Price     decimal.Decimal
	DateStart time.Time
	Status    CarStatus
}

// CarFullInfo joins a car with its model and, when present, its active sale.
type CarFullInfo struct {
	VIN           string
	CarModelName  string
	CarModelBrand string
	Price         decimal.Decimal
	DateStart     time.Time
	Status        CarStatus

	// SalesDate and SalesCost are nil when the car has no active sale.
	SalesDate *time.Time
	SalesCost *decimal.Decimal
}
