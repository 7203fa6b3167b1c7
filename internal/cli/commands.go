package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/dealerledger/internal/models"
	"github.com/shopspring/decimal"
)

var (
	errUsage             = errors.New("usage")
	errSnapshotsDisabled = errors.New("snapshots are not configured (set an S3 bucket)")
)

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) AddModel(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return usage("addmodel <id> <name> <brand>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("model id %q: %w", args[0], err)
	}

	m, err := a.service.AddModel(ctx, &models.Model{ID: id, Name: args[1], Brand: args[2]})
	if err != nil {
		return err
	}
	if m == nil {
		a.printf("model %d already exists\n", id)
		return nil
	}
	a.printf("added model %d %s %s\n", m.ID, m.Brand, m.Name)
	return nil
}

func (a *App) AddCar(ctx context.Context, args []string) error {
	if len(args) != 4 && len(args) != 5 {
		return usage("addcar <vin> <model_id> <price> <date_start> [status]")
	}
	modelID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("model id %q: %w", args[1], err)
	}
	price, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("price %q: %w", args[2], err)
	}
	dateStart, err := models.ParseDate(args[3])
	if err != nil {
		return fmt.Errorf("date start: %w", err)
	}
	status := models.CarStatusAvailable
	if len(args) == 5 {
		if status, err = models.ParseCarStatus(args[4]); err != nil {
			return err
		}
	}

	c, err := a.service.AddCar(ctx, &models.Car{
		VIN:       args[0],
		Model:     modelID,
		Price:     price,
		DateStart: dateStart,
		Status:    status,
	})
	if err != nil {
		return err
	}
	if c == nil {
		a.printf("car %s already exists\n", args[0])
		return nil
	}
	a.printf("added car %s\n", c.VIN)
	return nil
}

func (a *App) Sell(ctx context.Context, args []string) error {
	if len(args) != 3 && len(args) != 4 {
		return usage("sell <vin> <cost> <date> [sales_number]")
	}
	cost, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("cost %q: %w", args[1], err)
	}
	date, err := models.ParseDate(args[2])
	if err != nil {
		return fmt.Errorf("sales date: %w", err)
	}
	sale := &models.Sale{CarVIN: args[0], Cost: cost, SalesDate: date}
	if len(args) == 4 {
		sale.SalesNumber = args[3]
	}

	sold, err := a.service.SellCar(ctx, sale)
	if err != nil {
		return err
	}
	if sold == nil {
		a.printf("sale %s already exists\n", sale.SalesNumber)
		return nil
	}
	a.printf("sale %s recorded for %s\n", sold.SalesNumber, sold.CarVIN)
	return nil
}

func (a *App) Cars(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("cars [status]")
	}
	status := models.CarStatusAvailable
	if len(args) == 1 {
		status = models.CarStatus(args[0])
	}

	list, err := a.service.GetCars(ctx, status)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("no %s cars\n", status)
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VIN\tMODEL\tPRICE\tSINCE\tSTATUS")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", c.VIN, c.Model, c.Price, models.FormatDate(c.DateStart), c.Status)
	}
	return w.Flush()
}

func (a *App) Info(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("info <vin>")
	}
	info, err := a.service.GetCarInfo(ctx, args[0])
	if err != nil {
		return err
	}
	if info == nil {
		a.printf("car %s not found\n", args[0])
		return nil
	}

	a.printf("VIN:    %s\n", info.VIN)
	a.printf("Model:  %s %s\n", info.CarModelBrand, info.CarModelName)
	a.printf("Price:  %s\n", info.Price)
	a.printf("Since:  %s\n", models.FormatDate(info.DateStart))
	a.printf("Status: %s\n", info.Status)
	if info.SalesDate != nil && info.SalesCost != nil {
		a.printf("Sold:   %s for %s\n", models.FormatDate(*info.SalesDate), *info.SalesCost)
	}
	return nil
}

func (a *App) UpdateVIN(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("updatevin <vin> <new_vin>")
	}
	c, err := a.service.UpdateVIN(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if c == nil {
		a.printf("car %s not found\n", args[0])
		return nil
	}
	a.printf("car %s is now %s\n", args[0], c.VIN)
	return nil
}

func (a *App) Revert(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("revert <sales_number>")
	}
	s, err := a.service.RevertSale(ctx, args[0])
	if err != nil {
		return err
	}
	if s == nil {
		a.printf("sale %s not found\n", args[0])
		return nil
	}
	a.printf("sale %s reverted, car %s is available\n", s.SalesNumber, s.CarVIN)
	return nil
}

func (a *App) Top(ctx context.Context) error {
	stats, err := a.service.TopModelsBySales(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		a.printf("no sales yet\n")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tMODEL\tBRAND\tSALES\tTOTAL")
	for i, s := range stats {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, s.CarModelName, s.Brand, s.SalesNumber, s.TotalCost)
	}
	return w.Flush()
}

func (a *App) Snapshot(ctx context.Context) error {
	if a.snapshots == nil {
		return errSnapshotsDisabled
	}
	m, err := a.snapshots.Create(ctx)
	if err != nil {
		return err
	}
	a.printf("snapshot %s (%d files)\n", m.ID, len(m.Files))
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("restore <snapshot_id>")
	}
	if a.snapshots == nil {
		return errSnapshotsDisabled
	}
	m, err := a.snapshots.Restore(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("restored snapshot %s taken %s\n", m.ID, m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
