// Package services implements the dealership business operations on top of
// the ledger repositories.
package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/dealerledger/internal/cascade"
	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/logging"
	"github.com/dmitrijs2005/dealerledger/internal/models"
	"github.com/dmitrijs2005/dealerledger/internal/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopModelsLimit is how many models TopModelsBySales reports.
const TopModelsLimit = 3

// errSkipCascade stops a cascade at its first step without it being a failure.
var errSkipCascade = errors.New("skip cascade")

type DealershipService interface {
	AddModel(ctx context.Context, m *models.Model) (*models.Model, error)
	AddCar(ctx context.Context, c *models.Car) (*models.Car, error)
	SellCar(ctx context.Context, s *models.Sale) (*models.Sale, error)
	GetCars(ctx context.Context, status models.CarStatus) ([]models.Car, error)
	GetCarInfo(ctx context.Context, vin string) (*models.CarFullInfo, error)
	UpdateVIN(ctx context.Context, vin, newVIN string) (*models.Car, error)
	RevertSale(ctx context.Context, salesNumber string) (*models.Sale, error)
	TopModelsBySales(ctx context.Context) ([]models.ModelSaleStats, error)
}

type dealershipService struct {
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewDealershipService(repos repomanager.RepositoryManager, logger logging.Logger) DealershipService {
	return &dealershipService{repos: repos, logger: logger}
}

// AddModel stores a model. It returns nil when the id already exists.
func (s *dealershipService) AddModel(ctx context.Context, m *models.Model) (*models.Model, error) {
	created, err := s.repos.Models().Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("add model: %w", err)
	}
	if created == nil {
		s.logger.Debug(ctx, "model already exists", "model_id", m.ID)
		return nil, nil
	}
	s.logger.Info(ctx, "model added", "model_id", m.ID, "name", m.Name, "brand", m.Brand)
	return created, nil
}

// AddCar stores a car. It returns nil when the VIN already exists.
func (s *dealershipService) AddCar(ctx context.Context, c *models.Car) (*models.Car, error) {
	if c.VIN == "" {
		return nil, fmt.Errorf("add car: empty vin: %w", common.ErrorValidation)
	}
	created, err := s.repos.Cars().Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("add car: %w", err)
	}
	if created == nil {
		s.logger.Debug(ctx, "car already exists", "vin", c.VIN)
		return nil, nil
	}
	s.logger.Info(ctx, "car added", "vin", c.VIN, "model_id", c.Model, "status", c.Status)
	return created, nil
}

// SellCar records a sale and marks the car sold. It returns nil when the
// sales number already exists. An empty sales number is generated. If the car
// status cannot be written the sale is tombstoned again.
func (s *dealershipService) SellCar(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	in := *sale
	if in.SalesNumber == "" {
		in.SalesNumber = "S-" + uuid.NewString()
	}

	salesRepo := s.repos.Sales()
	carsRepo := s.repos.Cars()
	var created *models.Sale

	err := cascade.Run(ctx,
		cascade.Step{
			Name: "create sale",
			Do: func(ctx context.Context) error {
				var err error
				created, err = salesRepo.Create(ctx, &in)
				if err != nil {
					return err
				}
				if created == nil {
					return errSkipCascade
				}
				return nil
			},
			Undo: func(ctx context.Context) error {
				_, _, err := salesRepo.MarkDeleted(ctx, in.SalesNumber)
				return err
			},
		},
		cascade.Step{
			Name: "mark car sold",
			Do: func(ctx context.Context) error {
				car, err := carsRepo.SetStatus(ctx, in.CarVIN, models.CarStatusSold)
				if err != nil {
					return err
				}
				if car == nil {
					s.logger.Warn(ctx, "sold car is not indexed, status unchanged", "vin", in.CarVIN, "sales_number", in.SalesNumber)
				}
				return nil
			},
		},
	)
	if errors.Is(err, errSkipCascade) {
		s.logger.Debug(ctx, "sale already exists", "sales_number", in.SalesNumber)
		return nil, nil
	}
	if err != nil {
		s.logCascadeFailure(ctx, "sell car", err, "sales_number", in.SalesNumber, "vin", in.CarVIN)
		return nil, fmt.Errorf("sell car: %w", err)
	}

	s.logger.Info(ctx, "car sold", "sales_number", created.SalesNumber, "vin", created.CarVIN, "cost", created.Cost)
	return created, nil
}

// GetCars returns every car with the status, in storage order.
func (s *dealershipService) GetCars(ctx context.Context, status models.CarStatus) ([]models.Car, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("get cars: status %q: %w", status, common.ErrorValidation)
	}
	list, err := s.repos.Cars().ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("get cars: %w", err)
	}
	return list, nil
}

// GetCarInfo joins a car with its model and its active sale. It returns nil
// when the car or its model cannot be resolved.
func (s *dealershipService) GetCarInfo(ctx context.Context, vin string) (*models.CarFullInfo, error) {
	car, model, err := s.resolveCar(ctx, vin)
	if err != nil || car == nil {
		return nil, err
	}

	info := &models.CarFullInfo{
		VIN:           car.VIN,
		CarModelName:  model.Name,
		CarModelBrand: model.Brand,
		Price:         car.Price,
		DateStart:     car.DateStart,
		Status:        car.Status,
	}

	sale, err := s.repos.Sales().FindActiveByVIN(ctx, vin)
	if err != nil {
		return nil, fmt.Errorf("get car info: %w", err)
	}
	if sale != nil {
		date, cost := sale.SalesDate, sale.Cost
		info.SalesDate = &date
		info.SalesCost = &cost
	}
	return info, nil
}

// resolveCar looks up a car and its model through their indexes. Both are
// nil when either is missing.
func (s *dealershipService) resolveCar(ctx context.Context, vin string) (*models.Car, *models.Model, error) {
	car, err := s.repos.Cars().GetByVIN(ctx, vin)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve car %s: %w", vin, err)
	}
	if car == nil {
		s.logger.Debug(ctx, "car not found", "vin", vin)
		return nil, nil, nil
	}

	model, err := s.repos.Models().GetByID(ctx, car.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve model of car %s: %w", vin, err)
	}
	if model == nil {
		s.logger.Warn(ctx, "car references unknown model", "vin", vin, "model_id", car.Model)
		return nil, nil, nil
	}
	return car, model, nil
}

// UpdateVIN renames a car. It returns nil when vin does not exist and
// common.ErrorDuplicateKey when newVIN is taken. Sales keep the old VIN.
func (s *dealershipService) UpdateVIN(ctx context.Context, vin, newVIN string) (*models.Car, error) {
	if newVIN == "" {
		return nil, fmt.Errorf("update vin: empty new vin: %w", common.ErrorValidation)
	}
	car, err := s.repos.Cars().RenameVIN(ctx, vin, newVIN)
	if err != nil {
		return nil, fmt.Errorf("update vin: %w", err)
	}
	if car == nil {
		s.logger.Debug(ctx, "car not found", "vin", vin)
		return nil, nil
	}
	s.logger.Info(ctx, "vin updated", "vin", vin, "new_vin", newVIN)
	return car, nil
}

// RevertSale tombstones a sale and makes its car available again. It returns
// nil when the sales number is not indexed. If the car status cannot be
// written the sale is restored.
func (s *dealershipService) RevertSale(ctx context.Context, salesNumber string) (*models.Sale, error) {
	salesRepo := s.repos.Sales()
	carsRepo := s.repos.Cars()

	var reverted *models.Sale
	var slot int

	err := cascade.Run(ctx,
		cascade.Step{
			Name: "tombstone sale",
			Do: func(ctx context.Context) error {
				var err error
				reverted, slot, err = salesRepo.MarkDeleted(ctx, salesNumber)
				if err != nil {
					return err
				}
				if reverted == nil {
					return errSkipCascade
				}
				return nil
			},
			Undo: func(ctx context.Context) error {
				return salesRepo.Restore(ctx, salesNumber, slot)
			},
		},
		cascade.Step{
			Name: "mark car available",
			Do: func(ctx context.Context) error {
				car, err := carsRepo.SetStatus(ctx, reverted.CarVIN, models.CarStatusAvailable)
				if err != nil {
					return err
				}
				if car == nil {
					s.logger.Warn(ctx, "reverted sale references unknown car", "vin", reverted.CarVIN, "sales_number", salesNumber)
				}
				return nil
			},
		},
	)
	if errors.Is(err, errSkipCascade) {
		s.logger.Debug(ctx, "sale not found", "sales_number", salesNumber)
		return nil, nil
	}
	if err != nil {
		s.logCascadeFailure(ctx, "revert sale", err, "sales_number", salesNumber)
		return nil, fmt.Errorf("revert sale: %w", err)
	}

	s.logger.Info(ctx, "sale reverted", "sales_number", salesNumber, "vin", reverted.CarVIN)
	return reverted, nil
}

type modelTotals struct {
	name  string
	brand string
	count int
	total decimal.Decimal
}

// TopModelsBySales ranks models by number of live sales, then by their total
// cost, and returns the first TopModelsLimit.
func (s *dealershipService) TopModelsBySales(ctx context.Context) ([]models.ModelSaleStats, error) {
	var live []models.Sale
	err := s.repos.Sales().ScanActive(ctx, func(sale models.Sale) error {
		live = append(live, sale)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("top models: %w", err)
	}

	byName := map[string]*modelTotals{}
	for _, sale := range live {
		_, model, err := s.resolveCar(ctx, sale.CarVIN)
		if err != nil {
			return nil, fmt.Errorf("top models: %w", err)
		}
		if model == nil {
			continue
		}

		acc, ok := byName[model.Name]
		if !ok {
			acc = &modelTotals{name: model.Name, brand: model.Brand}
			byName[model.Name] = acc
		}
		acc.count++
		acc.total = acc.total.Add(sale.Cost)
	}

	ranked := make([]*modelTotals, 0, len(byName))
	for _, acc := range byName {
		ranked = append(ranked, acc)
	}
	slices.SortFunc(ranked, func(a, b *modelTotals) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		if c := b.total.Cmp(a.total); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})

	result := make([]models.ModelSaleStats, 0, TopModelsLimit)
	for _, acc := range ranked[:min(TopModelsLimit, len(ranked))] {
		result = append(result, models.ModelSaleStats{
			CarModelName: acc.name,
			Brand:        acc.brand,
			SalesNumber:  acc.count,
			TotalCost:    acc.total,
		})
	}
	return result, nil
}

func (s *dealershipService) logCascadeFailure(ctx context.Context, op string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, common.ErrInconsistentState) {
		s.logger.Error(ctx, op+" left the ledger inconsistent", args...)
		return
	}
	var cerr *cascade.Error
	if errors.As(err, &cerr) && cerr.Compensated {
		s.logger.Warn(ctx, op+" failed and was compensated", args...)
		return
	}
	s.logger.Error(ctx, op+" failed", args...)
}
