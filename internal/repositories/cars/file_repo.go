package cars

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/models"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
	"github.com/dmitrijs2005/dealerledger/internal/storage/index"
	"github.com/dmitrijs2005/dealerledger/internal/storage/slotfile"
	"github.com/dmitrijs2005/dealerledger/internal/storage/table"
	"github.com/shopspring/decimal"
)

const (
	fieldVIN = iota
	fieldModel
	fieldPrice
	fieldDateStart
	fieldStatus
	fieldCount
)

// FileRepository implements Repository over a slot file and its index.
type FileRepository struct {
	table *table.Table[string]
}

// NewFileRepository binds the repository to a data file and its index file.
func NewFileRepository(dataPath, indexPath string, width int) *FileRepository {
	return &FileRepository{
		table: table.New(
			slotfile.Open(dataPath, width),
			index.Open(indexPath, index.StringKeys),
			index.StringKeys,
			fieldVIN,
		),
	}
}

func (r *FileRepository) Create(ctx context.Context, c *models.Car) (*models.Car, error) {
	if !c.Status.Valid() {
		return nil, fmt.Errorf("car %s status %q: %w", c.VIN, c.Status, common.ErrorValidation)
	}

	_, created, err := r.table.Create(c.VIN, encode(c))
	if err != nil {
		return nil, fmt.Errorf("create car %s: %w", c.VIN, err)
	}
	if !created {
		return nil, nil
	}
	return c, nil
}

func (r *FileRepository) GetByVIN(ctx context.Context, vin string) (*models.Car, error) {
	fields, _, found, err := r.table.Read(vin)
	if err != nil {
		return nil, fmt.Errorf("read car %s: %w", vin, err)
	}
	if !found {
		return nil, nil
	}
	return decode(fields)
}

func (r *FileRepository) SetStatus(ctx context.Context, vin string, status models.CarStatus) (*models.Car, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("car %s status %q: %w", vin, status, common.ErrorValidation)
	}

	fields, found, err := r.table.Update(vin, func(f []string) error {
		if len(f) != fieldCount {
			return fmt.Errorf("car record has %d fields: %w", len(f), codec.ErrCorruptedRecord)
		}
		f[fieldStatus] = string(status)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("set status of car %s: %w", vin, err)
	}
	if !found {
		return nil, nil
	}
	return decode(fields)
}

func (r *FileRepository) RenameVIN(ctx context.Context, vin, newVIN string) (*models.Car, error) {
	fields, found, err := r.table.RenameKey(vin, newVIN)
	if err != nil {
		return nil, fmt.Errorf("rename car %s to %s: %w", vin, newVIN, err)
	}
	if !found {
		return nil, nil
	}
	return decode(fields)
}

func (r *FileRepository) ListByStatus(ctx context.Context, status models.CarStatus) ([]models.Car, error) {
	return r.list(func(fields []string) bool {
		return len(fields) == fieldCount && fields[fieldStatus] == string(status)
	})
}

func (r *FileRepository) ListAll(ctx context.Context) ([]models.Car, error) {
	return r.list(func([]string) bool { return true })
}

func (r *FileRepository) list(keep func(fields []string) bool) ([]models.Car, error) {
	result := []models.Car{}
	err := r.table.Scan(func(slot int, fields []string) error {
		if !keep(fields) {
			return nil
		}
		car, err := decode(fields)
		if err != nil {
			return fmt.Errorf("slot %d: %w", slot, err)
		}
		result = append(result, *car)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan cars: %w", err)
	}
	return result, nil
}

func encode(c *models.Car) []string {
	return []string{
		c.VIN,
		strconv.Itoa(c.Model),
		c.Price.String(),
		models.FormatDate(c.DateStart),
		string(c.Status),
	}
}

func decode(fields []string) (*models.Car, error) {
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("car record has %d fields: %w", len(fields), codec.ErrCorruptedRecord)
	}

	modelID, err := strconv.Atoi(fields[fieldModel])
	if err != nil {
		return nil, fmt.Errorf("car model %q: %w", fields[fieldModel], codec.ErrCorruptedRecord)
	}
	price, err := decimal.NewFromString(fields[fieldPrice])
	if err != nil {
		return nil, fmt.Errorf("car price %q: %w", fields[fieldPrice], codec.ErrCorruptedRecord)
	}
	dateStart, err := models.ParseDate(fields[fieldDateStart])
	if err != nil {
		return nil, fmt.Errorf("car date_start %q: %w", fields[fieldDateStart], codec.ErrCorruptedRecord)
	}
	status, err := models.ParseCarStatus(fields[fieldStatus])
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, codec.ErrCorruptedRecord)
	}

	return &models.Car{
		VIN:       fields[fieldVIN],
		Model:     modelID,
		Price:     price,
		DateStart: dateStart,
		Status:    status,
	}, nil
}
