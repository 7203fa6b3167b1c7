package sales

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dealerledger/internal/models"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
	"github.com/dmitrijs2005/dealerledger/internal/storage/index"
	"github.com/dmitrijs2005/dealerledger/internal/storage/slotfile"
	"github.com/dmitrijs2005/dealerledger/internal/storage/table"
	"github.com/shopspring/decimal"
)

const (
	fieldNumber = iota
	fieldCarVIN
	fieldDate
	fieldCost
	fieldDeleted
	fieldCount
)

const (
	flagLive    = "0"
	flagDeleted = "1"
)

// FileRepository stores sales as
// "sales_number;car_vin;sales_date;cost;is_deleted" slots.
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
			fieldNumber,
		),
	}
}

func (r *FileRepository) Create(ctx context.Context, s *models.Sale) (*models.Sale, error) {
	live := *s
	live.IsDeleted = false

	_, created, err := r.table.Create(live.SalesNumber, encode(&live))
	if err != nil {
		return nil, fmt.Errorf("create sale %s: %w", s.SalesNumber, err)
	}
	if !created {
		return nil, nil
	}
	return &live, nil
}

func (r *FileRepository) GetByNumber(ctx context.Context, number string) (*models.Sale, error) {
	fields, _, found, err := r.table.Read(number)
	if err != nil {
		return nil, fmt.Errorf("read sale %s: %w", number, err)
	}
	if !found {
		return nil, nil
	}
	return decode(fields)
}

func (r *FileRepository) MarkDeleted(ctx context.Context, number string) (*models.Sale, int, error) {
	fields, slot, found, err := r.table.Read(number)
	if err != nil {
		return nil, 0, fmt.Errorf("read sale %s: %w", number, err)
	}
	if !found {
		return nil, 0, nil
	}

	sale, err := decode(fields)
	if err != nil {
		return nil, 0, err
	}
	sale.IsDeleted = true

	if err := r.table.Overwrite(slot, encode(sale)); err != nil {
		return nil, 0, fmt.Errorf("tombstone sale %s: %w", number, err)
	}
	if err := r.table.Unindex(number); err != nil {
		return nil, 0, fmt.Errorf("unindex sale %s: %w", number, err)
	}
	return sale, slot, nil
}

func (r *FileRepository) Restore(ctx context.Context, number string, slot int) error {
	fields, err := r.table.ReadSlot(slot)
	if err != nil {
		return fmt.Errorf("read sale slot %d: %w", slot, err)
	}
	sale, err := decode(fields)
	if err != nil {
		return err
	}
	if sale.SalesNumber != number {
		return fmt.Errorf("slot %d holds sale %s, not %s: %w", slot, sale.SalesNumber, number, codec.ErrCorruptedRecord)
	}

	sale.IsDeleted = false
	if err := r.table.Overwrite(slot, encode(sale)); err != nil {
		return fmt.Errorf("restore sale %s: %w", number, err)
	}
	if err := r.table.Reindex(number, slot); err != nil {
		return fmt.Errorf("reindex sale %s: %w", number, err)
	}
	return nil
}

func (r *FileRepository) FindActiveByVIN(ctx context.Context, vin string) (*models.Sale, error) {
	var active *models.Sale
	err := r.ScanActive(ctx, func(s models.Sale) error {
		if s.CarVIN == vin {
			active = &s
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return active, nil
}

func (r *FileRepository) ScanActive(ctx context.Context, fn func(s models.Sale) error) error {
	err := r.table.Scan(func(slot int, fields []string) error {
		if len(fields) == fieldCount && fields[fieldDeleted] == flagDeleted {
			return nil
		}
		sale, err := decode(fields)
		if err != nil {
			return fmt.Errorf("slot %d: %w", slot, err)
		}
		return fn(*sale)
	})
	if err != nil {
		return fmt.Errorf("scan sales: %w", err)
	}
	return nil
}

func encode(s *models.Sale) []string {
	flag := flagLive
	if s.IsDeleted {
		flag = flagDeleted
	}
	return []string{
		s.SalesNumber,
		s.CarVIN,
		models.FormatDate(s.SalesDate),
		s.Cost.String(),
		flag,
	}
}

func decode(fields []string) (*models.Sale, error) {
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("sale record has %d fields: %w", len(fields), codec.ErrCorruptedRecord)
	}

	date, err := models.ParseDate(fields[fieldDate])
	if err != nil {
		return nil, fmt.Errorf("sale date %q: %w", fields[fieldDate], codec.ErrCorruptedRecord)
	}
	cost, err := decimal.NewFromString(fields[fieldCost])
	if err != nil {
		return nil, fmt.Errorf("sale cost %q: %w", fields[fieldCost], codec.ErrCorruptedRecord)
	}

	var deleted bool
	switch fields[fieldDeleted] {
	case flagLive:
	case flagDeleted:
		deleted = true
	default:
		return nil, fmt.Errorf("sale is_deleted %q: %w", fields[fieldDeleted], codec.ErrCorruptedRecord)
	}

	return &models.Sale{
		SalesNumber: fields[fieldNumber],
		CarVIN:      fields[fieldCarVIN],
		SalesDate:   date,
		Cost:        cost,
		IsDeleted:   deleted,
	}, nil
}
