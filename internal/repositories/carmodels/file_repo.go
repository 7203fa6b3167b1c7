package carmodels

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/dealerledger/internal/models"
	"github.com/dmitrijs2005/dealerledger/internal/storage/codec"
	"github.com/dmitrijs2005/dealerledger/internal/storage/index"
	"github.com/dmitrijs2005/dealerledger/internal/storage/slotfile"
	"github.com/dmitrijs2005/dealerledger/internal/storage/table"
)

const (
	fieldID = iota
	fieldName
	fieldBrand
	fieldCount
)

// FileRepository stores models as "id;name;brand" slots.
type FileRepository struct {
	table *table.Table[int]
}

// NewFileRepository binds the repository to a data file and its index file.
func NewFileRepository(dataPath, indexPath string, width int) *FileRepository {
	return &FileRepository{
		table: table.New(
			slotfile.Open(dataPath, width),
			index.Open(indexPath, index.IntKeys),
			index.IntKeys,
			fieldID,
		),
	}
}

func (r *FileRepository) Create(ctx context.Context, m *models.Model) (*models.Model, error) {
	_, created, err := r.table.Create(m.ID, encode(m))
	if err != nil {
		return nil, fmt.Errorf("create model %d: %w", m.ID, err)
	}
	if !created {
		return nil, nil
	}
	return m, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id int) (*models.Model, error) {
	fields, _, found, err := r.table.Read(id)
	if err != nil {
		return nil, fmt.Errorf("read model %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return decode(fields)
}

func encode(m *models.Model) []string {
	return []string{strconv.Itoa(m.ID), m.Name, m.Brand}
}

func decode(fields []string) (*models.Model, error) {
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("model record has %d fields: %w", len(fields), codec.ErrCorruptedRecord)
	}
	id, err := strconv.Atoi(fields[fieldID])
	if err != nil {
		return nil, fmt.Errorf("model id %q: %w", fields[fieldID], codec.ErrCorruptedRecord)
	}
	return &models.Model{ID: id, Name: fields[fieldName], Brand: fields[fieldBrand]}, nil
}
