// Package repomanager vends the ledger repositories for one root directory.
package repomanager

import (
	"path/filepath"

	"github.com/dmitrijs2005/dealerledger/internal/repositories/carmodels"
	"github.com/dmitrijs2005/dealerledger/internal/repositories/cars"
	"github.com/dmitrijs2005/dealerledger/internal/repositories/sales"
)

// File names of the ledger under its root directory.
const (
	ModelsData  = "models.txt"
	ModelsIndex = "models_index.txt"
	CarsData    = "cars.txt"
	CarsIndex   = "cars_index.txt"
	SalesData   = "sales.txt"
	SalesIndex  = "sales_index.txt"
)

// LedgerFiles lists every file that makes up a ledger.
var LedgerFiles = []string{ModelsData, ModelsIndex, CarsData, CarsIndex, SalesData, SalesIndex}

type RepositoryManager interface {
	Models() carmodels.Repository
	Cars() cars.Repository
	Sales() sales.Repository
}

// FileRepositoryManager builds file-backed repositories under Root.
type FileRepositoryManager struct {
	Root      string
	SlotWidth int

	models *carmodels.FileRepository
	cars   *cars.FileRepository
	sales  *sales.FileRepository
}

// NewFileRepositoryManager returns a manager for the ledger stored in root.
// Files are created lazily by the first write.
func NewFileRepositoryManager(root string, slotWidth int) *FileRepositoryManager {
	path := func(name string) string { return filepath.Join(root, name) }
	return &FileRepositoryManager{
		Root:      root,
		SlotWidth: slotWidth,
		models:    carmodels.NewFileRepository(path(ModelsData), path(ModelsIndex), slotWidth),
		cars:      cars.NewFileRepository(path(CarsData), path(CarsIndex), slotWidth),
		sales:     sales.NewFileRepository(path(SalesData), path(SalesIndex), slotWidth),
	}
}

func (m *FileRepositoryManager) Models() carmodels.Repository { return m.models }

func (m *FileRepositoryManager) Cars() cars.Repository { return m.cars }

func (m *FileRepositoryManager) Sales() sales.Repository { return m.sales }
