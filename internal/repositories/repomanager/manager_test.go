package repomanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/dealerledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepositoryManager_UsesRootDirectory(t *testing.T) {
	root := t.TempDir()
	m := NewFileRepositoryManager(root, 64)

	_, err := m.Models().Create(context.Background(), &models.Model{ID: 3, Name: "A4", Brand: "Audi"})
	require.NoError(t, err)

	for _, name := range []string{ModelsData, ModelsIndex} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(root, CarsData))
	assert.True(t, os.IsNotExist(err), "untouched stores are not created")
}

func TestFileRepositoryManager_SeparateRootsAreIndependent(t *testing.T) {
	a := NewFileRepositoryManager(t.TempDir(), 64)
	b := NewFileRepositoryManager(t.TempDir(), 64)
	ctx := context.Background()

	_, err := a.Models().Create(ctx, &models.Model{ID: 1, Name: "X5", Brand: "BMW"})
	require.NoError(t, err)

	got, err := b.Models().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}
