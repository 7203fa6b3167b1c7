package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/logging"
	"github.com/dmitrijs2005/dealerledger/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memStore) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

func newSnapshotter(t *testing.T, store ObjectStore, root string, width int) *Snapshotter {
	t.Helper()
	s, err := New(store, "bucket", "snaps", root, width, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return s
}

func writeLedgerFile(t *testing.T, root, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o600))
}

func readLedgerFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, name))
	require.NoError(t, err)
	return string(b)
}

func TestCreateRestore_RoundTrip(t *testing.T) {
	store := newMemStore()
	root := t.TempDir()
	carsData := strings.Repeat("V1;1;100;2024-02-08;available", 20) + "\n"

	writeLedgerFile(t, root, repomanager.CarsData, carsData)
	writeLedgerFile(t, root, repomanager.CarsIndex, "V1;1\n")

	s := newSnapshotter(t, store, root, 500)
	m, err := s.Create(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(m.ID, "20240501T123000Z-"))
	assert.Equal(t, 500, m.SlotWidth)
	require.Len(t, m.Files, 2)
	assert.Equal(t, repomanager.CarsData, m.Files[0].Name)
	assert.Equal(t, repomanager.CarsIndex, m.Files[1].Name)
	assert.Equal(t, int64(len(carsData)), m.Files[0].Size)
	assert.Less(t, m.Files[0].CompressedSize, m.Files[0].Size)
	assert.Contains(t, store.keys(), "bucket/snaps/"+m.ID+"/manifest.json")

	// the ledger moves on after the snapshot
	writeLedgerFile(t, root, repomanager.CarsIndex, "V1;1\nV2;2\n")
	writeLedgerFile(t, root, repomanager.SalesData, "S1;V1;2024-03-01;90;0\n")

	restored, err := s.Restore(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, restored.ID)

	assert.Equal(t, carsData, readLedgerFile(t, root, repomanager.CarsData))
	assert.Equal(t, "V1;1\n", readLedgerFile(t, root, repomanager.CarsIndex))
	_, err = os.Stat(filepath.Join(root, repomanager.SalesData))
	assert.ErrorIs(t, err, os.ErrNotExist, "files absent from the snapshot are removed")
}

func TestCreate_EmptyLedger(t *testing.T) {
	store := newMemStore()
	s := newSnapshotter(t, store, t.TempDir(), 500)

	m, err := s.Create(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m.Files)
	assert.Len(t, store.keys(), 1, "only the manifest")
}

func TestCreate_UploadFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("access denied")
	root := t.TempDir()
	writeLedgerFile(t, root, repomanager.ModelsData, "1;X5;BMW\n")

	s := newSnapshotter(t, store, root, 500)
	_, err := s.Create(context.Background())
	require.ErrorIs(t, err, store.putErr)
}

func TestRestore_UnknownSnapshot(t *testing.T) {
	s := newSnapshotter(t, newMemStore(), t.TempDir(), 500)

	_, err := s.Restore(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRestore_SlotWidthMismatch(t *testing.T) {
	store := newMemStore()
	root := t.TempDir()
	writeLedgerFile(t, root, repomanager.ModelsData, "1;X5;BMW\n")

	m, err := newSnapshotter(t, store, root, 500).Create(context.Background())
	require.NoError(t, err)

	_, err = newSnapshotter(t, store, root, 64).Restore(context.Background(), m.ID)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "1;X5;BMW\n", readLedgerFile(t, root, repomanager.ModelsData))
}

func TestRestore_MissingObjectLeavesLedgerUntouched(t *testing.T) {
	store := newMemStore()
	root := t.TempDir()
	writeLedgerFile(t, root, repomanager.ModelsData, "1;X5;BMW\n")
	writeLedgerFile(t, root, repomanager.ModelsIndex, "1;1\n")

	s := newSnapshotter(t, store, root, 500)
	m, err := s.Create(context.Background())
	require.NoError(t, err)

	delete(store.objects, "bucket/"+m.Files[1].Key)
	writeLedgerFile(t, root, repomanager.ModelsData, "changed\n")

	_, err = s.Restore(context.Background(), m.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, "changed\n", readLedgerFile(t, root, repomanager.ModelsData))
}
