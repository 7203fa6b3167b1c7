// Package snapshot copies the ledger files to an S3-compatible object store
// and back.
//
// A snapshot lives under <prefix>/<id>/ and holds one zstd-compressed object
// per ledger file plus a manifest.json describing them. Files that did not
// exist when the snapshot was taken are absent from the manifest and are
// removed locally on restore.
//
// Snapshotter must not run while the ledger is being written.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/dealerledger/internal/common"
	"github.com/dmitrijs2005/dealerledger/internal/filex"
	"github.com/dmitrijs2005/dealerledger/internal/logging"
	"github.com/dmitrijs2005/dealerledger/internal/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

const (
	manifestName = "manifest.json"
	objectSuffix = ".zst"
	transferMax  = 4
)

// ObjectStore is the part of the S3 API used by Snapshotter. *s3.Client
// satisfies it.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Manifest describes one snapshot.
type Manifest struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	SlotWidth int         `json:"slot_width"`
	Files     []FileEntry `json:"files"`
}

// FileEntry is one ledger file inside a snapshot.
type FileEntry struct {
	Name           string `json:"name"`
	Key            string `json:"key"`
	Size           int64  `json:"size"`
	CompressedSize int64  `json:"compressed_size"`
}

type Snapshotter struct {
	store     ObjectStore
	bucket    string
	prefix    string
	root      string
	slotWidth int
	logger    logging.Logger

	enc *zstd.Encoder
	dec *zstd.Decoder
	now func() time.Time
}

// New returns a Snapshotter for the ledger in root. Close releases its
// compression state.
func New(store ObjectStore, bucket, prefix, root string, slotWidth int, logger logging.Logger) (*Snapshotter, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &Snapshotter{
		store:     store,
		bucket:    bucket,
		prefix:    prefix,
		root:      root,
		slotWidth: slotWidth,
		logger:    logger,
		enc:       enc,
		dec:       dec,
		now:       time.Now,
	}, nil
}

func (s *Snapshotter) Close() error {
	s.dec.Close()
	return s.enc.Close()
}

func (s *Snapshotter) key(id, name string) string {
	return path.Join(s.prefix, id, name)
}

// Create uploads every existing ledger file and then the manifest, which
// makes the snapshot visible to Restore.
func (s *Snapshotter) Create(ctx context.Context) (*Manifest, error) {
	now := s.now().UTC()
	m := &Manifest{
		ID:        now.Format("20060102T150405Z") + "-" + uuid.NewString()[:8],
		CreatedAt: now,
		SlotWidth: s.slotWidth,
	}

	entries := make([]*FileEntry, len(repomanager.LedgerFiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transferMax)

	for i, name := range repomanager.LedgerFiles {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(s.root, name))
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}

			packed := s.enc.EncodeAll(data, nil)
			key := s.key(m.ID, name+objectSuffix)
			if err := s.put(gctx, key, packed); err != nil {
				return err
			}
			entries[i] = &FileEntry{
				Name:           name,
				Key:            key,
				Size:           int64(len(data)),
				CompressedSize: int64(len(packed)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", m.ID, err)
	}

	for _, e := range entries {
		if e != nil {
			m.Files = append(m.Files, *e)
		}
	}

	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.put(ctx, s.key(m.ID, manifestName), raw); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", m.ID, err)
	}

	s.logger.Info(ctx, "snapshot created", "id", m.ID, "files", len(m.Files), "bucket", s.bucket)
	return m, nil
}

// Restore replaces the local ledger files with the snapshot id. It returns
// common.ErrorNotFound when the snapshot has no manifest. Nothing is written
// locally until every object has been fetched and verified.
func (s *Snapshotter) Restore(ctx context.Context, id string) (*Manifest, error) {
	raw, err := s.get(ctx, s.key(id, manifestName))
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", id, err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("restore %s: decode manifest: %w", id, err)
	}
	if m.SlotWidth != s.slotWidth {
		return nil, fmt.Errorf("restore %s: snapshot slot width %d, ledger uses %d: %w",
			id, m.SlotWidth, s.slotWidth, common.ErrorValidation)
	}
	for _, f := range m.Files {
		if !slices.Contains(repomanager.LedgerFiles, f.Name) {
			return nil, fmt.Errorf("restore %s: unexpected file %q: %w", id, f.Name, common.ErrorValidation)
		}
	}

	contents := make([][]byte, len(m.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(transferMax)

	for i, f := range m.Files {
		g.Go(func() error {
			packed, err := s.get(gctx, f.Key)
			if err != nil {
				return err
			}
			data, err := s.dec.DecodeAll(packed, nil)
			if err != nil {
				return fmt.Errorf("decompress %s: %w", f.Name, err)
			}
			if int64(len(data)) != f.Size {
				return fmt.Errorf("%s: got %d bytes, manifest says %d", f.Name, len(data), f.Size)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("restore %s: %w", id, err)
	}

	present := make(map[string]struct{}, len(m.Files))
	for i, f := range m.Files {
		if err := filex.WriteFileAtomic(filepath.Join(s.root, f.Name), contents[i]); err != nil {
			return nil, fmt.Errorf("restore %s: %w", id, err)
		}
		present[f.Name] = struct{}{}
	}
	for _, name := range repomanager.LedgerFiles {
		if _, ok := present[name]; ok {
			continue
		}
		err := os.Remove(filepath.Join(s.root, name))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("restore %s: remove %s: %w", id, name, err)
		}
	}

	s.logger.Info(ctx, "snapshot restored", "id", id, "files", len(m.Files))
	return &m, nil
}

func (s *Snapshotter) put(ctx context.Context, key string, data []byte) error {
	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *Snapshotter) get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.store.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("get %s: %w", key, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}
