// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/stallcast/internal/models"
	"github.com/tomtom215/stallcast/internal/recommend/algorithms"
)

// ErrChecksumMismatch is returned when a loaded artifact fails verification.
var ErrChecksumMismatch = errors.New("model checksum mismatch")

const (
	artifactExt     = ".gob.gz"
	sidecarExt      = ".json"
	timestampLayout = "20060102_150405"
)

var artifactNamePattern = regexp.MustCompile(`^(.+)_v(\d+)_(\d{8}_\d{6})\.gob\.gz$`)

// Metadata is the sidecar content: the model metadata plus integrity data.
type Metadata struct {
	models.ModelMetadata
	Checksum  string    `json:"checksum"`
	SizeBytes int64     `json:"size_bytes"`
	SavedAt   time.Time `json:"saved_at"`
}

// Artifact is a loaded model.
type Artifact struct {
	Metadata Metadata
	State    algorithms.PipelineState
}

// storedFile is the on-disk envelope of an artifact.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store reads and writes model artifacts in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a store at baseDir, creating the directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// ArtifactName returns the file name of a model version.
func ArtifactName(vendorID string, version int, trainedAt time.Time) string {
	return fmt.Sprintf("%s_v%d_%s%s", vendorID, version, trainedAt.UTC().Format(timestampLayout), artifactExt)
}

// ParseArtifactName extracts vendor, version and training time from an
// artifact file name.
func ParseArtifactName(name string) (vendorID string, version int, trainedAt time.Time, ok bool) {
	m := artifactNamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", 0, time.Time{}, false
	}
	version, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, time.Time{}, false
	}
	trainedAt, err = time.ParseInLocation(timestampLayout, m[3], time.UTC)
	if err != nil {
		return "", 0, time.Time{}, false
	}
	return m[1], version, trainedAt, true
}

// SidecarPath returns the metadata sidecar path of an artifact.
func SidecarPath(artifactPath string) string {
	return strings.TrimSuffix(artifactPath, artifactExt) + sidecarExt
}

// Save writes the artifact and its sidecar and returns the artifact path.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, meta models.ModelMetadata, state algorithms.PipelineState) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if meta.VendorID == "" || meta.Version <= 0 {
		return "", fmt.Errorf("save model: vendor and positive version required")
	}
	if meta.TrainedAt.IsZero() {
		meta.TrainedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return "", fmt.Errorf("encode model: %w", err)
	}
	raw := buf.Bytes()
	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return "", fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	sidecar := Metadata{
		ModelMetadata: meta,
		Checksum:      hex.EncodeToString(hash[:]),
		SizeBytes:     int64(compressed.Len()),
		SavedAt:       time.Now(),
	}

	path := filepath.Join(s.baseDir, ArtifactName(meta.VendorID, meta.Version, meta.TrainedAt))
	if err := writeGob(path, storedFile{Metadata: sidecar, CompressedData: compressed.Bytes()}); err != nil {
		return "", err
	}

	metaJSON, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		s.removeLocked(path)
		return "", fmt.Errorf("encode sidecar: %w", err)
	}
	if err := writeFileAtomic(SidecarPath(path), metaJSON); err != nil {
		s.removeLocked(path)
		return "", fmt.Errorf("write sidecar: %w", err)
	}
	return path, nil
}

func writeGob(path string, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode model file: %w", err)
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temporary file in the same directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        //nolint:errcheck // write error takes precedence
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	return os.Rename(tmpName, path)
}

// Load reads and verifies an artifact.
func (s *Store) Load(ctx context.Context, path string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(path) //nolint:gosec // path comes from the model index
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := decodeEnvelope(f, &sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	artifact := &Artifact{Metadata: sf.Metadata}
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&artifact.State); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return artifact, nil
}

func decodeEnvelope(r io.Reader, sf *storedFile) error {
	return gob.NewDecoder(r).Decode(sf)
}

// ReadMetadata reads the sidecar of an artifact. A missing sidecar returns
// an error wrapping os.ErrNotExist.
func (s *Store) ReadMetadata(artifactPath string) (Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(SidecarPath(artifactPath)) //nolint:gosec // path comes from the model index
	if err != nil {
		return Metadata{}, fmt.Errorf("read sidecar: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode sidecar: %w", err)
	}
	return meta, nil
}

// Remove deletes an artifact and its sidecar. Missing files are ignored.
func (s *Store) Remove(artifactPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(artifactPath)
}

func (s *Store) removeLocked(artifactPath string) {
	_ = os.Remove(artifactPath)              //nolint:errcheck // best-effort cleanup
	_ = os.Remove(SidecarPath(artifactPath)) //nolint:errcheck // best-effort cleanup
}

// List returns the artifact paths of a vendor ordered by version.
func (s *Store) List(vendorID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	type versioned struct {
		path    string
		version int
	}
	var found []versioned
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		vendor, version, _, ok := ParseArtifactName(entry.Name())
		if !ok || vendor != vendorID {
			continue
		}
		found = append(found, versioned{filepath.Join(s.baseDir, entry.Name()), version})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].version < found[j].version })
	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths, nil
}
