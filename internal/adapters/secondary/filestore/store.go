package filestore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"wine-model-service/internal/adapters/secondary/estimator"
	"wine-model-service/internal/config"
	"wine-model-service/internal/core/domain"
	ports "wine-model-service/internal/core/ports/output"
)

// DefaultTrainHint is the corrective action named when an artifact is missing.
const DefaultTrainHint = "go run ./cmd/train"

// Store keeps the model file and metadata.json side by side in one directory.
type Store struct {
	modelPath    string
	metadataPath string
	trainHint    string
}

var (
	_ ports.ArtifactSource = (*Store)(nil)
	_ ports.ArtifactWriter = (*Store)(nil)
)

func NewStore(cfg *config.ArtifactConfig) *Store {
	hint := cfg.TrainHint
	if hint == "" {
		hint = DefaultTrainHint
	}
	return &Store{
		modelPath:    filepath.Join(cfg.Dir, cfg.ModelFile),
		metadataPath: filepath.Join(cfg.Dir, cfg.MetadataFile),
		trainHint:    hint,
	}
}

func (s *Store) ModelPath() string    { return s.modelPath }
func (s *Store) MetadataPath() string { return s.metadataPath }

func (s *Store) Read(ctx context.Context) (*domain.Artifacts, error) {
	if err := s.ensureExists("Model", s.modelPath); err != nil {
		return nil, err
	}
	if err := s.ensureExists("Metadata", s.metadataPath); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.modelPath)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", s.modelPath, err)
	}
	defer f.Close()

	model, err := estimator.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.modelPath, err)
	}

	raw, err := os.ReadFile(s.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", s.metadataPath, err)
	}
	md, err := domain.ParseMetadata(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.metadataPath, err)
	}

	return &domain.Artifacts{Model: model, Metadata: md}, nil
}

func (s *Store) ensureExists(what, path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s file not found at %s. Run: %s",
			domain.ErrArtifactMissing, what, path, s.trainHint)
	}
	return fmt.Errorf("stat %s: %w", path, err)
}

func (s *Store) Write(ctx context.Context, kind string, clf domain.Classifier, md *domain.Metadata) error {
	if err := os.MkdirAll(filepath.Dir(s.modelPath), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.metadataPath), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := estimator.Encode(&buf, clf); err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := writeAtomic(s.modelPath, buf.Bytes()); err != nil {
		return err
	}

	md.Artifact = filepath.Base(s.modelPath)
	payload, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := writeAtomic(s.metadataPath, payload); err != nil {
		return err
	}
	md.Raw = payload
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
