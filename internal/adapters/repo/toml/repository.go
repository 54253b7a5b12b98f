package toml

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	manifestPathKey  = "manifest.path"
	manifestFileMode = 0o644
	manifestDirMode  = 0o755
	tempFilePattern  = ".manifest-*.toml.tmp"
)

//go:embed manifest.toml
var embeddedManifest []byte

// ManifestRepository serves the method manifest, from the embedded table or
// from an override file named by manifest.path.
type ManifestRepository struct {
	path string
	mu   sync.RWMutex
}

var _ ports.MethodRepository = (*ManifestRepository)(nil)

func NewManifestRepository(cfg *viper.Viper) (*ManifestRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := strings.TrimSpace(cfg.GetString(manifestPathKey))
	if path == "" {
		return &ManifestRepository{}, nil
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &ManifestRepository{path: path}, nil
}

// Source names where descriptors are read from.
func (r *ManifestRepository) Source() string {
	if r.path == "" {
		return "embedded"
	}
	return r.path
}

func (r *ManifestRepository) List(ctx context.Context) ([]domain.MethodDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	descriptors := make([]domain.MethodDescriptor, 0, len(file.Methods))
	for i, entry := range file.Methods {
		descriptor, err := fromSchema(entry)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		descriptors = append(descriptors, descriptor)
	}

	return descriptors, nil
}

// Export writes the manifest currently in use to path, replacing the file
// atomically. The result is a valid manifest.path override.
func (r *ManifestRepository) Export(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	file, err := r.readSchema()
	r.mu.RUnlock()
	if err != nil {
		return err
	}

	target, err := normalizePath(path)
	if err != nil {
		return err
	}

	return writeSchema(target, file)
}

func (r *ManifestRepository) readSchema() (manifestSchema, error) {
	data := embeddedManifest
	if r.path != "" {
		raw, err := os.ReadFile(r.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return manifestSchema{}, fmt.Errorf("manifest file %s does not exist", r.path)
			}
			return manifestSchema{}, fmt.Errorf("read manifest file: %w", err)
		}
		data = raw
	}

	var file manifestSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return manifestSchema{}, fmt.Errorf("decode manifest file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return manifestSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve manifest path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func writeSchema(path string, file manifestSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(path), manifestDirMode); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode manifest file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp manifest file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp manifest file: %w", err)
	}

	if err := tempFile.Chmod(manifestFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp manifest file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp manifest file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace manifest file: %w", err)
	}

	cleanup = false
	return nil
}

func fromSchema(entry methodSchema) (domain.MethodDescriptor, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return domain.MethodDescriptor{}, errors.New("method name is empty")
	}

	category := domain.Category(entry.Category)
	if !category.Valid() {
		return domain.MethodDescriptor{}, fmt.Errorf("method %q: unknown category %q", name, entry.Category)
	}

	params := make([]domain.MethodParam, 0, len(entry.Params))
	seen := make(map[string]struct{}, len(entry.Params))
	for _, param := range entry.Params {
		if param.Name == "" {
			return domain.MethodDescriptor{}, fmt.Errorf("method %q: parameter without a name", name)
		}
		if _, dup := seen[param.Name]; dup {
			return domain.MethodDescriptor{}, fmt.Errorf("method %q: duplicate parameter %q", name, param.Name)
		}
		seen[param.Name] = struct{}{}

		params = append(params, domain.MethodParam{
			Name:        param.Name,
			Type:        param.Type,
			Required:    param.Required,
			Description: param.Description,
		})
	}

	return domain.MethodDescriptor{
		Name:        name,
		Description: entry.Description,
		Category:    category,
		Params:      params,
		Returns: domain.MethodReturns{
			Type:        entry.Returns.Type,
			Description: entry.Returns.Description,
		},
	}, nil
}
