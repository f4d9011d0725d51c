package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/multisig-actions/actions-deploy/internal/domain"
	"github.com/multisig-actions/actions-deploy/internal/domain/config"
	"github.com/multisig-actions/actions-deploy/internal/usecase"
)

// RegistryEnvelopeVersion is the only envelope schema version understood
const RegistryEnvelopeVersion = 1

const defaultRegistryMode os.FileMode = 0644

// registryEnvelope is the versioned on-disk layout
type registryEnvelope struct {
	Version   int               `json:"version"`
	Addresses map[string]string `json:"addresses"`
}

// AddressRegistryAdapter implements AddressRegistry on a JSON file
type AddressRegistryAdapter struct {
	path   string
	format config.RegistryFormat
}

// NewAddressRegistryAdapter creates a new AddressRegistryAdapter
func NewAddressRegistryAdapter(cfg *config.RuntimeConfig) *AddressRegistryAdapter {
	path := cfg.Registry.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	format := cfg.Registry.Format
	if format == "" {
		format = config.RegistryFormatFlat
	}
	return &AddressRegistryAdapter{
		path:   path,
		format: format,
	}
}

// Path returns the registry file location
func (r *AddressRegistryAdapter) Path() string {
	return r.path
}

// Load reads the registry from disk. Returns an empty state if the file does not exist.
func (r *AddressRegistryAdapter) Load(_ context.Context) (domain.RegistryState, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewRegistryState(), nil
		}
		return nil, r.fail(fmt.Errorf("failed to read registry file: %w", err))
	}

	raw, err := decodeObject(data)
	if err != nil {
		return nil, r.fail(err)
	}

	entries := raw
	if _, ok := raw["version"]; ok {
		entries, err = decodeEnvelope(data)
		if err != nil {
			return nil, r.fail(err)
		}
	}

	state := make(domain.RegistryState, len(entries))
	for key, value := range entries {
		chainID, err := domain.ParseChainID(key)
		if err != nil {
			return nil, r.fail(fmt.Errorf("bad key: %w", err))
		}

		var literal string
		if err := json.Unmarshal(value, &literal); err != nil {
			return nil, r.fail(fmt.Errorf("address for chain %d is not a string", chainID))
		}
		address, err := domain.ParseContractAddress(literal)
		if err != nil {
			return nil, r.fail(fmt.Errorf("chain %d: %w", chainID, err))
		}
		state[chainID] = address
	}

	return state, nil
}

// Persist atomically replaces the registry file with state. The previous
// file is left untouched if anything fails.
func (r *AddressRegistryAdapter) Persist(ctx context.Context, state domain.RegistryState) error {
	if err := ctx.Err(); err != nil {
		return &domain.PersistenceError{Path: r.path, Err: err}
	}

	data, err := r.encode(state)
	if err != nil {
		return &domain.PersistenceError{Path: r.path, Err: fmt.Errorf("failed to marshal registry: %w", err)}
	}

	if err := writeFileAtomic(r.path, data); err != nil {
		return &domain.PersistenceError{Path: r.path, Err: err}
	}
	return nil
}

func (r *AddressRegistryAdapter) encode(state domain.RegistryState) ([]byte, error) {
	addresses := make(map[string]string, len(state))
	for chainID, address := range state {
		addresses[chainID.String()] = address.String()
	}

	var v any = addresses
	if r.format == config.RegistryFormatEnvelope {
		v = registryEnvelope{Version: RegistryEnvelopeVersion, Addresses: addresses}
	}

	// encoding/json sorts map keys
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (r *AddressRegistryAdapter) fail(err error) error {
	return &domain.RegistryError{Path: r.path, Err: err}
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("registry file is empty")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("registry file is not a JSON object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}
	if err := rejectDuplicateKeys(trimmed); err != nil {
		return nil, err
	}
	return raw, nil
}

// rejectDuplicateKeys fails on repeated top-level keys, which Unmarshal
// would silently collapse to the last value.
func rejectDuplicateKeys(object []byte) error {
	dec := json.NewDecoder(bytes.NewReader(object))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to parse registry file: %w", err)
	}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to parse registry file: %w", err)
		}
		key, _ := tok.(string)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return fmt.Errorf("failed to parse registry file: %w", err)
		}
	}
	return nil
}

func decodeEnvelope(data []byte) (map[string]json.RawMessage, error) {
	var envelope struct {
		Version   int             `json:"version"`
		Addresses json.RawMessage `json:"addresses"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse registry envelope: %w", err)
	}
	if envelope.Version != RegistryEnvelopeVersion {
		return nil, fmt.Errorf("unsupported registry version %d", envelope.Version)
	}
	if len(envelope.Addresses) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	return decodeObject(envelope.Addresses)
}

// writeFileAtomic writes data next to path and renames it into place,
// keeping the mode of an existing file.
func writeFileAtomic(path string, data []byte) (err error) {
	mode := defaultRegistryMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set registry file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace registry file: %w", err)
	}
	return nil
}

// Ensure AddressRegistryAdapter implements AddressRegistry
var _ usecase.AddressRegistry = (*AddressRegistryAdapter)(nil)
