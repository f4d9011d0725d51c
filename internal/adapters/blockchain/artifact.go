package blockchain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/multisig-actions/actions-deploy/internal/domain"
)

// Artifact is a compiled contract ready to be deployed
type Artifact struct {
	ABI      abi.ABI
	Bytecode []byte
}

type artifactFile struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
}

// LoadArtifact reads a Hardhat or Foundry artifact from path
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", domain.ErrInvalidArtifact, path, err)
	}
	artifact, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return artifact, nil
}

// ParseArtifact decodes artifact JSON. Hardhat stores the creation code as
// a hex string in "bytecode", Foundry nests it under "bytecode.object".
// The constructor must take exactly one uint256.
func ParseArtifact(data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArtifact, err)
	}
	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("%w: missing abi", domain.ErrInvalidArtifact)
	}

	parsed, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("%w: bad abi: %v", domain.ErrInvalidArtifact, err)
	}
	if err := checkConstructor(parsed); err != nil {
		return nil, err
	}

	code, err := decodeBytecode(file.Bytecode)
	if err != nil {
		return nil, err
	}

	return &Artifact{ABI: parsed, Bytecode: code}, nil
}

func checkConstructor(parsed abi.ABI) error {
	inputs := parsed.Constructor.Inputs
	if len(inputs) != 1 {
		return fmt.Errorf("%w: constructor takes %d arguments, want a single uint256", domain.ErrInvalidArtifact, len(inputs))
	}
	if inputs[0].Type.T != abi.UintTy || inputs[0].Type.Size != 256 {
		return fmt.Errorf("%w: constructor argument %q is %s, want uint256", domain.ErrInvalidArtifact, inputs[0].Name, inputs[0].Type.String())
	}
	return nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing bytecode", domain.ErrInvalidArtifact)
	}

	var literal string
	if err := json.Unmarshal(raw, &literal); err != nil {
		var nested struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("%w: bytecode is neither a string nor an object", domain.ErrInvalidArtifact)
		}
		literal = nested.Object
	}

	literal = strings.TrimPrefix(strings.TrimSpace(literal), "0x")
	if literal == "" {
		return nil, fmt.Errorf("%w: empty bytecode, contract is abstract or an interface", domain.ErrInvalidArtifact)
	}
	if strings.Contains(literal, "__") {
		return nil, fmt.Errorf("%w: bytecode has unlinked library references", domain.ErrInvalidArtifact)
	}

	code, err := hex.DecodeString(literal)
	if err != nil {
		return nil, fmt.Errorf("%w: bytecode is not hex: %v", domain.ErrInvalidArtifact, err)
	}
	return code, nil
}
