package models

import (
	"encoding/json"
	"strings"
)

// Artifact represents a compiled contract as produced by forge or truffle
type Artifact struct {
	Name             string          `json:"contractName,omitempty"`
	SourcePath       string          `json:"sourcePath,omitempty"`
	ArtifactPath     string          `json:"-"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         Bytecode        `json:"bytecode"`
	DeployedBytecode Bytecode        `json:"deployedBytecode"`
	Compiler         string          `json:"-"`
}

// Bytecode holds hex encoded contract code. Foundry writes it as
// {"object": "0x..."} while truffle writes a plain string.
type Bytecode struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

func (b *Bytecode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Object = s
		return nil
	}

	type plain Bytecode
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = Bytecode(obj)
	return nil
}

// Hex returns the code with a 0x prefix
func (b Bytecode) Hex() string {
	if strings.HasPrefix(b.Object, "0x") {
		return b.Object
	}
	return "0x" + b.Object
}

// IsEmpty reports whether there is no code, which is the case for
// interfaces and abstract contracts
func (b Bytecode) IsEmpty() bool {
	code := strings.TrimPrefix(b.Object, "0x")
	return code == ""
}

// NeedsLinking reports whether the code still contains library placeholders
func (b Bytecode) NeedsLinking() bool {
	return len(b.LinkReferences) > 0 || strings.Contains(b.Object, "__$")
}

// HasBytecode reports whether the artifact can be deployed
func (a *Artifact) HasBytecode() bool {
	return !a.Bytecode.IsEmpty()
}

// ArtifactMetadata is the subset of the solc metadata both toolchains embed
type ArtifactMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}
