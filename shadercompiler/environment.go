// Package shadercompiler specifies the contract the render core consumes for turning shader source into
// backend bytecode (§6). The preprocessor and the actual HLSL-to-bytecode compilation are external
// collaborators out of scope per §1; only this interface and the deterministic environment hashing are
// implemented here.
package shadercompiler

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// Environment carries the preprocessor defines and source-replacement arguments a compile is parameterised
// by. Two Environments that produce the same ConfigIdentifier are interchangeable cache keys even if their
// maps were populated in a different order.
type Environment struct {
	defines     map[string]string
	replaceArgs map[string]string
}

// NewEnvironment constructs an empty compilation environment.
func NewEnvironment() *Environment {
	return &Environment{defines: map[string]string{}, replaceArgs: map[string]string{}}
}

// SetDefine adds or overwrites a preprocessor define.
func (e *Environment) SetDefine(key, value string) {
	e.defines[key] = value
}

// ResetDefine removes a preprocessor define if present.
func (e *Environment) ResetDefine(key string) {
	delete(e.defines, key)
}

// SetReplaceArg adds or overwrites a source-replacement argument, stored under the '$'-prefixed key the
// preprocessor looks for.
func (e *Environment) SetReplaceArg(key, content string) {
	e.replaceArgs["$"+key] = content
}

// ResetReplaceArg removes a source-replacement argument if present.
func (e *Environment) ResetReplaceArg(key string) {
	delete(e.replaceArgs, "$"+key)
}

// Defines returns the current define set. Callers must not mutate the returned map.
func (e *Environment) Defines() map[string]string {
	return e.defines
}

// ReplaceArgs returns the current replacement-argument set. Callers must not mutate the returned map.
func (e *Environment) ReplaceArgs() map[string]string {
	return e.replaceArgs
}

func hashOrderedMap(m map[string]string) uint64 {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	var combined uint64
	for _, k := range keys {
		h.Reset()
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(m[k]))
		combined = combineHash(combined, h.Sum64())
	}
	return combined
}

// combineHash mirrors a boost::hash_combine-style mix: order of combination matters, which is why
// hashOrderedMap sorts keys first so two maps with the same contents in a different insertion order always
// combine to the same value.
func combineHash(seed, v uint64) uint64 {
	const golden = 0x9e3779b97f4a7c15
	seed ^= v + golden + (seed << 6) + (seed >> 2)
	return seed
}

// ConfigIdentifier returns a deterministic hex identifier for this environment's full define/replace-arg
// set, suitable as part of a shader module cache key (§4.4, §6): the hash of the defines XORed with the
// hash of the replace args, rendered in hex.
func (e *Environment) ConfigIdentifier() string {
	return fmt.Sprintf("%x", hashOrderedMap(e.defines)^hashOrderedMap(e.replaceArgs))
}
