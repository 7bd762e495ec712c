package gpucache

import (
	"fmt"

	"github.com/aurora-render/forge/shadercompiler"
)

// shaderModuleKey is the cache key for a compiled shader module: (source_path, entry, stage,
// environment.config_identifier) per §4.4.
type shaderModuleKey struct {
	sourcePath string
	entry      string
	stage      shadercompiler.Stage
	configID   string
}

func (k shaderModuleKey) String() string {
	return fmt.Sprintf("%s|%s|%d|%s", k.sourcePath, k.entry, k.stage, k.configID)
}

// ShaderModuleCache caches compiled shader modules keyed by (source, entry, stage, environment).
type ShaderModuleCache struct {
	entries map[string]shadercompiler.Module
}

// NewShaderModuleCache constructs an empty ShaderModuleCache.
func NewShaderModuleCache() *ShaderModuleCache {
	return &ShaderModuleCache{entries: make(map[string]shadercompiler.Module)}
}

// GetOrCompile returns the cached module for the given key, compiling via compiler on a miss.
func (c *ShaderModuleCache) GetOrCompile(sourcePath, entry string, stage shadercompiler.Stage, env *shadercompiler.Environment, compiler shadercompiler.Compiler) (shadercompiler.Module, error) {
	key := shaderModuleKey{sourcePath: sourcePath, entry: entry, stage: stage, configID: env.ConfigIdentifier()}
	k := key.String()
	if m, ok := c.entries[k]; ok {
		return m, nil
	}
	m, err := compiler.Compile(sourcePath, entry, stage, env)
	if err != nil {
		return shadercompiler.Module{}, fmt.Errorf("gpucache: compile %s/%s: %w", sourcePath, entry, err)
	}
	c.entries[k] = m
	return m, nil
}

// Len reports the number of distinct compiled modules currently cached.
func (c *ShaderModuleCache) Len() int {
	return len(c.entries)
}
