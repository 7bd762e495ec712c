package shadercompiler

import "github.com/aurora-render/forge/rhi"

// Stage identifies which shader stage a compile targets.
type Stage int

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEval
	StageGeometry
	StageFragment
	StageCompute
)

// Module is the opaque bytecode/handle result of a successful compile.
type Module struct {
	RHIModule *rhi.ShaderModule
	Hash      uint64
}

// Compiler is the external collaborator that turns (source path, entry, stage, environment) into bytecode.
// The preprocessor/compiler implementation is out of scope (§1); the core only depends on this contract.
type Compiler interface {
	// Compile returns the compiled module for the given source, or an error message on failure. A failed
	// compile at pipeline-build time is a fatal condition in the core (§7): callers assert on the error
	// rather than degrading gracefully, since a broken shader cannot be silently skipped.
	Compile(sourcePath, entry string, stage Stage, env *Environment) (Module, error)
}

// IncludeResolver resolves a #include directive to file content. Resolution tries, in order,
// "<file_parent>/<header>" and then "<header>" as-is (§9 Open Question, resolved against
// original_source's preprocessor precedent): the first path that the underlying file system reports as
// existing wins.
type IncludeResolver interface {
	// Exists reports whether path can be read.
	Exists(path string) bool
	// Read returns the contents of path.
	Read(path string) ([]byte, error)
}

// Resolve implements the two-step #include resolution order documented on IncludeResolver.
func Resolve(r IncludeResolver, fileParent, header string) (string, []byte, error) {
	candidate := fileParent + "/" + header
	if r.Exists(candidate) {
		content, err := r.Read(candidate)
		return candidate, content, err
	}
	content, err := r.Read(header)
	return header, content, err
}
