package shadercompiler

import "testing"

func TestConfigIdentifierIsOrderIndependent(t *testing.T) {
	a := NewEnvironment()
	a.SetDefine("USE_SHADOWS", "1")
	a.SetDefine("MAX_LIGHTS", "8")
	a.SetReplaceArg("material_params", "struct Foo {}")

	b := NewEnvironment()
	b.SetReplaceArg("material_params", "struct Foo {}")
	b.SetDefine("MAX_LIGHTS", "8")
	b.SetDefine("USE_SHADOWS", "1")

	if a.ConfigIdentifier() != b.ConfigIdentifier() {
		t.Fatalf("ConfigIdentifier order dependence:\nhave %s\nwant %s (same content, different insertion order)",
			a.ConfigIdentifier(), b.ConfigIdentifier())
	}
}

func TestConfigIdentifierChangesWithContent(t *testing.T) {
	a := NewEnvironment()
	a.SetDefine("MAX_LIGHTS", "8")

	b := NewEnvironment()
	b.SetDefine("MAX_LIGHTS", "16")

	if a.ConfigIdentifier() == b.ConfigIdentifier() {
		t.Fatalf("expected different ConfigIdentifier for different define values, got %s for both", a.ConfigIdentifier())
	}
}

func TestResetDefineAffectsIdentifier(t *testing.T) {
	a := NewEnvironment()
	a.SetDefine("X", "1")
	withX := a.ConfigIdentifier()
	a.ResetDefine("X")
	withoutX := a.ConfigIdentifier()
	if withX == withoutX {
		t.Fatalf("expected ConfigIdentifier to change after ResetDefine")
	}
	if withoutX != NewEnvironment().ConfigIdentifier() {
		t.Fatalf("expected empty environment identifier after resetting the only define")
	}
}

type fakeFS struct {
	files map[string][]byte
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) Read(path string) ([]byte, error) {
	return f.files[path], nil
}

func TestResolvePrefersFileParentThenHeaderAsIs(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"shaders/common.hlsli": []byte("// common"),
	}}
	path, content, err := Resolve(fs, "shaders", "common.hlsli")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if path != "shaders/common.hlsli" {
		t.Fatalf("resolved path:\nhave %s\nwant shaders/common.hlsli", path)
	}
	if string(content) != "// common" {
		t.Fatalf("resolved content:\nhave %q\nwant %q", content, "// common")
	}

	fs2 := &fakeFS{files: map[string][]byte{
		"global.hlsli": []byte("// global"),
	}}
	path2, _, err := Resolve(fs2, "shaders", "global.hlsli")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if path2 != "global.hlsli" {
		t.Fatalf("resolved path:\nhave %s\nwant global.hlsli (fallback to header as-is)", path2)
	}
}
