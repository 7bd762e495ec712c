package gpucache

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aurora-render/forge/logging"
)

// binaryCacheMagic identifies the binary_info.db index file format (§4.4, §6).
const binaryCacheMagic uint32 = 0x5373d269

// DefaultBinaryCacheTTL is the eviction window: entries unused for longer than this are dropped on Save
// and their backing files deleted (§4.4, §6, §8 property 8).
const DefaultBinaryCacheTTL = 30 * 24 * time.Hour

// binaryCacheIndexName is the index file's fixed name under the cache root.
const binaryCacheIndexName = "binary_info.db"

// binaryCacheEntry is one record in the index: the shader it's for, a hash of the compiled bytecode, and
// the last time it was looked up.
type binaryCacheEntry struct {
	Key            string
	ShaderHash     uint64
	LastUsedUnixNS int64
}

// ShaderBinaryCache persists compiled shader bytecode to a local file system under
// <root>/<sourcePath><suffix>, tracked by an index file recording (key, shader_hash, last_used_timestamp).
type ShaderBinaryCache struct {
	root    string
	entries map[string]*binaryCacheEntry
	now     func() time.Time
}

// NewShaderBinaryCache opens (or initialises) the binary cache rooted at root, loading its index file if
// present. A corrupt or absent index is treated as an empty cache - compiles simply miss and recompile
// transparently (§7).
func NewShaderBinaryCache(root string) *ShaderBinaryCache {
	c := &ShaderBinaryCache{root: root, entries: make(map[string]*binaryCacheEntry), now: time.Now}
	c.load()
	return c
}

func (c *ShaderBinaryCache) indexPath() string {
	return filepath.Join(c.root, binaryCacheIndexName)
}

func (c *ShaderBinaryCache) load() {
	f, err := os.Open(c.indexPath())
	if err != nil {
		return
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil || magic != binaryCacheMagic {
		logging.Named("gpucache").Warn("shader binary cache index missing or has a bad magic, starting empty")
		return
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return
	}
	for i := uint32(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return
		}
		var hash uint64
		var lastUsed int64
		if err := binary.Read(r, binary.LittleEndian, &hash); err != nil {
			return
		}
		if err := binary.Read(r, binary.LittleEndian, &lastUsed); err != nil {
			return
		}
		c.entries[key] = &binaryCacheEntry{Key: key, ShaderHash: hash, LastUsedUnixNS: lastUsed}
	}
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// pathFor returns the deterministic on-disk path for a (sourcePath, suffix) pair.
func (c *ShaderBinaryCache) pathFor(sourcePath, suffix string) string {
	return filepath.Join(c.root, sourcePath+suffix)
}

// Lookup returns the cached shader hash for key and bumps its last-used timestamp, or reports a miss.
func (c *ShaderBinaryCache) Lookup(key string) (uint64, bool) {
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	e.LastUsedUnixNS = c.now().UnixNano()
	return e.ShaderHash, true
}

// Store writes bytecode to disk under (sourcePath, suffix) and records/refreshes its index entry.
func (c *ShaderBinaryCache) Store(key, sourcePath, suffix string, shaderHash uint64, bytecode []byte) error {
	path := c.pathFor(sourcePath, suffix)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("gpucache: create shader binary dir: %w", err)
	}
	if err := os.WriteFile(path, bytecode, 0o644); err != nil {
		return fmt.Errorf("gpucache: write shader binary: %w", err)
	}
	c.entries[key] = &binaryCacheEntry{Key: key, ShaderHash: shaderHash, LastUsedUnixNS: c.now().UnixNano()}
	return nil
}

// Save evicts entries idle for longer than DefaultBinaryCacheTTL (deleting their backing files), then
// rewrites the index file. pathForEvicted maps an entry's key back to its on-disk file path for deletion.
func (c *ShaderBinaryCache) Save(pathForEvicted func(key string) string) error {
	cutoff := c.now().Add(-DefaultBinaryCacheTTL).UnixNano()
	for key, e := range c.entries {
		if e.LastUsedUnixNS < cutoff {
			if pathForEvicted != nil {
				_ = os.Remove(pathForEvicted(key))
			}
			delete(c.entries, key)
		}
	}

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return fmt.Errorf("gpucache: create cache root: %w", err)
	}
	f, err := os.Create(c.indexPath())
	if err != nil {
		return fmt.Errorf("gpucache: create index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, binaryCacheMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(c.entries))); err != nil {
		return err
	}
	for _, e := range c.entries {
		if err := writeString(w, e.Key); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.ShaderHash); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, e.LastUsedUnixNS); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Len reports the number of entries currently tracked (before any pending Save-time eviction).
func (c *ShaderBinaryCache) Len() int {
	return len(c.entries)
}
