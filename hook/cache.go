package hook

import (
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/probeum/classkit/classfile"
)

// classCache memoizes decoded trees keyed by class name plus a fingerprint
// of the bytes. Keying on the fingerprint means a redefinition with changed
// bytes misses the cache instead of serving the stale tree.
type classCache struct {
	c *lru.Cache[cacheKey, *classfile.ClassFile]
}

type cacheKey struct {
	name        string
	fingerprint uint64
}

func newClassCache(size int) (*classCache, error) {
	c, err := lru.New[cacheKey, *classfile.ClassFile](size)
	if err != nil {
		return nil, err
	}
	return &classCache{c: c}, nil
}

func (cc *classCache) get(name string, data []byte) (*classfile.ClassFile, bool) {
	return cc.c.Get(cacheKey{name: name, fingerprint: fingerprint(data)})
}

func (cc *classCache) put(name string, data []byte, cf *classfile.ClassFile) {
	cc.c.Add(cacheKey{name: name, fingerprint: fingerprint(data)}, cf)
}

// fingerprint hashes the raw class bytes. FNV-1a is enough here: the cache
// key includes the class name, so a collision requires two same-named
// definitions hashing alike, and the worst outcome is a stale tree for a
// cache whose consumers are diagnostic.
func fingerprint(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
