// Package names provides a per-session symbol table mapping qualified
// XML names to compact integer codes for cheap equality comparison.
package names

// Common XML namespaces.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// Code identifies an allocated (prefix, uri, local) triple.
// Codes are only meaningful within the pool that issued them.
type Code int32

// None is the zero-value-adjacent invalid code.
const None Code = -1

// TypeCode identifies a type annotation. Zero means untyped.
type TypeCode uint32

// TypeUntyped is the annotation of names with no type information.
const TypeUntyped TypeCode = 0

// Binding pairs a namespace prefix with a URI.
type Binding struct {
	Prefix string
	URI    string
}

type entry struct {
	prefix string
	uri    string
	local  string
}

type poolKey struct {
	prefix string
	uri    string
	local  string
}

const recentSize = 8

type recentEntry struct {
	key  poolKey
	code Code
}

// Pool allocates and resolves name codes for one processing session.
// A Pool is owned by a single session and is not safe for concurrent use.
type Pool struct {
	entries     []entry
	index       map[poolKey]Code
	recent      [recentSize]recentEntry
	recentCount int
	recentIndex int
}

// NewPool creates an empty name pool.
func NewPool() *Pool {
	return &Pool{
		index: make(map[poolKey]Code, 32),
	}
}

// Allocate returns the code for the triple, issuing a new one on first use.
// Codes are issued in allocation order; equal triples always share a code.
func (p *Pool) Allocate(prefix, uri, local string) Code {
	key := poolKey{prefix: prefix, uri: uri, local: local}
	if code, ok := p.lookupRecent(key); ok {
		return code
	}
	if p.index == nil {
		p.index = make(map[poolKey]Code, 32)
	}
	if code, ok := p.index[key]; ok {
		p.rememberRecent(key, code)
		return code
	}
	code := Code(len(p.entries))
	p.entries = append(p.entries, entry{prefix: prefix, uri: uri, local: local})
	p.index[key] = code
	p.rememberRecent(key, code)
	return code
}

func (p *Pool) lookupRecent(key poolKey) (Code, bool) {
	for i := 0; i < p.recentCount; i++ {
		if p.recent[i].key == key {
			return p.recent[i].code, true
		}
	}
	return None, false
}

func (p *Pool) rememberRecent(key poolKey, code Code) {
	if p.recentCount < recentSize {
		p.recent[p.recentCount] = recentEntry{key: key, code: code}
		p.recentCount++
		return
	}
	p.recent[p.recentIndex] = recentEntry{key: key, code: code}
	p.recentIndex++
	if p.recentIndex >= recentSize {
		p.recentIndex = 0
	}
}

// WithPrefix returns the code of the same (uri, local) pair under a
// different prefix, allocating it if needed.
func (p *Pool) WithPrefix(code Code, prefix string) Code {
	e, ok := p.entry(code)
	if !ok {
		return None
	}
	return p.Allocate(prefix, e.uri, e.local)
}

// Prefix returns the prefix of code, or "" for invalid codes.
func (p *Pool) Prefix(code Code) string {
	e, _ := p.entry(code)
	return e.prefix
}

// URI returns the namespace URI of code, or "" for invalid codes.
func (p *Pool) URI(code Code) string {
	e, _ := p.entry(code)
	return e.uri
}

// Local returns the local name of code, or "" for invalid codes.
func (p *Pool) Local(code Code) string {
	e, _ := p.entry(code)
	return e.local
}

// Binding returns the (prefix, uri) pair implied by the name code.
func (p *Pool) Binding(code Code) Binding {
	e, _ := p.entry(code)
	return Binding{Prefix: e.prefix, URI: e.uri}
}

// Display returns the lexical form of code, prefix:local or local.
func (p *Pool) Display(code Code) string {
	e, ok := p.entry(code)
	if !ok {
		return ""
	}
	if e.prefix == "" {
		return e.local
	}
	return e.prefix + ":" + e.local
}

// Size returns the number of allocated codes.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

func (p *Pool) entry(code Code) (entry, bool) {
	if p == nil || code < 0 || int(code) >= len(p.entries) {
		return entry{}, false
	}
	return p.entries[code], true
}
