package embeddings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// WordVectors is a static word-embedding model in the fastText .vec text
// format. A document is embedded as the mean of its known token vectors.
type WordVectors struct {
	name    string
	dim     int
	vectors map[string][]float64
}

// Dimension returns the vector width of the model.
func (m *WordVectors) Dimension() int {
	return m.dim
}

// Embed returns one vector per text. It fails if any text has no token known
// to the model.
func (m *WordVectors) Embed(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, m.dim)
		known := 0
		for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
			wv, ok := m.vectors[tok]
			if !ok {
				continue
			}
			for j := range vec {
				vec[j] += wv[j]
			}
			known++
		}
		if known == 0 {
			return nil, fmt.Errorf("model %s knows no token of text %d", m.name, i)
		}
		for j := range vec {
			vec[j] /= float64(known)
		}
		out[i] = vec
	}
	return out, nil
}

// ParseWordVectors reads a .vec stream. An optional "<count> <dim>" header
// line is accepted.
func ParseWordVectors(name string, src io.Reader) (*WordVectors, error) {
	m := &WordVectors{name: name, vectors: make(map[string][]float64)}

	r := bufio.NewScanner(src)
	r.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for r.Scan() {
		line++
		fields := strings.Fields(r.Text())
		if len(fields) == 0 {
			continue
		}
		if line == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected a word followed by values", line)
		}

		values := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			values[i] = v
		}

		if m.dim == 0 {
			m.dim = len(values)
		} else if len(values) != m.dim {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", line, m.dim, len(values))
		}
		m.vectors[strings.ToLower(fields[0])] = values
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if len(m.vectors) == 0 {
		return nil, errors.New("model file has no vectors")
	}

	return m, nil
}

// ModelCache loads local models from a directory, at most once per model name.
// It is safe for concurrent use.
type ModelCache struct {
	dir string

	mu      sync.Mutex
	entries map[string]*modelEntry
}

type modelEntry struct {
	once  sync.Once
	model *WordVectors
	err   error
}

// NewModelCache creates a cache reading <dir>/<name>.vec files.
func NewModelCache(dir string) *ModelCache {
	return &ModelCache{dir: dir, entries: make(map[string]*modelEntry)}
}

// Load returns the named model, reading it from disk on first use. A failed
// load is remembered and returned on later calls.
func (c *ModelCache) Load(name string) (*WordVectors, error) {
	if c == nil {
		return nil, errors.New("local models are not configured")
	}

	c.mu.Lock()
	entry, ok := c.entries[name]
	if !ok {
		entry = &modelEntry{}
		c.entries[name] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.model, entry.err = c.read(name)
	})

	return entry.model, entry.err
}

func (c *ModelCache) read(name string) (*WordVectors, error) {
	path := filepath.Join(c.dir, name+".vec")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", name, err)
	}
	defer f.Close()

	m, err := ParseWordVectors(name, f)
	if err != nil {
		return nil, fmt.Errorf("parse model %s: %w", path, err)
	}
	return m, nil
}
