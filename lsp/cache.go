package lsp

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/ristretto/v2"

	"github.com/rlch/arturo/analysis"
)

// analysisCacheBytes bounds the total source size whose analyses are kept.
const analysisCacheBytes = 64 << 20

// analysisCache memoizes analyses by content. Keys include the analyzer
// generation, so a config reload never serves a stale result.
type analysisCache struct {
	c *ristretto.Cache[uint64, *analysis.AnalyzedFile]
}

func newAnalysisCache(maxCostBytes int64) (*analysisCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, *analysis.AnalyzedFile]{
		NumCounters: maxCostBytes / 1024 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create analysis cache")
	}

	return &analysisCache{c: c}, nil
}

func cacheKey(generation uint64, path, content string) uint64 {
	d := xxhash.New()

	var gen [8]byte
	binary.LittleEndian.PutUint64(gen[:], generation)

	_, _ = d.Write(gen[:])
	_, _ = d.WriteString(path)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(content)

	return d.Sum64()
}

// analyze returns the cached analysis for content, running a on a miss.
func (c *analysisCache) analyze(a *analysis.Analyzer, generation uint64, path, content string) *analysis.AnalyzedFile {
	if c == nil {
		return a.Analyze(path, []byte(content))
	}

	key := cacheKey(generation, path, content)
	if f, ok := c.c.Get(key); ok {
		return f
	}

	f := a.Analyze(path, []byte(content))
	c.c.Set(key, f, int64(len(content))+1)

	return f
}

func (c *analysisCache) close() {
	if c != nil {
		c.c.Close()
	}
}
