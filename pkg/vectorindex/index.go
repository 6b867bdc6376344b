// Package vectorindex provides per-session in-memory vector indices.
// Each session owns one index for its lifetime; indices are built from
// scratch on ingestion and released wholesale when the session ends,
// so there is no persistence layer and no cross-session state.
package vectorindex

import (
	"math"
	"sort"
	"sync"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

// Hit is one search result.
type Hit struct {
	ChunkID    string
	DocumentID string
	Ordinal    int
	Score      float32
}

// entry is one indexed chunk. Vectors are stored unit-normalized so
// search reduces to a dot product.
type entry struct {
	chunkID    string
	documentID string
	ordinal    int
	vector     []float32
}

// Index is the vector index for a single session. Searches may run
// concurrently with writes; each sees every chunk either fully present
// or fully absent.
type Index struct {
	mu        sync.RWMutex
	dimension int
	version   string
	entries   []entry
	byChunkID map[string]int
}

// NewIndex creates an index pinned to an embedding version and vector
// dimension. Both are fixed for the index lifetime.
func NewIndex(dimension int, version string) *Index {
	return &Index{
		dimension: dimension,
		version:   version,
		byChunkID: make(map[string]int),
	}
}

// Version returns the embedding version the index was created with.
func (ix *Index) Version() string {
	return ix.version
}

// Dimension returns the vector width the index was created with.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// normalize returns a unit-length copy of v. A zero vector is copied
// unchanged and scores 0 against everything.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	inv := 1 / float32(math.Sqrt(sum))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

// Insert adds one chunk. The vector is L2-normalized on the way in,
// so search reduces to a dot product. Inserting an existing chunk ID
// replaces its vector.
func (ix *Index) Insert(chunkID, documentID string, ordinal int, vector []float32) error {
	if len(vector) != ix.dimension {
		return errors.ErrDimensionMismatch.WithMessagef(
			"vector has %d dimensions, index expects %d", len(vector), ix.dimension)
	}
	vector = normalize(vector)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if pos, ok := ix.byChunkID[chunkID]; ok {
		ix.entries[pos].vector = vector
		ix.entries[pos].documentID = documentID
		ix.entries[pos].ordinal = ordinal
		return nil
	}

	ix.byChunkID[chunkID] = len(ix.entries)
	ix.entries = append(ix.entries, entry{
		chunkID:    chunkID,
		documentID: documentID,
		ordinal:    ordinal,
		vector:     vector,
	})
	return nil
}

// DeleteByDocument removes every chunk of a document and returns how
// many were removed.
func (ix *Index) DeleteByDocument(documentID string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := ix.entries[:0]
	removed := 0
	for _, e := range ix.entries {
		if e.documentID == documentID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0
	}

	ix.entries = kept
	ix.byChunkID = make(map[string]int, len(kept))
	for i, e := range kept {
		ix.byChunkID[e.chunkID] = i
	}
	return removed
}

// Search returns up to k hits with cosine similarity of at least
// minScore, ordered by descending score. Ties are broken by smaller
// ordinal, then chunk ID, so results are deterministic. The query must
// match the index dimension and carry the index's embedding version.
func (ix *Index) Search(vector []float32, version string, k int, minScore float32) ([]Hit, error) {
	if version != ix.version {
		return nil, errors.ErrIndexVersionMismatch.WithMessagef(
			"query version %q, index version %q", version, ix.version)
	}
	if len(vector) != ix.dimension {
		return nil, errors.ErrDimensionMismatch.WithMessagef(
			"query has %d dimensions, index expects %d", len(vector), ix.dimension)
	}
	if k <= 0 {
		return nil, nil
	}
	vector = normalize(vector)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit, 0, len(ix.entries))
	for _, e := range ix.entries {
		var dot float64
		for i, x := range e.vector {
			dot += float64(x) * float64(vector[i])
		}
		score := float32(dot)
		if score < minScore {
			continue
		}
		hits = append(hits, Hit{
			ChunkID:    e.chunkID,
			DocumentID: e.documentID,
			Ordinal:    e.ordinal,
			Score:      score,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Ordinal != hits[j].Ordinal {
			return hits[i].Ordinal < hits[j].Ordinal
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}
