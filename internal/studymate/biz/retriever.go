package biz

import (
	"context"
	"sort"

	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/internal/model"
	"github.com/Rayyan1704/StudyMate/internal/studymate/store"
	"github.com/Rayyan1704/StudyMate/pkg/errors"
	"github.com/Rayyan1704/StudyMate/pkg/llm"
	"github.com/Rayyan1704/StudyMate/pkg/vectorindex"
)

// Retriever answers similarity queries against one session's index and
// resolves the hits back to chunk text.
type Retriever struct {
	embedder llm.EmbeddingProvider
	indexes  *vectorindex.Manager
	factory  store.Factory
	minScore float32
}

// NewRetriever creates a retriever.
func NewRetriever(embedder llm.EmbeddingProvider, indexes *vectorindex.Manager, factory store.Factory, minScore float32) *Retriever {
	return &Retriever{
		embedder: embedder,
		indexes:  indexes,
		factory:  factory,
		minScore: minScore,
	}
}

// Retrieve embeds the query, searches the session's index with the
// mode's top-k, and merges adjacent chunks of the same document into
// single retrieval units. An empty result is valid: it means the
// session has no relevant material and the caller falls back to pure
// conversation.
func (r *Retriever) Retrieve(ctx context.Context, sessionID, query string, profile *ModeProfile) (*model.RetrievalResult, error) {
	result := &model.RetrievalResult{Query: query, Mode: profile.Name}

	ix := r.indexes.Get(sessionID)
	if ix == nil || ix.Len() == 0 {
		return result, nil
	}

	vec, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := ix.Search(vec, llm.Version(r.embedder), profile.TopK, r.minScore)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return result, nil
	}

	chunks, err := r.resolveChunks(ctx, hits)
	if err != nil {
		return nil, err
	}

	result.Chunks = mergeAdjacent(hits, chunks)
	if err := r.fillFilenames(ctx, result.Chunks); err != nil {
		return nil, err
	}

	logger.Debugw("retrieval complete",
		"session_id", sessionID,
		"mode", profile.Name,
		"hits", len(hits),
		"units", len(result.Chunks),
	)
	return result, nil
}

// resolveChunks loads hit chunk rows. Chunks deleted between search
// and fetch are silently skipped.
func (r *Retriever) resolveChunks(ctx context.Context, hits []vectorindex.Hit) (map[string]*model.Chunk, error) {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}

	rows, err := r.factory.Chunks().GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.ErrRetrievalFailed.WithCause(err)
	}

	byID := make(map[string]*model.Chunk, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// fillFilenames stamps each unit with its source document's filename.
func (r *Retriever) fillFilenames(ctx context.Context, units []model.RetrievedChunk) error {
	names := make(map[string]string)
	for i := range units {
		docID := units[i].DocumentID
		name, ok := names[docID]
		if !ok {
			doc, err := r.factory.Documents().Get(ctx, docID)
			if err != nil {
				if errors.IsCode(err, errors.ErrDocumentNotFound.Code) {
					names[docID] = ""
					continue
				}
				return errors.ErrRetrievalFailed.WithCause(err)
			}
			name = doc.Filename
			names[docID] = name
		}
		units[i].Filename = name
	}
	return nil
}

// hitMember pairs an index hit with its stored chunk row.
type hitMember struct {
	hit   vectorindex.Hit
	chunk *model.Chunk
}

// mergeAdjacent folds hits whose ordinals are consecutive within the
// same document into one retrieval unit. The unit spans the combined
// character range, carries the best score of its members, and its
// content is stitched without duplicating the chunk overlap.
func mergeAdjacent(hits []vectorindex.Hit, chunks map[string]*model.Chunk) []model.RetrievedChunk {
	byDoc := make(map[string][]hitMember)
	var docOrder []string
	for _, h := range hits {
		c, ok := chunks[h.ChunkID]
		if !ok {
			continue
		}
		if _, seen := byDoc[h.DocumentID]; !seen {
			docOrder = append(docOrder, h.DocumentID)
		}
		byDoc[h.DocumentID] = append(byDoc[h.DocumentID], hitMember{hit: h, chunk: c})
	}

	var units []model.RetrievedChunk
	for _, docID := range docOrder {
		members := byDoc[docID]
		sort.Slice(members, func(i, j int) bool {
			return members[i].hit.Ordinal < members[j].hit.Ordinal
		})

		run := []hitMember{members[0]}
		for _, m := range members[1:] {
			if m.hit.Ordinal == run[len(run)-1].hit.Ordinal+1 {
				run = append(run, m)
				continue
			}
			units = append(units, buildUnit(run))
			run = []hitMember{m}
		}
		units = append(units, buildUnit(run))
	}

	// best score first; ties by earliest position, then chunk ID
	sort.Slice(units, func(i, j int) bool {
		if units[i].Score != units[j].Score {
			return units[i].Score > units[j].Score
		}
		if units[i].Ordinals[0] != units[j].Ordinals[0] {
			return units[i].Ordinals[0] < units[j].Ordinals[0]
		}
		return units[i].ChunkID < units[j].ChunkID
	})
	return units
}

// buildUnit stitches one run of ordinal-consecutive chunks into a
// retrieval unit. Consecutive chunks overlap, so each subsequent
// chunk contributes only the runes past the previous end offset.
func buildUnit(run []hitMember) model.RetrievedChunk {
	first := run[0].chunk
	best := run[0].hit.Score
	content := []rune(first.Content)
	end := first.EndOffset
	ordinals := make([]int, 0, len(run))

	for _, m := range run {
		ordinals = append(ordinals, m.hit.Ordinal)
		if m.hit.Score > best {
			best = m.hit.Score
		}
	}
	for _, m := range run[1:] {
		c := m.chunk
		if c.EndOffset <= end {
			continue
		}
		tail := []rune(c.Content)
		skip := end - c.StartOffset
		if skip < 0 {
			skip = 0
		}
		if skip > len(tail) {
			skip = len(tail)
		}
		content = append(content, tail[skip:]...)
		end = c.EndOffset
	}

	return model.RetrievedChunk{
		ChunkID:     first.ID,
		DocumentID:  first.DocumentID,
		Ordinals:    ordinals,
		Content:     string(content),
		Score:       best,
		StartOffset: first.StartOffset,
		EndOffset:   end,
	}
}
