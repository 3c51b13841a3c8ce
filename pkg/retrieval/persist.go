package retrieval

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// An index persists as three artifacts: the fitted vocabulary with its IDF
// weights, the chunk row vectors, and a small metadata record carrying the
// chunk fingerprint. All three must be present and consistent to restore a
// usable index; a partial set is treated as no index at all.
type Artifacts struct {
	Vocabulary []byte
	Vectors    []byte
	Meta       []byte
}

type vocabularyArtifact struct {
	Terms map[string]int `json:"terms"`
	IDF   []float64      `json:"idf"`
}

type vectorsArtifact struct {
	Rows []sparseVector `json:"rows"`
}

type metaArtifact struct {
	Metric      string `json:"metric"`
	ChunkCount  int    `json:"chunk_count"`
	Fingerprint string `json:"fingerprint"`
}

// Fingerprint hashes a chunk sequence with FNV-64a. Chunk lengths are mixed
// in so that moving text across chunk boundaries changes the hash.
func Fingerprint(chunks []string) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, chunk := range chunks {
		binary.BigEndian.PutUint64(buf[:], uint64(len(chunk)))
		h.Write(buf[:])
		h.Write([]byte(chunk))
	}
	return h.Sum64()
}

// Export serializes the index into its three artifacts.
func (idx *Index) Export() (Artifacts, error) {
	vocab, err := json.Marshal(vocabularyArtifact{Terms: idx.vocabulary, IDF: idx.idf})
	if err != nil {
		return Artifacts{}, fmt.Errorf("marshal vocabulary: %w", err)
	}
	vectors, err := json.Marshal(vectorsArtifact{Rows: idx.rows})
	if err != nil {
		return Artifacts{}, fmt.Errorf("marshal vectors: %w", err)
	}
	meta, err := json.Marshal(metaArtifact{
		Metric:      "cosine",
		ChunkCount:  len(idx.rows),
		Fingerprint: fmt.Sprintf("%016x", idx.fingerprint),
	})
	if err != nil {
		return Artifacts{}, fmt.Errorf("marshal meta: %w", err)
	}
	return Artifacts{Vocabulary: vocab, Vectors: vectors, Meta: meta}, nil
}

// Import restores an index from its artifacts and verifies it against the
// chunk list it will answer for. A row count or fingerprint that does not
// match the chunks returns ErrChunkMismatch; the caller should rebuild.
func Import(a Artifacts, chunks []string) (*Index, error) {
	var vocab vocabularyArtifact
	if err := json.Unmarshal(a.Vocabulary, &vocab); err != nil {
		return nil, fmt.Errorf("unmarshal vocabulary: %w", err)
	}
	var vectors vectorsArtifact
	if err := json.Unmarshal(a.Vectors, &vectors); err != nil {
		return nil, fmt.Errorf("unmarshal vectors: %w", err)
	}
	var meta metaArtifact
	if err := json.Unmarshal(a.Meta, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}
	if len(vocab.Terms) != len(vocab.IDF) {
		return nil, fmt.Errorf("vocabulary holds %d terms but %d idf weights", len(vocab.Terms), len(vocab.IDF))
	}
	if meta.ChunkCount != len(vectors.Rows) {
		return nil, fmt.Errorf("meta claims %d chunks but %d rows stored", meta.ChunkCount, len(vectors.Rows))
	}

	idx := &Index{
		vocabulary:  vocab.Terms,
		idf:         vocab.IDF,
		rows:        vectors.Rows,
		stopwords:   englishStopwords,
		fingerprint: Fingerprint(chunks),
	}
	if idx.vocabulary == nil {
		idx.vocabulary = make(map[string]int)
	}
	if len(chunks) != len(idx.rows) {
		return nil, ErrChunkMismatch
	}
	if fp := fmt.Sprintf("%016x", idx.fingerprint); fp != meta.Fingerprint {
		return nil, ErrChunkMismatch
	}
	return idx, nil
}
