// Package retrieval implements a TF-IDF vector space over document chunks
// with exhaustive cosine nearest-neighbor search. It stands in for an
// embedding model: chunks become L2-normalized sparse vectors, queries are
// vectorized against the same fitted vocabulary, and distances are cosine
// distances in [0, 2] where smaller is more relevant.
package retrieval

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrChunkMismatch reports an index paired with a chunk list it was not
// built from. Silently answering would return wrong-offset chunks, so this
// is a hard error.
var ErrChunkMismatch = errors.New("retrieval: index row count does not match chunk list")

const maxVocabulary = 50_000

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Result is one retrieved chunk reference.
type Result struct {
	ChunkIndex int
	Distance   float64
}

type sparseVector struct {
	Indices []int     `json:"i"`
	Values  []float64 `json:"v"`
}

// Index is a fitted TF-IDF space. An Index is permanently bound to the
// chunk sequence it was built from; the fingerprint records that binding.
type Index struct {
	vocabulary  map[string]int
	idf         []float64
	rows        []sparseVector
	fingerprint uint64
	stopwords   map[string]struct{}
}

// Build fits a TF-IDF index over the chunks. Building over zero chunks is
// valid and yields an index whose queries always return nothing.
func Build(chunks []string) *Index {
	idx := &Index{
		vocabulary: make(map[string]int),
		stopwords:  englishStopwords,
	}
	idx.fingerprint = Fingerprint(chunks)
	if len(chunks) == 0 {
		return idx
	}

	// Document frequencies over non-stopword tokens.
	df := make(map[string]int)
	tokenized := make([][]string, len(chunks))
	for i, chunk := range chunks {
		tokens := idx.tokenize(chunk)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Cap the vocabulary: keep the most frequent terms, alphabetical on
	// ties, so the fitted space is deterministic.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(a, b int) bool {
		if df[terms[a]] != df[terms[b]] {
			return df[terms[a]] > df[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}
	sort.Strings(terms)

	idx.idf = make([]float64, len(terms))
	n := float64(len(chunks))
	for col, term := range terms {
		idx.vocabulary[term] = col
		// Smoothed IDF, as if one extra document contained every term.
		idx.idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	idx.rows = make([]sparseVector, len(chunks))
	for i, tokens := range tokenized {
		idx.rows[i] = idx.vectorizeTokens(tokens)
	}
	return idx
}

// Len reports how many chunks are indexed.
func (idx *Index) Len() int { return len(idx.rows) }

// BoundTo reports whether the index was built from exactly this chunk
// sequence.
func (idx *Index) BoundTo(chunks []string) bool {
	return len(chunks) == len(idx.rows) && Fingerprint(chunks) == idx.fingerprint
}

// Query returns the k nearest chunks by cosine distance, most relevant
// first. k is clamped to the number of indexed chunks; an empty question
// or an empty index yields no results. The question never refits the
// vocabulary: out-of-vocabulary terms simply contribute nothing.
func (idx *Index) Query(question string, k int) []Result {
	if question == "" || len(idx.rows) == 0 || k <= 0 {
		return nil
	}
	if k > len(idx.rows) {
		k = len(idx.rows)
	}

	qv := idx.vectorizeTokens(idx.tokenize(question))
	results := make([]Result, len(idx.rows))
	for i, row := range idx.rows {
		results[i] = Result{ChunkIndex: i, Distance: 1.0 - dot(qv, row)}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})
	return results[:k]
}

func (idx *Index) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := idx.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// vectorizeTokens computes the L2-normalized TF-IDF vector for a token
// sequence against the fitted vocabulary.
func (idx *Index) vectorizeTokens(tokens []string) sparseVector {
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if col, ok := idx.vocabulary[tok]; ok {
			tf[col]++
			total++
		}
	}
	if total == 0 {
		return sparseVector{}
	}

	cols := make([]int, 0, len(tf))
	for col := range tf {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	vec := sparseVector{
		Indices: cols,
		Values:  make([]float64, len(cols)),
	}
	norm := 0.0
	for i, col := range cols {
		w := (float64(tf[col]) / float64(total)) * idx.idf[col]
		vec.Values[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// dot computes the inner product of two sorted sparse vectors.
func dot(a, b sparseVector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
