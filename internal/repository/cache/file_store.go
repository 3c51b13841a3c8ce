// Package cache is the filesystem-backed document cache. Every processed
// document lives under its session directory keyed by content hash and
// chunking mode, so re-uploading the same file skips chunking and index
// builds entirely.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/retrieval"
	"ai-docchat-be/pkg/store"
)

const (
	chunksFile    = "chunks.json"
	metaFile      = "meta.json"
	vocabFile     = "tfidf_vocabulary.json"
	vectorsFile   = "tfidf_vectors.json"
	indexMetaFile = "tfidf_meta.json"
	lastKeyFile   = "last_doc_key.json"
)

type documentMeta struct {
	DisplayName string `json:"display_name"`
}

type lastKeyRecord struct {
	Key string `json:"key"`
}

// HashFile hashes a file on disk the same way store.HashBytes hashes
// in-memory content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash upload: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16], nil
}

type FileStore struct {
	baseDir string
	log     logger.ILogger
}

func NewFileStore(baseDir string, log logger.ILogger) *FileStore {
	return &FileStore{baseDir: baseDir, log: log}
}

func (s *FileStore) sessionDir(userID, sessionID string) string {
	return filepath.Join(s.baseDir, "users", userID, "sessions", sessionID)
}

func (s *FileStore) cacheDir(userID, sessionID, key string) string {
	return filepath.Join(s.sessionDir(userID, sessionID), "caches", key)
}

func (s *FileStore) PutChunks(userID, sessionID, key, displayName string, chunks []string) error {
	dir := s.cacheDir(userID, sessionID, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(dir, chunksFile), chunks); err != nil {
		return err
	}
	return writeJSONAtomic(filepath.Join(dir, metaFile), documentMeta{DisplayName: displayName})
}

// GetChunks returns the cached chunk list and display name for a key.
// Missing or unreadable entries are misses, never errors: a corrupt cache
// entry just means the document gets reprocessed.
func (s *FileStore) GetChunks(userID, sessionID, key string) ([]string, string, bool) {
	dir := s.cacheDir(userID, sessionID, key)

	var chunks []string
	if !s.readJSON(filepath.Join(dir, chunksFile), &chunks) {
		return nil, "", false
	}
	var meta documentMeta
	if !s.readJSON(filepath.Join(dir, metaFile), &meta) {
		meta.DisplayName = key
	}
	return chunks, meta.DisplayName, true
}

func (s *FileStore) PutIndex(userID, sessionID, key string, arts retrieval.Artifacts) error {
	dir := s.cacheDir(userID, sessionID, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	files := map[string][]byte{
		vocabFile:     arts.Vocabulary,
		vectorsFile:   arts.Vectors,
		indexMetaFile: arts.Meta,
	}
	for name, data := range files {
		if err := writeBytesAtomic(filepath.Join(dir, name), data); err != nil {
			return err
		}
	}
	return nil
}

// GetIndex returns the serialized index artifacts. All three files must be
// present; a partial set (an interrupted write, a manual deletion) is a miss.
func (s *FileStore) GetIndex(userID, sessionID, key string) (retrieval.Artifacts, bool) {
	dir := s.cacheDir(userID, sessionID, key)

	var arts retrieval.Artifacts
	for _, part := range []struct {
		name string
		dst  *[]byte
	}{
		{vocabFile, &arts.Vocabulary},
		{vectorsFile, &arts.Vectors},
		{indexMetaFile, &arts.Meta},
	} {
		data, err := os.ReadFile(filepath.Join(dir, part.name))
		if err != nil {
			if !os.IsNotExist(err) {
				s.log.Warn("cache", "unreadable index artifact, treating as miss", map[string]interface{}{
					"key":   key,
					"file":  part.name,
					"error": err.Error(),
				})
			}
			return retrieval.Artifacts{}, false
		}
		*part.dst = data
	}
	return arts, true
}

// ListAll returns every cached document in the session, sorted by cache key
// so enumeration order is stable across requests.
func (s *FileStore) ListAll(userID, sessionID string) ([]store.CachedDocument, error) {
	cachesDir := filepath.Join(s.sessionDir(userID, sessionID), "caches")
	entries, err := os.ReadDir(cachesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list caches: %w", err)
	}

	var docs []store.CachedDocument
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		key := entry.Name()
		chunks, name, ok := s.GetChunks(userID, sessionID, key)
		if !ok {
			continue
		}
		docs = append(docs, store.CachedDocument{Key: key, Name: name, Chunks: chunks})
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Key < docs[b].Key })
	return docs, nil
}

func (s *FileStore) SetLastKey(userID, sessionID, key string) error {
	dir := s.sessionDir(userID, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return writeJSONAtomic(filepath.Join(dir, lastKeyFile), lastKeyRecord{Key: key})
}

func (s *FileStore) GetLastKey(userID, sessionID string) (string, bool) {
	var rec lastKeyRecord
	if !s.readJSON(filepath.Join(s.sessionDir(userID, sessionID), lastKeyFile), &rec) {
		return "", false
	}
	return rec.Key, rec.Key != ""
}

// CopyUpload keeps the raw upload bytes alongside the session caches and
// returns the stored path.
func (s *FileStore) CopyUpload(userID, sessionID, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.sessionDir(userID, sessionID), "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(filename))
	if err := writeBytesAtomic(dst, data); err != nil {
		return "", err
	}
	return dst, nil
}

// readJSON reports whether the file existed and decoded cleanly. Corrupt
// files are logged and reported as absent.
func (s *FileStore) readJSON(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cache", "unreadable cache file, treating as miss", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("cache", "corrupt cache file, treating as miss", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return false
	}
	return true
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return writeBytesAtomic(path, data)
}

// writeBytesAtomic publishes via temp file and rename so readers never see
// a half-written cache entry.
func writeBytesAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish %s: %w", filepath.Base(path), err)
	}
	return nil
}
