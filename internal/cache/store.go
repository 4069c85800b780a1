package cache

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"time"

	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/pkg/fileutil"
	"github.com/reillypo/nps-explorer/pkg/hashutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

/*
Responsibilities
- Own the on-disk cache document and its in-memory mirror
- Serve lookups from the mirror only
- Rewrite the whole document after every Put

Persistence Semantics
- The document is a single JSON object: key -> value
- A missing, unreadable or malformed document loads as an empty store
- Every Put rewrites a full snapshot in place; a failed write leaves
  the mirror as it was before the Put
- There is no atomic replace, so a crash mid-write can leave a corrupt
  document, which the next load treats as empty
- No expiry, no eviction, no size bound
- One writer per document; concurrent processes lose updates
*/

const defaultFilePerm = 0644

// Store is the disk-backed Cache.
type Store struct {
	fs           afero.Fs
	path         string
	mirror       *MemoryCache
	metadataSink metadata.MetadataSink
}

var _ Cache = (*Store)(nil)

// Open loads the document at path and returns a ready store. Load
// failures are not surfaced: the store starts empty instead.
func Open(fs afero.Fs, path string, metadataSink metadata.MetadataSink) *Store {
	s := &Store{
		fs:           fs,
		path:         path,
		metadataSink: metadataSink,
	}
	s.Load()
	return s
}

// Load replaces the mirror with the current document contents.
func (s *Store) Load() {
	s.mirror = newMemoryCacheFrom(s.readDocument())
}

func (s *Store) readDocument() map[string]json.RawMessage {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// Path returns the location of the document.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of entries in the mirror.
func (s *Store) Len() int {
	return s.mirror.Size()
}

func (s *Store) Get(key string) (json.RawMessage, bool) {
	return s.mirror.Get(key)
}

// Put inserts or overwrites key, then flushes the whole document. A failed
// flush restores the entry to its state before the Put.
func (s *Store) Put(key string, value json.RawMessage) error {
	previous, existed := s.mirror.Get(key)
	if err := s.mirror.Put(key, value); err != nil {
		return s.fail("Store.Put", key, err)
	}
	if err := s.flush(); err != nil {
		s.rollback(key, previous, existed)
		return s.fail("Store.Put", key, err)
	}
	return nil
}

func (s *Store) rollback(key string, previous json.RawMessage, existed bool) {
	if !existed {
		s.mirror.Delete(key)
		return
	}
	// previous came out of the mirror, so it is already valid JSON.
	_ = s.mirror.Put(key, previous)
}

// GetText returns a cached page body. Entries that are not JSON strings
// are reported as absent.
func (s *Store) GetText(key string) (string, bool) {
	raw, ok := s.mirror.Get(key)
	if !ok {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return text, true
}

// PutText stores a page body as a JSON string. Bytes that are not valid
// UTF-8 are each replaced by U+FFFD; GetText returns the stored form.
func (s *Store) PutText(key string, text string) error {
	raw, err := encode(text)
	if err != nil {
		return s.fail("Store.PutText", key, &CacheError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseEncodeFailure,
		})
	}
	return s.Put(key, raw)
}

// GetJSON decodes the entry under key into out. It reports false with a
// nil error when the key is absent.
func (s *Store) GetJSON(key string, out any) (bool, error) {
	raw, ok := s.mirror.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, s.fail("Store.GetJSON", key, &CacheError{
			Message:   eris.Wrap(err, "decode cached value").Error(),
			Retryable: true,
			Cause:     ErrCauseDecodeFailure,
		})
	}
	return true, nil
}

func (s *Store) PutJSON(key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return s.fail("Store.PutJSON", key, &CacheError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseEncodeFailure,
		})
	}
	return s.Put(key, raw)
}

// Clear drops every entry and removes the document.
func (s *Store) Clear() error {
	s.mirror.Clear()
	if err := s.fs.Remove(s.path); err != nil {
		exists, statErr := afero.Exists(s.fs, s.path)
		if statErr == nil && !exists {
			return nil
		}
		return s.fail("Store.Clear", "", &CacheError{
			Message:   eris.Wrap(err, "remove cache document").Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
		})
	}
	return nil
}

// EntryStat describes one entry without exposing its key.
type EntryStat struct {
	Fingerprint string
	Kind        string
	SizeBytes   int
}

type Stats struct {
	Path          string
	Entries       int
	DocumentBytes int64
	Items         []EntryStat
}

// Stats summarizes the store. Keys are listed by fingerprint because the
// API query keys carry the credential.
func (s *Store) Stats() Stats {
	keys := s.mirror.Keys()
	items := make([]EntryStat, 0, len(keys))
	for _, key := range keys {
		raw, _ := s.mirror.Get(key)
		items = append(items, EntryStat{
			Fingerprint: hashutil.Fingerprint(key),
			Kind:        valueKind(raw),
			SizeBytes:   len(raw),
		})
	}
	return Stats{
		Path:          s.path,
		Entries:       len(keys),
		DocumentBytes: fileutil.FileSize(s.fs, s.path),
		Items:         items,
	}
}

func valueKind(raw json.RawMessage) string {
	if len(raw) > 0 && raw[0] == '"' {
		return "text"
	}
	return "json"
}

func (s *Store) flush() error {
	document, err := encode(s.mirror.Snapshot())
	if err != nil {
		return &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseEncodeFailure,
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if dirErr := fileutil.EnsureDir(s.fs, dir); dirErr != nil {
			return &CacheError{
				Message:   dirErr.Error(),
				Retryable: false,
				Cause:     ErrCauseWriteFailure,
			}
		}
	}

	if err := afero.WriteFile(s.fs, s.path, document, defaultFilePerm); err != nil {
		return &CacheError{
			Message:   eris.Wrap(err, "write cache document").Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
		}
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactCacheDocument,
		s.path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrEntries, strconv.Itoa(s.mirror.Size())),
		},
	)
	return nil
}

func (s *Store) fail(action string, key string, err error) error {
	var cacheErr *CacheError
	if !errors.As(err, &cacheErr) {
		cacheErr = &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
		}
	}
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrPath, s.path),
	}
	if key != "" {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrCacheKey, hashutil.Fingerprint(key)))
	}
	s.metadataSink.RecordError(
		time.Now(),
		"cache",
		action,
		mapCacheErrorToMetadataCause(cacheErr),
		cacheErr.Error(),
		attrs,
	)
	return cacheErr
}
