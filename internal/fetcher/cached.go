package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/reillypo/nps-explorer/pkg/hashutil"
	"github.com/rotisserie/eris"
)

/*
Responsibilities

- Consult the cache before every network request
- Store the fetched page or decoded response under the request key
- Serve hits and misses through the same decoding path

A hit never touches the network. A miss fetches, stores, then reads
back what was stored, so callers observe identical values either way.
*/

// Store is the slice of cache.Store the cached fetcher needs.
type Store interface {
	GetText(key string) (string, bool)
	PutText(key string, text string) error
	GetJSON(key string, out any) (bool, error)
	PutJSON(key string, value any) error
}

type CachedFetcher struct {
	fetcher      Fetcher
	store        Store
	userAgent    string
	metadataSink metadata.MetadataSink
}

func NewCachedFetcher(
	fetcher Fetcher,
	store Store,
	userAgent string,
	metadataSink metadata.MetadataSink,
) *CachedFetcher {
	return &CachedFetcher{
		fetcher:      fetcher,
		store:        store,
		userAgent:    userAgent,
		metadataSink: metadataSink,
	}
}

// Page returns the HTML body for pageURL. The URL itself is the cache key.
func (c *CachedFetcher) Page(ctx context.Context, pageURL string) (string, failure.ClassifiedError) {
	if text, ok := c.store.GetText(pageURL); ok {
		c.metadataSink.RecordCacheLookup(hashutil.Fingerprint(pageURL), true)
		return text, nil
	}
	c.metadataSink.RecordCacheLookup(hashutil.Fingerprint(pageURL), false)

	parsed, err := parseURL(pageURL)
	if err != nil {
		return "", err
	}

	result, err := c.fetcher.Fetch(ctx, NewFetchParam(*parsed, c.userAgent, ContentHTML))
	if err != nil {
		return "", err
	}

	if putErr := c.store.PutText(pageURL, string(result.Body())); putErr != nil {
		return "", classify(putErr)
	}
	// The stored form can differ from the body (invalid UTF-8 is
	// replaced), so a miss returns what every later hit will.
	text, ok := c.store.GetText(pageURL)
	if !ok {
		return "", &FetchError{
			Message:   fmt.Sprintf("page %q missing from cache after store", pageURL),
			Retryable: false,
			Cause:     ErrCauseCacheUnavailable,
		}
	}
	return text, nil
}

// JSON decodes the response for requestURL into out, caching the decoded
// structure under key. key and requestURL differ when the request carries
// parameters that the key spells out canonically.
func (c *CachedFetcher) JSON(ctx context.Context, key string, requestURL string, out any) failure.ClassifiedError {
	found, err := c.store.GetJSON(key, out)
	if err != nil {
		return classify(err)
	}
	c.metadataSink.RecordCacheLookup(hashutil.Fingerprint(key), found)
	if found {
		return nil
	}

	parsed, parseErr := parseURL(requestURL)
	if parseErr != nil {
		return parseErr
	}

	result, fetchErr := c.fetcher.Fetch(ctx, NewFetchParam(*parsed, c.userAgent, ContentJSON))
	if fetchErr != nil {
		return fetchErr
	}

	decoded, decodeErr := decodeBody(result.Body())
	if decodeErr != nil {
		c.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			"CachedFetcher.JSON",
			mapFetchErrorToMetadataCause(decodeErr),
			decodeErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrCacheKey, hashutil.Fingerprint(key)),
			},
		)
		return decodeErr
	}

	if putErr := c.store.PutJSON(key, decoded); putErr != nil {
		return classify(putErr)
	}
	if _, err := c.store.GetJSON(key, out); err != nil {
		return classify(err)
	}
	return nil
}

func decodeBody(body []byte) (any, *FetchError) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, &FetchError{
			Message:   eris.Wrap(err, "decode response body").Error(),
			Retryable: true,
			Cause:     ErrCauseDecodeFailure,
		}
	}
	return decoded, nil
}

func parseURL(raw string) (*url.URL, failure.ClassifiedError) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &FetchError{
			Message:   fmt.Sprintf("cannot request %q", raw),
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
	}
	return parsed, nil
}

// classify keeps the cache's own classification; anything unclassified
// coming out of the store is treated as fatal.
func classify(err error) failure.ClassifiedError {
	var classified failure.ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}
	return &FetchError{
		Message:   err.Error(),
		Retryable: false,
		Cause:     ErrCauseCacheUnavailable,
	}
}
