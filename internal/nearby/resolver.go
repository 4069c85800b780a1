package nearby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reillypo/nps-explorer/internal/fetcher"
	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/internal/model"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/reillypo/nps-explorer/pkg/hashutil"
	"github.com/reillypo/nps-explorer/pkg/urlutil"
)

/*
Responsibilities
- Build the radius search for a site's zipcode
- Derive the canonical cache key of that search
- Parse at most ten place records from the cached response

Only the zipcode of the site is used. A zipcode sentinel is searched
like any other origin; the API decides what it matches.
*/

// JSONSource returns a decoded API response, consulting the cache first.
type JSONSource interface {
	JSON(ctx context.Context, key string, requestURL string, out any) failure.ClassifiedError
}

type Resolver struct {
	source       JSONSource
	endpoint     string
	apiKey       string
	metadataSink metadata.MetadataSink
}

func NewResolver(
	source JSONSource,
	endpoint string,
	apiKey string,
	metadataSink metadata.MetadataSink,
) *Resolver {
	return &Resolver{
		source:       source,
		endpoint:     endpoint,
		apiKey:       apiKey,
		metadataSink: metadataSink,
	}
}

// Params lists the radius search parameters for site.
func (r *Resolver) Params(site model.NationalSite) []urlutil.Param {
	return []urlutil.Param{
		{Name: "key", Value: r.apiKey},
		{Name: "origin", Value: site.Zipcode()},
		{Name: "radius", Value: searchRadius},
		{Name: "maxMatches", Value: strconv.Itoa(maxMatches)},
		{Name: "ambiguities", Value: ambiguities},
		{Name: "outFormat", Value: outFormat},
	}
}

// CacheKey is the identity under which the search for site is cached.
func (r *Resolver) CacheKey(site model.NationalSite) string {
	return urlutil.CanonicalKey(r.endpoint+"?", r.Params(site))
}

func (r *Resolver) requestURL(site model.NationalSite) string {
	return r.endpoint + "?" + urlutil.Values(r.Params(site)).Encode()
}

// Resolve runs the radius search for site and parses its places.
func (r *Resolver) Resolve(ctx context.Context, site model.NationalSite) (Result, failure.ClassifiedError) {
	key := r.CacheKey(site)

	var decoded any
	if err := r.source.JSON(ctx, key, r.requestURL(site), &decoded); err != nil {
		var fetchErr *fetcher.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Cause == fetcher.ErrCauseDecodeFailure {
			return Result{}, r.fail(key, fetchErr.Message)
		}
		return Result{}, err
	}

	result, nearbyErr := parse(decoded)
	if nearbyErr != nil {
		return Result{}, r.fail(key, nearbyErr.Message)
	}
	return result, nil
}

func (r *Resolver) fail(key string, message string) *NearbyError {
	err := &NearbyError{
		Message:   message,
		Retryable: true,
		Cause:     ErrCauseDecodeFailure,
	}
	r.metadataSink.RecordError(
		time.Now(),
		"nearby",
		"Resolver.Resolve",
		mapNearbyErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrCacheKey, hashutil.Fingerprint(key)),
		},
	)
	return err
}

func parse(decoded any) (Result, *NearbyError) {
	response, ok := decoded.(map[string]any)
	if !ok {
		return Result{}, &NearbyError{Message: "response is not a JSON object"}
	}

	count, ok := toInt(response["resultsCount"])
	if !ok {
		return Result{}, &NearbyError{Message: "resultsCount missing or not a number"}
	}

	bound := min(max(count, 0), maxMatches)
	if bound == 0 {
		return Result{Response: response, ResultsCount: count, Places: []model.NearbyPlace{}}, nil
	}

	records, _ := response["searchResults"].([]any)
	if len(records) < bound {
		return Result{}, &NearbyError{
			Message: fmt.Sprintf("resultsCount is %d but only %d records were returned", count, len(records)),
		}
	}

	places := make([]model.NearbyPlace, 0, bound)
	for _, record := range records[:bound] {
		places = append(places, parsePlace(record))
	}
	return Result{Response: response, ResultsCount: count, Places: places}, nil
}

func parsePlace(record any) model.NearbyPlace {
	entry, _ := record.(map[string]any)
	fields, _ := entry["fields"].(map[string]any)
	return model.NearbyPlace{
		Name:     orDefault(stringField(entry, "name"), noName),
		Category: orDefault(stringField(fields, "group_sic_code_name"), noCategory),
		Address:  orDefault(stringField(fields, "address"), noAddress),
		City:     orDefault(stringField(fields, "city"), noCity),
	}
}

// stringField reads a string value; anything else counts as empty.
func stringField(m map[string]any, name string) string {
	s, _ := m[name].(string)
	return s
}

func orDefault(value string, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}

// toInt accepts a JSON number in any decoded form, or a numeric string.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}
