package extractor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reillypo/nps-explorer/internal/cache"
	"github.com/reillypo/nps-explorer/internal/extractor"
	"github.com/reillypo/nps-explorer/internal/fetcher"
	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/internal/model"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseURL  = "https://www.nps.gov"
	stateURL = "https://www.nps.gov/state/mi/index.htm"
	isroURL  = "https://www.nps.gov/isro/index.htm"
	piroURL  = "https://www.nps.gov/piro/index.htm"
	mnrrURL  = "https://www.nps.gov/mnrr/index.htm"
)

func michiganPages(t *testing.T) *stubPages {
	return &stubPages{bodies: map[string]string{
		stateURL: loadFixture(t, "state_mi.html"),
		isroURL:  loadFixture(t, "isro.html"),
		piroURL:  loadFixture(t, "piro_without_phone.html"),
		mnrrURL:  loadFixture(t, "mnrr_without_postal_code.html"),
	}}
}

func TestField_OrSentinel(t *testing.T) {
	assert.Equal(t, "Isle Royale", extractor.Field{Value: "Isle Royale", Present: true}.OrSentinel("No name"))
	assert.Equal(t, "", extractor.Field{Value: "", Present: true}.OrSentinel("No category"))
	assert.Equal(t, "No name", extractor.Field{}.OrSentinel("No name"))
}

func TestListSiteURLs(t *testing.T) {
	ext := extractor.NewSiteExtractor(michiganPages(t), baseURL, &metadata.NoopSink{})

	urls, err := ext.ListSiteURLs(context.Background(), stateURL)

	require.Nil(t, err)
	assert.Equal(t, []string{isroURL, piroURL, mnrrURL}, urls, "rows without a link are skipped")
}

func TestListSiteURLs_NoRows(t *testing.T) {
	pages := &stubPages{bodies: map[string]string{stateURL: loadFixture(t, "state_empty.html")}}
	ext := extractor.NewSiteExtractor(pages, baseURL, &metadata.NoopSink{})

	urls, err := ext.ListSiteURLs(context.Background(), stateURL)

	require.Nil(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
}

func TestExtractSite_AllMarkersPresent(t *testing.T) {
	sink := &mockMetadataSink{}
	ext := extractor.NewSiteExtractor(michiganPages(t), baseURL, sink)

	site, err := ext.ExtractSite(context.Background(), isroURL)

	require.Nil(t, err)
	assert.Equal(t, model.NewNationalSite("National Park", "Isle Royale", "Houghton, MI", "49931", "(906) 482-0984"), site)
	assert.Equal(t, "Isle Royale (National Park): Houghton, MI 49931", site.Info())
	assert.Empty(t, sink.fallbacks)
}

func TestExtractSite_MissingPhone(t *testing.T) {
	sink := &mockMetadataSink{}
	ext := extractor.NewSiteExtractor(michiganPages(t), baseURL, sink)

	site, err := ext.ExtractSite(context.Background(), piroURL)

	require.Nil(t, err)
	assert.Equal(t, "No phone number", site.Phone())
	assert.Equal(t, "Pictured Rocks", site.Name())
	assert.Equal(t, "National Lakeshore", site.Category())
	assert.Equal(t, "Munising, MI", site.Address())
	assert.Equal(t, "49862", site.Zipcode())
	assert.Equal(t, []fallback{{url: piroURL, field: "phone", sentinel: "No phone number"}}, sink.fallbacks)
}

func TestExtractSite_MissingPostalCodeAndEmptyCategory(t *testing.T) {
	ext := extractor.NewSiteExtractor(michiganPages(t), baseURL, &metadata.NoopSink{})

	site, err := ext.ExtractSite(context.Background(), mnrrURL)

	require.Nil(t, err)
	assert.Equal(t, "No zipcode", site.Zipcode())
	assert.Equal(t, "", site.Category(), "an empty designation is not the same as a missing one")
	assert.Equal(t, "(313) 259-3425", site.Phone())
	assert.Equal(t, "Motor Cities (): Detroit, MI No zipcode", site.Info())
}

func TestExtractSite_NoMarkers(t *testing.T) {
	pages := &stubPages{bodies: map[string]string{isroURL: loadFixture(t, "bare.html")}}
	sink := &mockMetadataSink{}
	ext := extractor.NewSiteExtractor(pages, baseURL, sink)

	site, err := ext.ExtractSite(context.Background(), isroURL)

	require.Nil(t, err)
	assert.Equal(t, model.NewNationalSite("No category", "No name", "No city, No state", "No zipcode", "No phone number"), site)
	assert.Len(t, sink.fallbacks, 6)
}

func TestSitesForState(t *testing.T) {
	ext := extractor.NewSiteExtractor(michiganPages(t), baseURL, &metadata.NoopSink{})

	sites, err := ext.SitesForState(context.Background(), stateURL)

	require.Nil(t, err)
	require.Len(t, sites, 3)
	assert.Equal(t, "Isle Royale", sites[0].Name())
	assert.Equal(t, "Pictured Rocks", sites[1].Name())
	assert.Equal(t, "Motor Cities", sites[2].Name())
}

func TestSitesForState_DetailFailureStopsListing(t *testing.T) {
	pages := michiganPages(t)
	pages.errs = map[string]failure.ClassifiedError{
		piroURL: &fetcher.FetchError{Message: "client error: 404", Retryable: true, Cause: fetcher.ErrCauseRequestClientError},
	}
	ext := extractor.NewSiteExtractor(pages, baseURL, &metadata.NoopSink{})

	sites, err := ext.SitesForState(context.Background(), stateURL)

	require.NotNil(t, err)
	assert.Nil(t, sites)
	assert.False(t, failure.IsFatal(err))
}

func TestExtractSite_IdempotentThroughCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(loadFixture(t, "isro.html")))
	}))
	defer server.Close()

	store := cache.Open(afero.NewMemMapFs(), "/cache.json", &metadata.NoopSink{})
	httpFetcher := fetcher.NewHTTPFetcher(&metadata.NoopSink{}, server.Client(), nil)
	pages := fetcher.NewCachedFetcher(httpFetcher, store, "ua", &metadata.NoopSink{})
	ext := extractor.NewSiteExtractor(pages, server.URL, &metadata.NoopSink{})

	detailURL := server.URL + "/isro/index.htm"
	first, err := ext.ExtractSite(context.Background(), detailURL)
	require.Nil(t, err)
	second, err := ext.ExtractSite(context.Background(), detailURL)
	require.Nil(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, requests)
}
