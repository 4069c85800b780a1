package extractor

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/internal/model"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/reillypo/nps-explorer/pkg/urlutil"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

/*
Responsibilities
- Turn a state listing page into the detail URLs of its parks
- Turn a detail page into a NationalSite

Extraction Rules
- Every field is read independently; one missing marker never affects
  the others
- An absent marker yields the field's sentinel
- A present marker yields its trimmed text, even when that is empty
- Address is composed from the resolved city and state

Pages always come through the cache, so extracting the same URL twice
yields the same result.
*/

// PageSource returns the body of an HTML page, consulting the cache first.
type PageSource interface {
	Page(ctx context.Context, pageURL string) (string, failure.ClassifiedError)
}

type SiteExtractor struct {
	pages        PageSource
	baseURL      string
	metadataSink metadata.MetadataSink
}

func NewSiteExtractor(
	pages PageSource,
	baseURL string,
	metadataSink metadata.MetadataSink,
) *SiteExtractor {
	return &SiteExtractor{
		pages:        pages,
		baseURL:      baseURL,
		metadataSink: metadataSink,
	}
}

// ListSiteURLs returns the detail URLs listed on a state page, in page
// order. A page without park rows yields an empty slice.
func (e *SiteExtractor) ListSiteURLs(ctx context.Context, stateURL string) ([]string, failure.ClassifiedError) {
	doc, err := e.load(ctx, "SiteExtractor.ListSiteURLs", stateURL)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	doc.Find(listingRowSelector).Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		urls = append(urls, urlutil.Join(e.baseURL, href, detailPage))
	})
	return urls, nil
}

// ExtractSite reads one detail page into a NationalSite.
func (e *SiteExtractor) ExtractSite(ctx context.Context, detailURL string) (model.NationalSite, failure.ClassifiedError) {
	doc, err := e.load(ctx, "SiteExtractor.ExtractSite", detailURL)
	if err != nil {
		return model.NationalSite{}, err
	}

	name := e.resolve(doc, detailURL, nameRule)
	category := e.resolve(doc, detailURL, categoryRule)
	city := e.resolve(doc, detailURL, cityRule)
	state := e.resolve(doc, detailURL, stateRule)
	zipcode := e.resolve(doc, detailURL, zipcodeRule)
	phone := e.resolve(doc, detailURL, phoneRule)

	return model.NewNationalSite(category, name, city+", "+state, zipcode, phone), nil
}

// SitesForState lists a state page and extracts every site on it.
// The first failing detail page stops the whole listing.
func (e *SiteExtractor) SitesForState(ctx context.Context, stateURL string) ([]model.NationalSite, failure.ClassifiedError) {
	urls, err := e.ListSiteURLs(ctx, stateURL)
	if err != nil {
		return nil, err
	}

	sites := make([]model.NationalSite, 0, len(urls))
	for _, detailURL := range urls {
		site, err := e.ExtractSite(ctx, detailURL)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func (e *SiteExtractor) resolve(doc *goquery.Document, sourceURL string, rule fieldRule) string {
	field := extractField(doc, rule.selector)
	if !field.Present {
		e.metadataSink.RecordFieldFallback(sourceURL, rule.name, rule.sentinel)
	}
	return field.OrSentinel(rule.sentinel)
}

// extractField reads the trimmed text of the first node matching selector.
func extractField(doc *goquery.Document, selector string) Field {
	match := doc.Find(selector).First()
	if match.Length() == 0 {
		return Field{}
	}
	return Field{Value: strings.TrimSpace(match.Text()), Present: true}
}

func (e *SiteExtractor) load(ctx context.Context, action string, pageURL string) (*goquery.Document, failure.ClassifiedError) {
	body, err := e.pages.Page(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	root, parseErr := html.Parse(strings.NewReader(body))
	if parseErr != nil {
		extractionErr := &ExtractionError{
			Message:   eris.Wrapf(parseErr, "parse %s", pageURL).Error(),
			Retryable: true,
			Cause:     ErrCauseParseFailure,
		}
		e.metadataSink.RecordError(
			time.Now(),
			"extractor",
			action,
			mapExtractionErrorToMetadataCause(extractionErr),
			extractionErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, pageURL),
			},
		)
		return nil, extractionErr
	}
	return goquery.NewDocumentFromNode(root), nil
}
