package directory

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
- Fetch the landing page through the cache
- Locate the state navigation list
- Map each lowercase state name to its listing URL

The directory is rebuilt on every call. Only the landing page fetch is
cached, so a rebuilt directory costs one parse and no request.
*/

// navigationSelector matches the state drop-down of the landing page.
const navigationSelector = "ul.dropdown-menu.SearchBar-keywordSearch"

// PageSource returns the body of an HTML page, consulting the cache first.
type PageSource interface {
	Page(ctx context.Context, pageURL string) (string, failure.ClassifiedError)
}

type Resolver struct {
	pages        PageSource
	baseURL      string
	metadataSink metadata.MetadataSink
}

func NewResolver(
	pages PageSource,
	baseURL string,
	metadataSink metadata.MetadataSink,
) *Resolver {
	return &Resolver{
		pages:        pages,
		baseURL:      baseURL,
		metadataSink: metadataSink,
	}
}

// Resolve builds the state directory from the landing page.
func (r *Resolver) Resolve(ctx context.Context) (model.StateDirectory, failure.ClassifiedError) {
	body, err := r.pages.Page(ctx, r.baseURL)
	if err != nil {
		return nil, err
	}

	directory, dirErr := r.parse(body)
	if dirErr != nil {
		r.metadataSink.RecordError(
			time.Now(),
			"directory",
			"Resolver.Resolve",
			mapDirectoryErrorToMetadataCause(dirErr),
			dirErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, r.baseURL),
			},
		)
		return nil, dirErr
	}
	return directory, nil
}

func (r *Resolver) parse(body string) (model.StateDirectory, *DirectoryError) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, &DirectoryError{
			Message:   eris.Wrap(err, "parse landing page").Error(),
			Retryable: false,
			Cause:     ErrCauseParseFailure,
		}
	}
	doc := goquery.NewDocumentFromNode(root)

	nav := doc.Find(navigationSelector).First()
	if nav.Length() == 0 {
		return nil, &DirectoryError{
			Message:   "no element matches " + navigationSelector,
			Retryable: false,
			Cause:     ErrCauseNavigationMissing,
		}
	}

	directory := model.StateDirectory{}
	nav.Find("li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.ToLower(strings.TrimSpace(link.Text()))
		if name == "" {
			return
		}
		directory[name] = urlutil.Join(r.baseURL, href)
	})
	return directory, nil
}
