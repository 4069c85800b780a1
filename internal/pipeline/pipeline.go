package pipeline

import (
	"context"
	"net/http"

	"github.com/reillypo/nps-explorer/internal/cache"
	"github.com/reillypo/nps-explorer/internal/config"
	"github.com/reillypo/nps-explorer/internal/directory"
	"github.com/reillypo/nps-explorer/internal/extractor"
	"github.com/reillypo/nps-explorer/internal/fetcher"
	"github.com/reillypo/nps-explorer/internal/metadata"
	"github.com/reillypo/nps-explorer/internal/model"
	"github.com/reillypo/nps-explorer/internal/nearby"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

/*
 Pipeline wires every stage around one cache store.

 - Directory, extractor and nearby resolver share a single cached
   fetcher, so every outbound request goes through the same document.
 - Stages classify failures; the pipeline only passes them on.
 - Deciding whether a failure ends the session belongs to the caller.
*/

type Pipeline struct {
	cfg          config.Config
	metadataSink metadata.MetadataSink
	store        *cache.Store
	directory    *directory.Resolver
	extractor    *extractor.SiteExtractor
	nearby       *nearby.Resolver
}

// New builds the production pipeline: cache on the OS filesystem,
// events logged through the global zap logger.
func New(cfg config.Config) Pipeline {
	recorder := metadata.NewRecorder(zap.L())
	httpClient := &http.Client{Timeout: cfg.Timeout()}
	return NewWithDeps(afero.NewOsFs(), httpClient, &recorder, cfg)
}

// NewWithDeps creates a Pipeline with injected infrastructure for testing.
func NewWithDeps(
	fs afero.Fs,
	httpClient *http.Client,
	metadataSink metadata.MetadataSink,
	cfg config.Config,
) Pipeline {
	store := cache.Open(fs, cfg.CacheFile(), metadataSink)
	httpFetcher := fetcher.NewHTTPFetcher(metadataSink, httpClient, newLimiter(cfg.RequestsPerSecond()))
	cachedFetcher := fetcher.NewCachedFetcher(httpFetcher, store, cfg.UserAgent(), metadataSink)

	return Pipeline{
		cfg:          cfg,
		metadataSink: metadataSink,
		store:        store,
		directory:    directory.NewResolver(cachedFetcher, cfg.BaseURL(), metadataSink),
		extractor:    extractor.NewSiteExtractor(cachedFetcher, cfg.BaseURL(), metadataSink),
		nearby:       nearby.NewResolver(cachedFetcher, cfg.APIBaseURL(), cfg.APIKey(), metadataSink),
	}
}

// newLimiter returns nil for rps <= 0, which the fetcher treats as unlimited.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// States returns the state directory.
func (p *Pipeline) States(ctx context.Context) (model.StateDirectory, failure.ClassifiedError) {
	return p.directory.Resolve(ctx)
}

// Sites returns every site listed for state, matched case-insensitively.
func (p *Pipeline) Sites(ctx context.Context, state string) ([]model.NationalSite, failure.ClassifiedError) {
	states, err := p.directory.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	stateURL, ok := states.Lookup(state)
	if !ok {
		return nil, &PipelineError{
			Message:   state,
			Retryable: true,
			Cause:     ErrCauseUnknownState,
		}
	}
	return p.extractor.SitesForState(ctx, stateURL)
}

// Nearby returns places around site.
func (p *Pipeline) Nearby(ctx context.Context, site model.NationalSite) (nearby.Result, failure.ClassifiedError) {
	if p.cfg.APIKey() == "" {
		return nearby.Result{}, &PipelineError{
			Message:   "set api_key in the config file, NPS_API_KEY, or --api-key",
			Retryable: true,
			Cause:     ErrCauseMissingAPIKey,
		}
	}
	return p.nearby.Resolve(ctx, site)
}

func (p *Pipeline) CacheStats() cache.Stats {
	return p.store.Stats()
}

func (p *Pipeline) ClearCache() error {
	return p.store.Clear()
}
