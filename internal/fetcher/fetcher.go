package fetcher

import (
	"context"

	"github.com/reillypo/nps-explorer/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
	) (FetchResult, failure.ClassifiedError)
}
