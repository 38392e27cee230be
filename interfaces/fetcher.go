package interfaces

//go:generate mockgen -destination=mocks/fetcher.go . Fetcher

import (
	"context"

	"github.com/status-im/asset-loader/fetch"
)

// Fetcher performs one network retrieval attempt for one candidate
// address. A returned error means the transport itself failed (treated
// as a transient failure); otherwise the outcome status decides.
type Fetcher interface {
	Fetch(ctx context.Context, req fetch.Request) (fetch.Outcome, error)
}
