// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider with a token bucket, so repeated requests
// cannot exceed the request budget of the weather API.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider returns a RateLimitedProvider that allows rps requests per
// second with bursts of up to burst requests.
func NewRateLimitedProvider(provider Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) RequiresKey() bool {
	return r.provider.RequiresKey()
}

func (r *RateLimitedProvider) History(ctx context.Context, query Query) (*History, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.History(ctx, query)
}

var (
	_ Provider = (*CachedProvider)(nil)
	_ Provider = (*RateLimitedProvider)(nil)
)
