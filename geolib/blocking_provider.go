package geolib

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	DefaultLookupTimeout  = time.Second
	DefaultWorkerPoolSize = 64

	workerPoolExpireTime = time.Minute
)

type lookupResult struct {
	country CountryCode
	err     error
}

type blockingProvider struct {
	provider Provider
	pool     *ants.Pool
	timeout  time.Duration
}

func (b *blockingProvider) Name() string {
	return b.provider.Name()
}

func (b *blockingProvider) Lookup(ctx context.Context, ip net.IP) (CountryCode, error) {
	// cancellation of a caller does not abort a lookup: it either
	// finishes or times out.
	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	resultChannel := make(chan lookupResult, 1)

	err := b.pool.Submit(func() {
		defer cancel()

		country, err := b.provider.Lookup(lookupCtx, ip)
		resultChannel <- lookupResult{country: country, err: err}
	})
	if err != nil {
		cancel()

		return "", fmt.Errorf("cannot schedule a lookup: %w", err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case res := <-resultChannel:
		return res.country, res.err
	case <-timer.C:
		return "", ErrLookupTimeout
	}
}

func (b *blockingProvider) Close() error {
	b.pool.Release()

	if closer, ok := b.provider.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// NewBlockingProvider wraps a provider so each lookup is executed in a
// dedicated worker pool and a caller waits for its result no longer
// than a given timeout. If pool has no free workers, lookup fails
// immediately.
//
// Returned provider implements io.Closer.
func NewBlockingProvider(provider Provider, poolSize int, timeout time.Duration) (Provider, error) {
	if poolSize <= 0 {
		poolSize = DefaultWorkerPoolSize
	}

	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	pool, err := ants.NewPool(poolSize,
		ants.WithNonblocking(true),
		ants.WithExpiryDuration(workerPoolExpireTime))
	if err != nil {
		return nil, fmt.Errorf("cannot create a worker pool: %w", err)
	}

	return &blockingProvider{
		provider: provider,
		pool:     pool,
		timeout:  timeout,
	}, nil
}
