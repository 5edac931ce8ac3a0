package connector

import (
	"context"
	"time"
)

const (
	defaultBaseDelay = time.Second
	defaultBackoff   = 2.0
)

// retryConnect makes one attempt plus up to MaxRetries more, growing the delay
// by the backoff factor and capping it at MaxDelay.
func retryConnect(ctx context.Context, opts RetryConfig, connectFn func(context.Context) (Connection, error)) (Connection, error) {
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = defaultBaseDelay
	}
	backoff := opts.Backoff
	if backoff < 1 {
		backoff = defaultBackoff
	}

	var err error
	for attempt := 0; ; attempt++ {
		var conn Connection
		conn, err = connectFn(ctx)
		if err == nil {
			return conn, nil
		}
		if attempt >= opts.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * backoff)
		if opts.MaxDelay > 0 && delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
}
