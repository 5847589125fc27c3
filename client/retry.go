package client

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/types"
)

// Policy defines the bounded retry behavior for upstream calls.
//
// Unlike exponential-backoff retriers, the delay here is flat: the upstream
// generation endpoints are slow enough that growing the wait adds latency
// without improving the success rate.
type Policy struct {
	MaxRetries int                                               // 总尝试次数（不是额外重试次数）
	Delay      time.Duration                                     // 两次尝试之间的固定间隔
	OnRetry    func(attempt int, err error, delay time.Duration) // 重试回调
}

// DefaultPolicy returns the retry policy used when the endpoint config
// does not specify one.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxRetries: 3,
		Delay:      2 * time.Second,
	}
}

// retryer executes a function with bounded flat-delay retries.
type retryer struct {
	policy *Policy
	logger *zap.Logger
}

func newRetryer(policy *Policy, logger *zap.Logger) *retryer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if policy.MaxRetries < 1 {
		policy.MaxRetries = 1
	}
	if policy.Delay < 0 {
		policy.Delay = 0
	}
	return &retryer{policy: policy, logger: logger}
}

// doWithResult runs fn up to MaxRetries times.
//
// A terminal error (types.IsRetryable == false) aborts immediately: 4xx
// responses reflect a malformed request, not transience, so burning the
// remaining attempts on them would only repeat the same failure. After the
// budget is exhausted the last error is wrapped with the attempt count.
func (r *retryer) doWithResult(ctx context.Context, fn func() (any, error)) (any, error) {
	var lastErr error
	var result any

	for attempt := 1; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 1 {
			delay := r.policy.Delay

			r.logger.Debug("retrying request",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", r.policy.MaxRetries),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)

			if r.policy.OnRetry != nil {
				r.policy.OnRetry(attempt, lastErr, delay)
			}

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		result, lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				r.logger.Info("retry succeeded", zap.Int("attempt", attempt))
			}
			return result, nil
		}

		if !types.IsRetryable(lastErr) {
			r.logger.Debug("error not retryable", zap.Error(lastErr))
			return nil, lastErr
		}
	}

	r.logger.Warn("retries exhausted",
		zap.Int("attempts", r.policy.MaxRetries),
		zap.Error(lastErr),
	)

	return nil, fmt.Errorf("request failed after %d attempts: %w", r.policy.MaxRetries, lastErr)
}
