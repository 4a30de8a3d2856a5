// Package retry provides backoff and retry logic for transient failures
// when calling the analytics endpoint.
//
// Features:
//   - Exponential backoff with jitter, and constant backoff
//   - Context support for cancellation
//   - Retry predicate driven by the typed error taxonomy
//
// Basic usage:
//
//	// Simple retry with defaults
//	err := retry.Do(func() error {
//		return refreshToken()
//	}, nil)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.ExponentialBackoff{
//			BaseDelay:    2 * time.Second,
//			MaxDelay:     30 * time.Second,
//			Multiplier:   2.0,
//			JitterFactor: 0.1,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
//	report, err := retry.DoWithResult(func() (*analytics.Report, error) {
//		return client.CheckEngagement(username)
//	}, cfg)
package retry
