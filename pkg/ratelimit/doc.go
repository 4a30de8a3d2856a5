// Package ratelimit provides rate limiting for calls to the analytics
// endpoint and for the local API server.
//
// Available Implementations:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Used to pace batch engagement checks from the CLI
//
// Sliding Window:
//   - Tracks requests within a moving time window
//   - Used to throttle the local API server's check route
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Token bucket: 20 requests per minute
//	limiter := ratelimit.NewTokenBucket(20, time.Minute)
//
//	if limiter.Allow() {
//	    // Proceed with request
//	} else {
//	    limiter.Wait()
//	}
package ratelimit
