// Package analytics provides the client for the external engagement
// analytics endpoint.
//
// The endpoint accepts a POST with a JSON body of {"username": "..."} and
// returns follower counts, average likes/comments, and an engagement rate
// percentage. The rate arrives as either a JSON number or a numeric
// string, so the client normalizes it. Failures surface as typed errors
// from the errors package and retryable classes are retried with
// exponential backoff.
package analytics
