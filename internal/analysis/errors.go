package analysis

import "fmt"

// ProviderError marks failures talking to the vision model provider
// (network, rate limit, upstream 5xx, open circuit breaker). It is the only
// error category that can reach the orchestrator's fallback handling.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("vision provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ImageReadError marks an unreadable source photo. Evidence assembly logs
// it and substitutes a placeholder; it never aborts the batch.
type ImageReadError struct {
	Key string
	Err error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("image read %s: %v", e.Key, e.Err)
}

func (e *ImageReadError) Unwrap() error { return e.Err }
