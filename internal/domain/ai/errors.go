package ai

import "errors"

// ErrQuotaExceeded indicates the provider rejected the call on quota or
// rate limits (HTTP 429). Callers abort on it instead of degrading to a
// fallback result.
var ErrQuotaExceeded = errors.New("ai quota exceeded")
