package export

// runWithFallback attempts the primary strategy and, when it fails, retries
// exactly once with the fallback. Only the fallback's error surfaces; the
// primary's diagnostic is discarded. There is no further retry.
func runWithFallback(primary, fallback func() error) error {
	if err := primary(); err == nil {
		return nil
	}
	return fallback()
}
