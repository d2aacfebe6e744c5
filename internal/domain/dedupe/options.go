package dedupe

// Option configures a deduper built by NewInMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithMaxSize caps the remembered keys; past the cap the oldest key is
// forgotten first. A cap <= 0 remembers every key.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) { d.maxSize = maxSize }
}
