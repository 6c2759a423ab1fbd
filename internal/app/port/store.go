package port

// KeyValueStore is durable local persistence under namespaced keys with
// JSON-serialized values.
type KeyValueStore interface {
	// Load parses the stored value for key into dest. It returns false when
	// the key is absent or the stored blob is corrupted; parse failures are
	// discarded, never propagated.
	Load(key string, dest any) (bool, error)

	// Save serializes and writes the value. Write failures surface to the
	// caller; callers must not assume success.
	Save(key string, value any) error

	// Clear removes the key. Missing keys are not an error.
	Clear(key string) error
}
