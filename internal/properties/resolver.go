package properties

import "fmt"

// Resolver serves configuration values from a bound store, falling back to
// the defaults captured at construction.
type Resolver struct {
	defaults Values
	store    Store
}

// New copies defaults into an owned mapping and binds store. A nil store
// leaves the resolver read-only. Non-scalar default values are dropped.
func New(defaults Values, store Store) *Resolver {
	return &Resolver{
		defaults: cloneValues(defaults, true),
		store:    store,
	}
}

// Bound reports whether a property store was bound at construction.
func (r *Resolver) Bound() bool {
	return r.store != nil
}

// Property returns the value for key, or nil when neither layer holds a
// non-empty value. The error is non-nil only when the bound store failed.
func (r *Resolver) Property(key string) (Value, error) {
	value, _, err := r.Lookup(key)
	return value, err
}

// Lookup resolves key and reports the layer that served it. Protected keys
// never reach the store. Empty store values fall back to the defaults.
func (r *Resolver) Lookup(key string) (Value, Source, error) {
	if !IsProtected(key) && r.Bound() {
		stored, err := r.store.Get(key)
		if err != nil {
			return nil, SourceNone, err
		}
		if !IsEmpty(stored) {
			return stored, SourceStore, nil
		}
	}

	if value, ok := r.defaults[key]; ok {
		return value, SourceDefault, nil
	}
	return nil, SourceNone, nil
}

// Properties returns a fresh merged view: every default, overlaid with the
// non-protected entries of the bound store.
func (r *Resolver) Properties() (Values, error) {
	result := cloneValues(r.defaults, true)
	if !r.Bound() {
		return result, nil
	}

	stored, err := r.store.All()
	if err != nil {
		return nil, err
	}
	for key, value := range cloneValues(stored, false) {
		result[key] = value
	}
	return result, nil
}

// SetProperty writes value to the bound store.
func (r *Resolver) SetProperty(key string, value Value) error {
	if !r.Bound() {
		return fmt.Errorf("set %q: %w", key, ErrUnboundStore)
	}
	if IsProtected(key) {
		return fmt.Errorf("set %q: %w", key, ErrProtectedKey)
	}
	return r.store.Set(key, value)
}

// Defaults returns a copy of the defaults layer, protected keys included.
func (r *Resolver) Defaults() Values {
	return cloneValues(r.defaults, true)
}

// PublicDefaults returns a copy of the defaults layer without protected keys.
func (r *Resolver) PublicDefaults() Values {
	return cloneValues(r.defaults, false)
}

// cloneValues makes a shallow copy of src keeping scalar entries only.
// Protected keys are skipped unless withProtected is set.
func cloneValues(src Values, withProtected bool) Values {
	out := make(Values, len(src))
	for key, value := range src {
		if IsProtected(key) && !withProtected {
			continue
		}
		if !IsScalar(value) {
			continue
		}
		out[key] = value
	}
	return out
}
