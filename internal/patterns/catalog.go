package patterns

// catalogBuilders accumulates every catalog_*.go file's contribution to the
// built-in pattern set. Each file registers itself via registerCatalog in its
// own init(), wiring up independently defined units into one place without a
// central, ever-growing switch statement.
var catalogBuilders []func(*Bank) error

func registerCatalog(f func(*Bank) error) {
	catalogBuilders = append(catalogBuilders, f)
}

// Default builds and returns the Bank containing the full built-in catalogue.
// Compile failures are fatal; the caller should treat a non-nil error as
// unrecoverable.
func Default() (*Bank, error) {
	return DefaultWithOverlay("")
}

// DefaultWithOverlay builds the built-in catalogue and, if overlayPath is
// non-empty, layers an operator-supplied YAML overlay on top before the bank
// is built, so overlay patterns participate in the prefilter automaton too.
func DefaultWithOverlay(overlayPath string) (*Bank, error) {
	b := NewBank()
	for _, f := range catalogBuilders {
		if err := f(b); err != nil {
			return nil, err
		}
	}
	if overlayPath != "" {
		if _, err := LoadOverlay(b, overlayPath); err != nil {
			return nil, err
		}
	}
	if err := b.Build(); err != nil {
		return nil, err
	}
	return b, nil
}
