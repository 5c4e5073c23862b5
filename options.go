package docdb

import "slices"

const (
	// DefaultLimit is used when QueryOptions.Limit is zero.
	DefaultLimit = 100

	// Unlimited as QueryOptions.Limit removes the bound on result count.
	Unlimited = -1
)

// QueryOptions control how many results a query emits and which fields they
// carry. The zero value means DefaultLimit results with all fields.
type QueryOptions struct {
	// Limit bounds the number of emitted (not scanned) documents. Zero means
	// DefaultLimit, any negative value means no bound.
	Limit int

	// Columns restricts each result to these keys; empty means all keys.
	Columns []string
}

func (qo QueryOptions) WithLimit(n int) QueryOptions {
	qo.Limit = n
	return qo
}

func (qo QueryOptions) Unbounded() QueryOptions {
	qo.Limit = Unlimited
	return qo
}

func (qo QueryOptions) WithColumns(keys ...string) QueryOptions {
	qo.Columns = slices.Clone(keys)
	return qo
}

// EffectiveLimit returns the bound applied to a scan, or -1 for none.
func (qo QueryOptions) EffectiveLimit() int {
	switch {
	case qo.Limit == 0:
		return DefaultLimit
	case qo.Limit < 0:
		return Unlimited
	default:
		return qo.Limit
	}
}
