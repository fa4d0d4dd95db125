package query

import (
	"fmt"

	"dario.cat/mergo"
)

// WithDefaults fills the members params leaves unset from defaults. A
// pagination or sort set by the caller is kept whole; filters merge key by
// key. Neither argument is modified.
func WithDefaults(params, defaults *Params) (*Params, error) {
	out := params.Clone()
	if out == nil {
		out = &Params{}
	}
	if defaults == nil {
		return out, nil
	}
	if err := mergo.Merge(out, defaults.Clone(), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("merge query defaults: %w", err)
	}
	return out, nil
}
