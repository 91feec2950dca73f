package host

import "github.com/cPlayIt/motoko/closure"

type options struct {
	table       *closure.Table[uint32]
	moduleName  string
	closureOpts []closure.Option
}

// Option configures a Module.
type Option func(*options)

// WithModuleName sets the name guests import the runtime from.
func WithModuleName(name string) Option {
	return func(o *options) {
		o.moduleName = name
	}
}

// WithTable makes the module share an existing closure table.
func WithTable(t *closure.Table[uint32]) Option {
	return func(o *options) {
		o.table = t
	}
}

// WithClosureOptions configures the table the module creates for itself.
// Ignored when WithTable is given.
func WithClosureOptions(opts ...closure.Option) Option {
	return func(o *options) {
		o.closureOpts = append(o.closureOpts, opts...)
	}
}
