package closure

// DefaultCapacity is the number of slots a table starts with.
const DefaultCapacity = 256

type options struct {
	observers []Observer
	capacity  int
}

// Option configures a Table.
type Option func(*options)

// WithInitialCapacity sets the starting number of slots. Values below 1
// are treated as 1.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		o.capacity = max(n, 1)
	}
}

// WithObserver registers an observer for lifecycle events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}
