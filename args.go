package stage

// ArgsKind tags the variant held by Args.
type ArgsKind uint8

const (
	ArgsPositional ArgsKind = iota
	ArgsNamed
)

// Args is the argument list bound to a Callback: either positional values
// or named values, never both.
type Args struct {
	kind  ArgsKind
	vals  []any
	named map[string]any
}

// Positional returns positional arguments.
func Positional(vals ...any) Args {
	return Args{kind: ArgsPositional, vals: vals}
}

// Named returns named arguments.
func Named(vals map[string]any) Args {
	return Args{kind: ArgsNamed, named: vals}
}

// Kind reports which variant a holds.
func (a Args) Kind() ArgsKind { return a.kind }

// Values returns the positional values.
func (a Args) Values() []any { return a.vals }

// NamedValues returns the named values.
func (a Args) NamedValues() map[string]any { return a.named }

// Callback is a function bound to its arguments. Exactly one of Fn and
// NamedFn is used, chosen by the kind of Args.
type Callback struct {
	Fn      func(args ...any)
	NamedFn func(args map[string]any)
	Args    Args
}

// Call binds fn to positional arguments.
func Call(fn func(args ...any), args ...any) Callback {
	return Callback{Fn: fn, Args: Positional(args...)}
}

// CallNamed binds fn to named arguments.
func CallNamed(fn func(args map[string]any), args map[string]any) Callback {
	return Callback{NamedFn: fn, Args: Named(args)}
}

// Do wraps a function that takes no arguments.
func Do(fn func()) Callback {
	return Callback{Fn: func(...any) { fn() }}
}

// IsZero reports whether no function is set.
func (c Callback) IsZero() bool { return c.Fn == nil && c.NamedFn == nil }

// check panics if the function does not match the argument variant.
func (c Callback) check() {
	if c.IsZero() {
		return
	}
	switch c.Args.kind {
	case ArgsPositional:
		if c.Fn == nil {
			panic("stage: positional arguments bound to a callback without Fn")
		}
	case ArgsNamed:
		if c.NamedFn == nil {
			panic("stage: named arguments bound to a callback without NamedFn")
		}
	}
}

// Invoke calls the function with its bound arguments. A zero Callback is a
// no-op.
func (c Callback) Invoke() {
	if c.IsZero() {
		return
	}
	c.check()
	if c.Args.kind == ArgsNamed {
		c.NamedFn(c.Args.named)
		return
	}
	c.Fn(c.Args.vals...)
}

// Sequence returns a callback that invokes each of cbs in order.
func Sequence(cbs ...Callback) Callback {
	for _, cb := range cbs {
		cb.check()
	}
	return Do(func() {
		for _, cb := range cbs {
			cb.Invoke()
		}
	})
}
