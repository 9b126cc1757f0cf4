package stats

// Kind distinguishes the outcomes of a stats lookup.
type Kind int

const (
	Success Kind = iota
	NotFound
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NotFound:
		return "not_found"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of one lookup. Durations is only meaningful for
// Success; Err records why a lookup was Unavailable.
type Result struct {
	Kind      Kind
	Durations DurationMap
	Err       error
}

// Found wraps a duration map in a Success result.
func Found(d DurationMap) Result {
	return Result{Kind: Success, Durations: d}
}

// Usable reports whether the result carries history worth balancing on.
func (r Result) Usable() bool {
	return r.Kind == Success && len(r.Durations) > 0
}
