package report

// View selects how many pods are rendered.
type View int

const (
	// Full renders all pods the document declares.
	Full View = iota
	// Summary renders at most SummaryPodLimit pods.
	Summary
)

// SummaryPodLimit is the number of pods shown in the Summary view.
// The first two pods are normally "Input interpretation" and "Result".
const SummaryPodLimit = 2

// String returns the lower-case name of the view.
func (v View) String() string {
	switch v {
	case Full:
		return "full"
	case Summary:
		return "summary"
	default:
		return "unknown"
	}
}

// podLimit returns the pod cap for the view; -1 means uncapped.
func (v View) podLimit() int {
	if v == Summary {
		return SummaryPodLimit
	}
	return -1
}
