package model

// Fallback texts used when the document lacks a field.
const (
	// NoTitle replaces a missing or non-string pod title.
	NoTitle = "No title"

	// NoPlaintext replaces a missing or non-string subpod plaintext.
	NoPlaintext = "No plaintext"
)

// Document is a decoded API response.
type Document struct {
	// QueryResult is the "queryresult" object. It is the zero value when absent.
	QueryResult QueryResult
}

// QueryResult is the top-level result object.
type QueryResult struct {
	// NumPods is the declared pod count; 0 when absent or not a non-negative integer.
	NumPods uint64

	// Pods holds every element of the "pods" array, in document order.
	// Its length may differ from NumPods.
	Pods []Pod

	// Success is the "success" flag, nil when absent.
	Success *bool

	// Error is the API error object, nil when absent or false.
	Error *APIError

	// Timing is the server-side computation time in seconds, 0 when absent.
	Timing float64

	// DataTypes lists the recognized input categories, comma separated.
	DataTypes string
}

// APIError is the error object the API returns instead of results,
// e.g. for an invalid appid.
type APIError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Pod is a titled section of the result.
type Pod struct {
	// Title is nil when the pod has no string title.
	Title *string

	// ID is the machine-readable pod identifier, e.g. "Result".
	ID string

	// Scanner names the API component that produced the pod.
	Scanner string

	// NumSubpods is the declared subpod count.
	NumSubpods uint64

	// Subpods holds every element of the "subpods" array.
	Subpods []Subpod
}

// Subpod is one plaintext rendering inside a pod.
type Subpod struct {
	// Plaintext is nil when the subpod has no string plaintext.
	Plaintext *string

	// Title is the optional subpod title; empty when absent.
	Title string
}

// DisplayTitle returns the pod title or NoTitle.
func (p Pod) DisplayTitle() string {
	if p.Title == nil {
		return NoTitle
	}
	return *p.Title
}

// VisibleSubpods returns the subpods a renderer shows: the first NumSubpods,
// clamped to the subpods actually present.
func (p Pod) VisibleSubpods() []Subpod {
	return p.Subpods[:clamp(p.NumSubpods, len(p.Subpods))]
}

// DisplayPlaintext returns the plaintext or NoPlaintext.
func (s Subpod) DisplayPlaintext() string {
	if s.Plaintext == nil {
		return NoPlaintext
	}
	return *s.Plaintext
}

// Succeeded reports whether the API flagged the query as successful.
// A missing flag counts as success so that partial documents still render.
func (q QueryResult) Succeeded() bool {
	return q.Success == nil || *q.Success
}

// VisiblePods returns at most limit pods out of the first NumPods,
// clamped to the pods actually present. A negative limit means no limit.
func (q QueryResult) VisiblePods(limit int) []Pod {
	n := clamp(q.NumPods, len(q.Pods))
	if limit >= 0 && limit < n {
		n = limit
	}
	return q.Pods[:n]
}

// clamp returns min(declared, actual) as an int.
func clamp(declared uint64, actual int) int {
	if declared < uint64(actual) {
		return int(declared)
	}
	return actual
}
