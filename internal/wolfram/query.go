package wolfram

import (
	"net/url"
	"strconv"
	"strings"
)

// OutputFormat is the fixed value of the "output" parameter.
const OutputFormat = "json"

// Query holds the parameters of one API request.
type Query struct {
	// Input is the natural-language query, sent verbatim.
	Input string
	// PodState requests an alternate computation, e.g. "Step-by-step solution".
	PodState string
	// Timeout hints in seconds.
	TotalTimeout  uint8
	PodTimeout    uint8
	FormatTimeout uint8
	ParseTimeout  uint8
	ScanTimeout   uint8
	// AppID is the API credential.
	AppID string
	// Reinterpret asks the service to reinterpret ambiguous input.
	Reinterpret bool
}

// Param is a single query-string pair.
type Param struct {
	Key   string
	Value string
}

// Params returns the query-string pairs in the order they are sent.
func (q Query) Params() []Param {
	return []Param{
		{"output", OutputFormat},
		{"input", q.Input},
		{"podstate", q.PodState},
		{"totaltimeout", strconv.Itoa(int(q.TotalTimeout))},
		{"podtimeout", strconv.Itoa(int(q.PodTimeout))},
		{"formattimeout", strconv.Itoa(int(q.FormatTimeout))},
		{"parsetimeout", strconv.Itoa(int(q.ParseTimeout))},
		{"scantimeout", strconv.Itoa(int(q.ScanTimeout))},
		{"appid", q.AppID},
		{"reinterpret", strconv.FormatBool(q.Reinterpret)},
	}
}

// Encode returns the URL-encoded query string.
// Unlike url.Values.Encode it keeps the parameter order of Params.
func (q Query) Encode() string {
	var sb strings.Builder
	for i, p := range q.Params() {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// WithInput returns a copy of q with a different input.
// All other parameters stay unchanged.
func (q Query) WithInput(input string) Query {
	q.Input = input
	return q
}

// WithAppID returns a copy of q with a different credential.
func (q Query) WithAppID(appID string) Query {
	q.AppID = appID
	return q
}
