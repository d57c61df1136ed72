package convert

import (
	"github.com/creamcroissant/subconv/internal/protocol"
)

// Outcome is the result of one input line. Exactly one of Proxy and Err is
// set.
type Outcome struct {
	Original string
	Proxy    *protocol.Proxy
	Err      error
}

// Success reports whether the line produced a proxy.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// Reason is the failure message of the line, or "" on success.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Report is the result of one conversion batch.
type Report struct {
	// Outcomes holds one entry per non-blank input line, in input order.
	Outcomes []Outcome
	// Document is the rendered YAML of every successful proxy, or "" when
	// there are none.
	Document string
}

// Succeeded counts successful outcomes.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success() {
			n++
		}
	}
	return n
}

// Failed counts failed outcomes.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Proxies returns the successful proxies in input order.
func (r *Report) Proxies() []protocol.Proxy {
	proxies := make([]protocol.Proxy, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Success() {
			proxies = append(proxies, *o.Proxy)
		}
	}
	return proxies
}

// Status classifies the batch as a whole.
func (r *Report) Status() Status {
	switch {
	case len(r.Outcomes) == 0:
		return StatusEmpty
	case r.Succeeded() == 0:
		return StatusAllFailed
	default:
		return StatusOK
	}
}

// Status is the batch level result of a conversion.
type Status int

const (
	StatusOK Status = iota
	// StatusEmpty means the input held no non-blank line.
	StatusEmpty
	// StatusAllFailed means every line failed.
	StatusAllFailed
)

// String returns the machine readable name used by the API.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusAllFailed:
		return "all_failed"
	default:
		return "unknown"
	}
}

// Message is the user facing text for the status, "" for StatusOK.
func (s Status) Message() string {
	switch s {
	case StatusEmpty:
		return "Input cannot be empty."
	case StatusAllFailed:
		return "No valid configurations found. Check the log for details."
	default:
		return ""
	}
}
