// Package query provides the address-bar port: read and rewrite the query
// string of the current location.
package query

import (
	"net/http"
	"net/url"
	"sync"
)

// Params reads and rewrites query parameters of a location.
type Params interface {
	// Values returns a copy of the current query parameters.
	Values() url.Values
	// Replace swaps the query string without adding a history entry.
	Replace(values url.Values)
}

// Location is an in-memory address bar. It tracks how many history entries
// navigation produced so callers can assert Replace never adds one.
type Location struct {
	mu      sync.RWMutex
	current url.URL
	history []string
}

// NewLocation returns a Location positioned at u.
func NewLocation(u url.URL) *Location {
	return &Location{current: u, history: []string{u.String()}}
}

// Parse returns a Location positioned at raw.
func Parse(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return NewLocation(*u), nil
}

func (l *Location) Values() url.Values {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current.Query()
}

func (l *Location) Replace(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current.RawQuery = values.Encode()
	l.history[len(l.history)-1] = l.current.String()
}

// Push navigates to values adding a new history entry.
func (l *Location) Push(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current.RawQuery = values.Encode()
	l.history = append(l.history, l.current.String())
}

// String returns the current address.
func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current.String()
}

// History returns the visited addresses, oldest first.
func (l *Location) History() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.history))
	copy(out, l.history)
	return out
}

// RequestParams adapts an incoming request. Rewrites are kept aside so a
// handler can redirect to the canonical address.
type RequestParams struct {
	mu       sync.Mutex
	req      *http.Request
	replaced url.Values
}

// FromRequest wraps r.
func FromRequest(r *http.Request) *RequestParams {
	return &RequestParams{req: r}
}

func (p *RequestParams) Values() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.replaced != nil {
		return cloneValues(p.replaced)
	}
	if p.req == nil || p.req.URL == nil {
		return url.Values{}
	}
	return p.req.URL.Query()
}

func (p *RequestParams) Replace(values url.Values) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replaced = cloneValues(values)
}

// Canonical returns the request URL rewritten with the replaced query, and
// whether it differs from the original request.
func (p *RequestParams) Canonical() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.req == nil || p.req.URL == nil {
		return "", false
	}
	u := *p.req.URL
	if p.replaced == nil {
		return u.String(), false
	}
	u.RawQuery = p.replaced.Encode()
	return u.String(), u.RawQuery != p.req.URL.Query().Encode()
}

// First returns the first value per key, the shape filter sets are read in.
func First(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for key, list := range values {
		if len(list) == 0 {
			continue
		}
		out[key] = list[0]
	}
	return out
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, list := range values {
		out[key] = append([]string(nil), list...)
	}
	return out
}
