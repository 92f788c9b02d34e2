package metric

import "sync"

// OtherRoute replaces route values seen after the route limit is reached.
const OtherRoute = "other"

// OtherMethod replaces request methods outside the standard set.
const OtherMethod = "OTHER"

// routeSet admits at most max distinct route label values.
// A max of zero or less admits everything.
type routeSet struct {
	mu   sync.RWMutex
	max  int
	seen map[string]struct{}
}

func newRouteSet(max int) *routeSet {
	return &routeSet{
		max:  max,
		seen: make(map[string]struct{}),
	}
}

// bound returns route if it is already known or there is room for it,
// OtherRoute otherwise.
func (s *routeSet) bound(route string) string {
	if s.max <= 0 {
		return route
	}

	s.mu.RLock()
	_, ok := s.seen[route]
	n := len(s.seen)
	s.mu.RUnlock()
	if ok {
		return route
	}
	if n >= s.max {
		return OtherRoute
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[route]; ok {
		return route
	}
	if len(s.seen) >= s.max {
		return OtherRoute
	}
	s.seen[route] = struct{}{}
	return route
}

// size returns the number of admitted routes.
func (s *routeSet) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// normalizeMethod maps arbitrary client methods onto a fixed set.
func normalizeMethod(m string) string {
	switch m {
	case "GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "CONNECT", "TRACE":
		return m
	default:
		return OtherMethod
	}
}
