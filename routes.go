package session

import (
	"sort"
	"strings"
	"sync"
)

// RouteTable holds the statically declared RouteAuthRequirement per
// navigable path. Resolving a target path yields the chain of matched
// segments, shallowest first, which is what the pipeline merges and
// evaluates. Requirements are read-only at navigation time.
type RouteTable struct {
	mu      sync.RWMutex
	entries map[string]*RouteAuthRequirement
}

// NewRouteTable returns an empty table.
func NewRouteTable() *RouteTable {
	return &RouteTable{
		entries: make(map[string]*RouteAuthRequirement),
	}
}

// Register declares the requirement for a path. Registering the same path
// twice replaces the previous requirement.
func (t *RouteTable) Register(path string, auth *RouteAuthRequirement) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[normalizePath(path)] = auth
}

// Resolve builds the Location for a target path: every registered ancestor
// segment of the path, plus the path itself when registered, ordered from
// shallowest to deepest.
func (t *RouteTable) Resolve(path string) *Location {
	target := normalizePath(path)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var matched []RouteSegment
	for registered, auth := range t.entries {
		if segmentMatches(registered, target) {
			matched = append(matched, RouteSegment{Path: registered, Auth: auth})
		}
	}

	sort.Slice(matched, func(a, b int) bool {
		return segmentDepth(matched[a].Path) < segmentDepth(matched[b].Path)
	})

	return &Location{Path: target, Matched: matched}
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// segmentMatches reports whether the registered path is the target or one
// of its ancestors on a segment boundary, so "/admin" matches "/admin/x"
// but never "/administrator".
func segmentMatches(registered, target string) bool {
	if registered == "/" {
		return true
	}
	if registered == target {
		return true
	}
	return strings.HasPrefix(target, registered+"/")
}

func segmentDepth(path string) int {
	if path == "/" {
		return 0
	}
	return strings.Count(path, "/")
}
