package eventstore

import (
	"slices"
)

// Matches reports whether an event with the given type and top-level payload fields is selected by the Filter.
//
// Engines that cannot push the Filter down into a query language (e.g. the in-memory engine) use it.
// Only string payload values can satisfy a predicate, which mirrors the JSON containment semantics
// of the SQL engines.
func (f Filter) Matches(eventType FilterEventTypeString, payload map[string]any) bool {
	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.matches(eventType, payload) {
			return true
		}
	}

	return false
}

func (fi FilterItem) matches(eventType FilterEventTypeString, payload map[string]any) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	matchesPredicate := func(p FilterPredicate) bool {
		val, ok := payload[p.key].(string)
		return ok && val == p.val
	}

	if fi.allPredicatesMustMatch {
		for _, p := range fi.predicates {
			if !matchesPredicate(p) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(fi.predicates, matchesPredicate)
}
