package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/lending-policy-engine/eventstore"
)

//nolint:funlen
func Test_FilterBuilder_Combinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching any event creates an empty filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
			},
		},
		{
			name: "event types are sanitized",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("B", "", "A", "B").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"A", "B"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "partial and duplicate predicates are dropped",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("A").
					AndAnyPredicateOf(
						eventstore.P("ReaderID", "r1"),
						eventstore.P("LibrarianID", ""),
						eventstore.P("", "x"),
						eventstore.P("ReaderID", "r1"),
						eventstore.P("BookID", "b1"),
					).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				predicates := f.Items()[0].Predicates()
				assert.Len(t, predicates, 2)
				assert.Equal(t, "BookID", predicates[0].Key())
				assert.Equal(t, "ReaderID", predicates[1].Key())
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "all predicates must match",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("ReaderID", "r1"), eventstore.P("BookID", "b1")).
					AndAnyEventTypeOf("A").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t, []string{"A"}, f.Items()[0].EventTypes())
			},
		},
		{
			name: "or matching creates multiple items",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("Catalog1", "Catalog2").
					OrMatching().
					AnyEventTypeOf("Lending").
					AndAnyPredicateOf(eventstore.P("ReaderID", "r1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"Catalog1", "Catalog2", "Lending"}, f.EventTypes())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.validate(t, tc.build())
		})
	}
}

func Test_FilterBuilder_StepsDoNotShareState(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("A")

	// act
	first := base.AndAnyPredicateOf(eventstore.P("ReaderID", "r1")).Finalize()
	second := base.AndAnyPredicateOf(eventstore.P("ReaderID", "r2")).Finalize()

	// assert
	assert.Equal(t, "r1", first.Items()[0].Predicates()[0].Val())
	assert.Equal(t, "r2", second.Items()[0].Predicates()[0].Val())
}

//nolint:funlen
func Test_Filter_Matches(t *testing.T) {
	lendingFilter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("Catalog").
		OrMatching().
		AnyEventTypeOf("Lent", "Returned").
		AndAnyPredicateOf(eventstore.P("ReaderID", "r1"), eventstore.P("BookID", "b1")).
		Finalize()

	allOfFilter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("Lent").
		AndAllPredicatesOf(eventstore.P("ReaderID", "r1"), eventstore.P("BookID", "b1")).
		Finalize()

	tests := []struct {
		name      string
		filter    eventstore.Filter
		eventType string
		payload   map[string]any
		expected  bool
	}{
		{"empty filter matches anything", eventstore.BuildEventFilter().MatchingAnyEvent(), "X", nil, true},
		{"type only item", lendingFilter, "Catalog", map[string]any{}, true},
		{"type and first predicate", lendingFilter, "Lent", map[string]any{"ReaderID": "r1"}, true},
		{"type and second predicate", lendingFilter, "Returned", map[string]any{"BookID": "b1", "ReaderID": "r9"}, true},
		{"type without predicate", lendingFilter, "Lent", map[string]any{"ReaderID": "r2"}, false},
		{"unknown type", lendingFilter, "Other", map[string]any{"ReaderID": "r1"}, false},
		{"non string value never matches", lendingFilter, "Lent", map[string]any{"ReaderID": 1}, false},
		{"all predicates present", allOfFilter, "Lent", map[string]any{"ReaderID": "r1", "BookID": "b1"}, true},
		{"one predicate missing", allOfFilter, "Lent", map[string]any{"ReaderID": "r1"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(tc.eventType, tc.payload))
		})
	}
}
