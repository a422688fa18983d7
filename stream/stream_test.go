package stream

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/streamkit/errors"
)

func TestScenario_MapFilterCollect(t *testing.T) {
	got := Arithmetic(0, 10, 1).Stream().
		Map(func(v int) int { return v * v }).
		Filter(func(v int) bool { return v%2 == 1 }).
		Collect()
	if diff := cmp.Diff([]int{1, 9, 25, 49, 81}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario_FindFirst(t *testing.T) {
	peek, pulled := counter[int]()
	v, ok := Arithmetic(0, 30, 1).Stream().
		Peek(peek).
		FindFirst(func(v int) bool { return v > 20 })
	if !ok || v != 21 {
		t.Fatalf("got (%d, %v), want (21, true)", v, ok)
	}
	if *pulled != 22 {
		t.Errorf("expected FindFirst to stop after 22 values, pulled %d", *pulled)
	}
}

func TestScenario_SortByModulus(t *testing.T) {
	got := Arithmetic(25, 4, -7).Stream().
		Sort(func(a, b int) bool { return a%17 < b%17 }).
		Collect()
	if diff := cmp.Diff([]int{18, 25, 11}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestScenario_ReduceMax(t *testing.T) {
	v, ok := ArithmeticWhile(0, func(v int) bool { return v < 17 }, 5).Stream().
		Reduce(func(acc, v int) int { return max(acc, v) })
	if !ok || v != 15 {
		t.Fatalf("got (%d, %v), want (15, true)", v, ok)
	}
}

func TestCollect_Identity(t *testing.T) {
	in := []string{"x", "y", "z"}
	if diff := cmp.Diff(in, FromSlice(in).Collect()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_Empty(t *testing.T) {
	got := Of[int]().Collect()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	got := Of(5, 2, 8, 1, 9, 4).Filter(func(v int) bool { return v > 3 }).Collect()
	if diff := cmp.Diff([]int{5, 8, 9, 4}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_Composition(t *testing.T) {
	f := func(v int) int { return v + 3 }
	g := func(v int) int { return v * 2 }

	chained := Arithmetic(0, 20, 1).Stream().Map(f).Map(g).Collect()
	composed := Arithmetic(0, 20, 1).Stream().Map(func(v int) int { return g(f(v)) }).Collect()
	if diff := cmp.Diff(composed, chained); diff != "" {
		t.Errorf("Map(f).Map(g) != Map(g∘f) (-composed +chained):\n%s", diff)
	}
}

func TestFlatMap(t *testing.T) {
	got := Of(1, 2, 3).FlatMap(func(v int) []int {
		out := make([]int, v)
		for i := range out {
			out[i] = v
		}
		return out
	}).Collect()
	if diff := cmp.Diff([]int{1, 2, 2, 3, 3, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatMap_StopsInsideExpansion(t *testing.T) {
	got := Of(10, 20).FlatMap(func(v int) []int { return []int{v, v + 1, v + 2} }).Limit(4).Collect()
	if diff := cmp.Diff([]int{10, 11, 12, 20}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPeek(t *testing.T) {
	var seen []int
	got := Of(1, 2, 3).Peek(func(v int) { seen = append(seen, v) }).Map(func(v int) int { return -v }).Collect()
	if diff := cmp.Diff([]int{1, 2, 3}, seen); diff != "" {
		t.Errorf("peeked values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{-1, -2, -3}, got); diff != "" {
		t.Errorf("collected values mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_StableAndIdempotent(t *testing.T) {
	type item struct {
		Key  int
		Name string
	}
	in := []item{{2, "a"}, {1, "b"}, {2, "c"}, {1, "d"}, {0, "e"}}
	less := func(a, b item) bool { return a.Key < b.Key }

	once := FromSlice(in).Sort(less).Collect()
	want := []item{{0, "e"}, {1, "b"}, {1, "d"}, {2, "a"}, {2, "c"}}
	if diff := cmp.Diff(want, once); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	twice := FromSlice(in).Sort(less).Sort(less).Collect()
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second sort changed the result (-once +twice):\n%s", diff)
	}
}

func TestSorted(t *testing.T) {
	got := Sorted(Of("pear", "apple", "fig")).Collect()
	if diff := cmp.Diff([]string{"apple", "fig", "pear"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_AfterLimitOnInfiniteRange(t *testing.T) {
	got := naturals().Stream().Limit(5).Sort(func(a, b int) bool { return a > b }).Collect()
	if diff := cmp.Diff([]int{4, 3, 2, 1, 0}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSort_ThenLimit(t *testing.T) {
	got := Arithmetic(0, 10, 1).Stream().Sort(func(a, b int) bool { return a > b }).Limit(3).Collect()
	if diff := cmp.Diff([]int{9, 8, 7}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLimit_InfiniteRange(t *testing.T) {
	peek, pulled := counter[int]()
	got := naturals().Stream().Peek(peek).Limit(5).Collect()
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if *pulled != 5 {
		t.Errorf("expected exactly 5 pulls, got %d", *pulled)
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"zero", 0, []int{}},
		{"fewer than available", 2, []int{1, 2}},
		{"more than available", 10, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peek, pulled := counter[int]()
			got := Of(1, 2, 3).Peek(peek).Limit(tt.n).Collect()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if *pulled != len(tt.want) {
				t.Errorf("expected %d pulls, got %d", len(tt.want), *pulled)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"zero is identity", 0, []int{1, 2, 3, 4}},
		{"some", 2, []int{3, 4}},
		{"all", 4, []int{}},
		{"more than available", 9, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Of(1, 2, 3, 4).Skip(tt.n).Collect()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSkipThenLimit(t *testing.T) {
	got := naturals().Stream().Skip(10).Limit(3).Collect()
	if diff := cmp.Diff([]int{10, 11, 12}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinct(t *testing.T) {
	got := Distinct(Of(3, 1, 3, 2, 1, 3)).Collect()
	if diff := cmp.Diff([]int{3, 1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctBy(t *testing.T) {
	got := DistinctBy(Of("Go", "go", "Rust", "GO", "rust"), strings.ToLower).Collect()
	if diff := cmp.Diff([]string{"Go", "Rust"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctFunc(t *testing.T) {
	// Every value hashes alike, so equality alone decides.
	got := Of([]int{1, 2}, []int{2}, []int{1, 2}, []int{}).DistinctFunc(
		func([]int) uint64 { return 7 },
		func(a, b []int) bool { return cmp.Equal(a, b) },
	).Collect()
	want := [][]int{{1, 2}, {2}, {}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFirst_NotFound(t *testing.T) {
	v, ok := Of(1, 2, 3).FindFirst(func(v int) bool { return v > 5 })
	if ok || v != 0 {
		t.Errorf("got (%d, %v), want (0, false)", v, ok)
	}
}

func TestReduce_Empty(t *testing.T) {
	_, ok := Of[int]().Reduce(func(a, b int) int { return a + b })
	if ok {
		t.Error("expected no result for an empty stream")
	}
}

func TestFold(t *testing.T) {
	got := Fold(Of("a", "bb", "ccc"), 0, func(acc int, s string) int { return acc + len(s) })
	if got != 6 {
		t.Errorf("got %d, want 6", got)
	}
}

func TestForEach(t *testing.T) {
	var sb strings.Builder
	Of("a", "b", "c").ForEach(func(s string) { sb.WriteString(s) })
	if sb.String() != "abc" {
		t.Errorf("got %q, want abc", sb.String())
	}
}

func TestCount_KnownSizeDoesNotPull(t *testing.T) {
	peek, pulled := counter[int]()
	n := Of(1, 2, 3, 4, 5).Peek(peek).Count()
	if n != 5 {
		t.Errorf("got %d, want 5", n)
	}
	if *pulled != 0 {
		t.Errorf("expected no pulls with a known size, got %d", *pulled)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		s    *Stream[int]
		want int
	}{
		{"empty", Of[int](), 0},
		{"filtered", Of(1, 2, 3, 4, 5).Filter(func(v int) bool { return v%2 == 0 }), 2},
		{"limited", Of(1, 2, 3, 4, 5).Limit(3), 3},
		{"skipped", Of(1, 2, 3, 4, 5).Skip(2), 3},
		{"generative", Arithmetic(0, 7, 1).Stream(), 7},
		{"infinite limited", naturals().Stream().Limit(4), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Count(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatchTerminals(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }

	if !Of(1, 2, 3).AnyMatch(even) {
		t.Error("AnyMatch: expected true")
	}
	if Of(1, 3).AnyMatch(even) {
		t.Error("AnyMatch: expected false")
	}
	if !Of(2, 4).AllMatch(even) {
		t.Error("AllMatch: expected true")
	}
	if Of(2, 3).AllMatch(even) {
		t.Error("AllMatch: expected false")
	}
	if !Of(1, 3).NoneMatch(even) {
		t.Error("NoneMatch: expected true")
	}
	if Of(1, 2).NoneMatch(even) {
		t.Error("NoneMatch: expected false")
	}
	if !Of[int]().AllMatch(even) || !Of[int]().NoneMatch(even) || Of[int]().AnyMatch(even) {
		t.Error("empty stream: expected AllMatch and NoneMatch true, AnyMatch false")
	}
}

func TestAnyMatch_StopsEarly(t *testing.T) {
	peek, pulled := counter[int]()
	if !naturals().Stream().Peek(peek).AnyMatch(func(v int) bool { return v == 3 }) {
		t.Fatal("expected a match")
	}
	if *pulled != 4 {
		t.Errorf("expected 4 pulls, got %d", *pulled)
	}
}

// --- Protocol ---

func TestProtocol_SizeHints(t *testing.T) {
	tests := []struct {
		name string
		s    *Stream[int]
		want string
	}{
		{"slice", Of(1, 2, 3, 4), "pre:4"},
		{"step range", Arithmetic(0, 4, 1).Stream(), "pre:0"},
		{"map keeps hint", Of(1, 2, 3, 4).Map(func(v int) int { return v }), "pre:4"},
		{"filter clears hint", Of(1, 2, 3, 4).Filter(func(int) bool { return true }), "pre:0"},
		{"flat map clears hint", Of(1, 2).FlatMap(func(v int) []int { return []int{v} }), "pre:0"},
		{"limit caps hint", Of(1, 2, 3, 4).Limit(2), "pre:2"},
		{"skip lowers hint", Of(1, 2, 3, 4).Skip(1), "pre:3"},
		{"skip past size", Of(1, 2).Skip(5), "pre:0"},
		{"distinct clears hint", Distinct(Of(1, 2, 3, 4)), "pre:0"},
		{"sort reports buffer", Of(1, 2, 3, 4).Filter(func(v int) bool { return v > 1 }).Sort(func(a, b int) bool { return a < b }), "pre:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := record(tt.s, 0)
			if events[0] != tt.want {
				t.Errorf("got %s, want %s (events %v)", events[0], tt.want, events)
			}
		})
	}
}

func TestProtocol_PostAfterCancellation(t *testing.T) {
	got := record(Of(1, 2, 3, 4, 5), 2)
	want := []string{"pre:5", "accept:1", "accept:2", "post"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestProtocol_SortFlushesOnPost(t *testing.T) {
	got := record(Of(3, 1, 2).Sort(func(a, b int) bool { return a < b }), 2)
	want := []string{"pre:3", "accept:1", "accept:2", "post"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestProtocol_EmptyRange(t *testing.T) {
	got := record(Of[int](), 0)
	if diff := cmp.Diff([]string{"pre:0", "post"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestChain_LinksByIndex(t *testing.T) {
	s := Of(1, 2).Map(func(v int) int { return v }).Filter(func(int) bool { return true })
	seg := s.seg
	seg.open(&collectSink[int]{})

	for i, st := range seg.chain.stages {
		l := st.stage()
		if l.chain != seg.chain || l.at != i {
			t.Errorf("stage %d (%s) linked to index %d", i, st.kind(), l.at)
		}
	}
	want := []string{"head", "map", "filter", "collect"}
	if diff := cmp.Diff(want, seg.stages()); diff != "" {
		t.Errorf("stage kinds mismatch (-want +got):\n%s", diff)
	}
}

// --- Misuse ---

func TestSingleUse(t *testing.T) {
	t.Run("terminal twice", func(t *testing.T) {
		s := Of(1, 2)
		s.Collect()
		expectPanicCode(t, errors.ErrCodeStreamConsumed, func() { s.Collect() })
	})
	t.Run("fluent after fluent", func(t *testing.T) {
		s := Of(1, 2)
		_ = s.Map(func(v int) int { return v })
		expectPanicCode(t, errors.ErrCodeStreamConsumed, func() { s.Filter(func(int) bool { return true }) })
	})
	t.Run("after cast", func(t *testing.T) {
		s := Of(1, 2)
		_ = MapTo(s, func(v int) string { return "" })
		expectPanicCode(t, errors.ErrCodeStreamConsumed, func() { s.Count() })
	})
	t.Run("after iter", func(t *testing.T) {
		s := Of(1, 2)
		_ = s.Iter()
		expectPanicCode(t, errors.ErrCodeStreamConsumed, func() { s.All() })
	})
	t.Run("package function", func(t *testing.T) {
		s := Of(1, 2)
		s.Count()
		expectPanicCode(t, errors.ErrCodeStreamConsumed, func() { Distinct(s) })
	})
}

func TestInvalidStages(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil range", func() { From[int](nil) }},
		{"nil stream", func() { (*Stream[int])(nil).Collect() }},
		{"nil map", func() { Of(1).Map(nil) }},
		{"nil flat map", func() { Of(1).FlatMap(nil) }},
		{"nil filter", func() { Of(1).Filter(nil) }},
		{"nil peek", func() { Of(1).Peek(nil) }},
		{"nil sort", func() { Of(1).Sort(nil) }},
		{"negative limit", func() { Of(1).Limit(-1) }},
		{"negative skip", func() { Of(1).Skip(-2) }},
		{"nil hash", func() { Of(1).DistinctFunc(nil, func(a, b int) bool { return a == b }) }},
		{"nil key", func() { DistinctBy[int, int](Of(1), nil) }},
		{"nil reduce", func() { Of(1).Reduce(nil) }},
		{"nil fold", func() { Fold[int, int](Of(1), 0, nil) }},
		{"nil for each", func() { Of(1).ForEach(nil) }},
		{"nil predicate", func() { Of(1).FindFirst(nil) }},
		{"nil map to", func() { MapTo[int, string](Of(1), nil) }},
		{"nil flat map to", func() { FlatMapTo[int, string](Of(1), nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectPanicCode(t, errors.ErrCodeInvalidStage, tt.fn)
		})
	}
}

func TestInvalidStage_LeavesStreamUsable(t *testing.T) {
	s := Of(1, 2, 3)
	expectPanicCode(t, errors.ErrCodeInvalidStage, func() { s.Limit(-1) })
	if got := s.Count(); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestReserve(t *testing.T) {
	tests := []struct {
		hint, limit, want int
	}{
		{0, 10, 0},
		{-3, 10, 0},
		{5, 10, 5},
		{50, 10, 10},
		{50, 0, 50},
	}
	for _, tt := range tests {
		if got := reserve(tt.hint, tt.limit); got != tt.want {
			t.Errorf("reserve(%d, %d) = %d, want %d", tt.hint, tt.limit, got, tt.want)
		}
	}
}

func TestCollect_ReserveLimitCapsCapacity(t *testing.T) {
	in := make([]int, 100)
	sink := &collectSink[int]{limit: 8}
	FromSlice(in, WithReserveLimit(8)).Limit(0).evaluate("Collect", sink)
	if cap(sink.values) != 0 {
		t.Errorf("expected no reservation for a zero limit, got cap %d", cap(sink.values))
	}

	sink = &collectSink[int]{limit: 8}
	sink.Pre(100)
	if cap(sink.values) != 8 {
		t.Errorf("expected capacity capped at 8, got %d", cap(sink.values))
	}
}
