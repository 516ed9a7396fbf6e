package utils

import (
	"reflect"
	"testing"
)

func TestSplitIDList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a|b|c", []string{"a", "b", "c"}},
		{" a | b ", []string{"a", "b"}},
		{"a||b", []string{"a", "b"}},
		{"a|a|b", []string{"a", "b"}},
	}
	for _, tc := range cases {
		if got := SplitIDList(tc.in, "|"); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitIDList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIntersect(t *testing.T) {
	got := Intersect([]string{"a", "b", "c"}, []string{"c", "a"})
	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("intersection must keep first-argument order, got %v", got)
	}
	if got := Intersect([]string{"a"}, []string{"b"}); got == nil || len(got) != 0 {
		t.Fatalf("disjoint sets must intersect to an empty non-nil slice, got %#v", got)
	}
	if got := Intersect(nil, []string{"a"}); got == nil || len(got) != 0 {
		t.Fatalf("nil input must intersect to an empty non-nil slice, got %#v", got)
	}
}

func TestUnion(t *testing.T) {
	got := Union([]string{"a", "b"}, []string{"b", "c"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("union must be ordered and deduplicated, got %v", got)
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestContains(t *testing.T) {
	if !Contains([]string{"a", "b"}, "b") {
		t.Fatalf("expected b to be found")
	}
	if Contains(nil, "a") {
		t.Fatalf("nil slice contains nothing")
	}
}
