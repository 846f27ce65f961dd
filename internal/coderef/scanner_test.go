package coderef

import (
	"reflect"
	"testing"
)

func TestLastIndexOutside(t *testing.T) {
	tests := []struct {
		text   string
		sep    byte
		want   int
		wantOK bool
	}{
		{"Foo.Bar.Baz", '.', 7, true},
		{"Foo{A.B}", '.', -1, true},
		{"Foo{A.B}.Baz", '.', 8, true},
		{"Foo{A.B", '.', -1, false},
		{"Foo}.B", '.', 4, false},
		{"", '.', -1, true},
		{"Foo{[}].Bar", '.', 7, false},
		{"Foo{A[]}.Bar", '.', 8, true},
		{"Foo(A<B)>.Bar", '.', 9, false},
	}
	for _, tt := range tests {
		got, ok := lastIndexOutside(tt.text, tt.sep)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("lastIndexOutside(%q) = %d, %v, want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSplitOutside(t *testing.T) {
	tests := []struct {
		text   string
		want   []string
		wantOK bool
	}{
		{"A,B", []string{"A", "B"}, true},
		{"D{A,B},C", []string{"D{A,B}", "C"}, true},
		{"A[,],B", []string{"A[,]", "B"}, true},
		{",", []string{"", ""}, true},
		{"A", []string{"A"}, true},
		{"D{A,B", []string{"D{A,B"}, false},
		{"D{A[,}]", []string{"D{A[,}]"}, false},
		{"A[B{,}]", []string{"A[B{,}]"}, true},
	}
	for _, tt := range tests {
		got, ok := splitOutside(tt.text, ',')
		if !reflect.DeepEqual(got, tt.want) || ok != tt.wantOK {
			t.Errorf("splitOutside(%q) = %q, %v, want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMatchingOpen(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Bar``1{A}", 6},
		{"Bar``1{A{B}}", 6},
		{"Bar", -1},
		{"A}", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := matchingOpen(tt.text, '{', '}'); got != tt.want {
			t.Errorf("matchingOpen(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
