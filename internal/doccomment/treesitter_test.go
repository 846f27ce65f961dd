//go:build cgo

package doccomment

import (
	"context"
	"testing"
)

func TestParserComments(t *testing.T) {
	source := []byte(`class A
{
    int x; /// <see cref="F:A.x"/>
    /** <see cref="T:A"/> */
    // plain
}
`)
	comments, err := NewParser().Comments(context.Background(), source)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Comments() = %+v, want 2 doc comments", comments)
	}
	if comments[0].Line != 3 || comments[0].Column != 12 {
		t.Errorf("trailing comment at %d:%d, want 3:12", comments[0].Line, comments[0].Column)
	}
	if comments[1].Line != 4 || comments[1].Column != 5 {
		t.Errorf("block comment at %d:%d, want 4:5", comments[1].Line, comments[1].Column)
	}
	if !IsAvailable() {
		t.Error("IsAvailable() should be true with cgo")
	}
}
