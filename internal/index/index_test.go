package index_test

import (
	"reflect"
	"testing"

	"github.com/reoring/transitgate/internal/index"
)

func TestIndex(t *testing.T) {
	ix := index.New()
	ix.Add("b", 0)
	ix.Add("a", 1)
	ix.Add("b", 2)
	ix.Add("c", 3)

	if !ix.Has("a") || ix.Has("z") {
		t.Fatal("membership broken")
	}
	if got := ix.Rows("b"); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("rows for b: %v", got)
	}
	if got := ix.Keys(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("keys must stay in first-seen order, got %v", got)
	}
	if ix.Len() != 3 {
		t.Fatalf("len: %d", ix.Len())
	}
}

func TestIndexEmpty(t *testing.T) {
	ix := index.New()
	if ix.Len() != 0 || ix.Has("a") || ix.Rows("a") != nil {
		t.Fatal("empty index misbehaves")
	}
}
