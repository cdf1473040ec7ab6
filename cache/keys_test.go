package cache

import (
	"net/url"
	"testing"
)

func TestListKey_OrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("status", "P")
	a.Set("priority", "H")
	a.Set("page", "2")

	b := url.Values{}
	b.Set("page", "2")
	b.Set("priority", "H")
	b.Set("status", "P")

	keyA := ListKey("todo", a)
	keyB := ListKey("todo", b)

	if keyA != keyB {
		t.Errorf("Keys differ for equal parameter sets: %s vs %s", keyA, keyB)
	}
}

func TestListKey_DistinctParams(t *testing.T) {
	a := url.Values{"status": {"P"}}
	b := url.Values{"status": {"C"}}

	if ListKey("todo", a) == ListKey("todo", b) {
		t.Error("Different parameter sets should produce different keys")
	}
}

func TestListKey_MultiValueSetSemantics(t *testing.T) {
	a := url.Values{"tag": {"home", "work"}}
	b := url.Values{"tag": {"work", "home"}}

	if ListKey("todo", a) != ListKey("todo", b) {
		t.Error("Multi-value params with the same set of values should produce the same key")
	}
}

func TestListKey_MultiValueNoSeparatorCollision(t *testing.T) {
	a := url.Values{"tag": {"a,b"}}
	b := url.Values{"tag": {"a", "b"}}

	if ListKey("todo", a) == ListKey("todo", b) {
		t.Error("A single value containing a comma should not collide with two separate values")
	}
}

func TestOwnerListKey_DistinctOwners(t *testing.T) {
	params := url.Values{"page": {"1"}}

	keyA := OwnerListKey("tag", 1, params)
	keyB := OwnerListKey("tag", 2, params)

	if keyA == keyB {
		t.Error("Different owners with identical params should never share a list key")
	}
}

func TestOwnerListKey_MatchesListPattern(t *testing.T) {
	key := OwnerListKey("tag", 7, url.Values{})
	prefix := "tag_list_"
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		t.Errorf("Owner list key %s should carry the %s prefix so invalidation reaches it", key, prefix)
	}
}

func TestDetailKey(t *testing.T) {
	if got := DetailKey("todo", 42); got != "todo_detail_42" {
		t.Errorf("DetailKey = %s, want todo_detail_42", got)
	}
}

func TestListKey_ResourcePrefix(t *testing.T) {
	key := ListKey("tag", url.Values{})
	if len(key) <= len("tag_list_") || key[:len("tag_list_")] != "tag_list_" {
		t.Errorf("List key %s should carry the tag_list_ prefix", key)
	}
}
