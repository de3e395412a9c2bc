package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	if id[14] != '7' {
		t.Errorf("expected version 7, got %q", id)
	}
	if New() == id {
		t.Error("expected distinct ids")
	}
}

func TestResolve(t *testing.T) {
	t.Run("generates when empty", func(t *testing.T) {
		id, err := Resolve("")
		if err != nil || !IsValid(id) {
			t.Fatalf("expected generated id, got %q (%v)", id, err)
		}
	})

	t.Run("canonicalizes supplied", func(t *testing.T) {
		in := "6F9619FF-8B86-D011-B42D-00CF4FC964FF"
		id, err := Resolve(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != strings.ToLower(in) {
			t.Errorf("expected %q, got %q", strings.ToLower(in), id)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := Resolve("not-a-uuid"); err == nil {
			t.Error("expected error")
		}
	})
}
