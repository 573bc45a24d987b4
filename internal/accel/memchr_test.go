package accel

import (
	"strings"
	"testing"
)

func TestIndexByteFindsFirstOccurrence(t *testing.T) {
	s := []byte("the quick brown fox")
	if got := IndexByte(s, 0, 'q'); got != 4 {
		t.Errorf("IndexByte(%q, 0, 'q') = %d, want 4", s, got)
	}
}

func TestIndexByteRespectsFromOffset(t *testing.T) {
	s := []byte("aaaXaaa")
	if got := IndexByte(s, 4, 'a'); got != 4 {
		t.Errorf("IndexByte from 4 = %d, want 4", got)
	}
}

func TestIndexByteNotFound(t *testing.T) {
	if got := IndexByte([]byte("hello"), 0, 'z'); got != -1 {
		t.Errorf("IndexByte for an absent byte = %d, want -1", got)
	}
}

func TestIndexByteCrossesWordBoundary(t *testing.T) {
	// Long enough input to exercise the word-at-a-time path on every
	// platform, with the target byte placed at several offsets relative
	// to wordSize so the bit-trick's per-word scan is tested at each
	// phase.
	for pad := 0; pad < 24; pad++ {
		s := []byte(strings.Repeat("x", pad) + "Z" + strings.Repeat("x", 40))
		want := pad
		if got := IndexByte(s, 0, 'Z'); got != want {
			t.Errorf("pad=%d: IndexByte = %d, want %d", pad, got, want)
		}
	}
}

func TestLastIndexByteFindsLastOccurrence(t *testing.T) {
	s := []byte("abcabcabc")
	if got := LastIndexByte(s, len(s), 'b'); got != 7 {
		t.Errorf("LastIndexByte = %d, want 7", got)
	}
}

func TestLastIndexByteRespectsUpto(t *testing.T) {
	s := []byte("abcabcabc")
	if got := LastIndexByte(s, 4, 'c'); got != 2 {
		t.Errorf("LastIndexByte with upto=4 = %d, want 2", got)
	}
}

func TestLastIndexByteNotFound(t *testing.T) {
	if got := LastIndexByte([]byte("abc"), 3, 'z'); got != -1 {
		t.Errorf("LastIndexByte for an absent byte = %d, want -1", got)
	}
}
