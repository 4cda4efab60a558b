package tokenizer

import (
	"errors"
	"testing"
)

func TestMakeTokenizer_Count(t *testing.T) {
	tok := MakeTokenizer(func(s string) (int, error) {
		return len([]rune(s)), nil
	})

	count, err := tok.Count("hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 5 {
		t.Errorf("Count() = %d, want 5", count)
	}
}

func TestMakeTokenizer_CountBatch(t *testing.T) {
	tok := MakeTokenizer(func(s string) (int, error) {
		return len([]rune(s)), nil
	})

	counts, err := tok.CountBatch([]string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("CountBatch()[%d] = %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestMakeTokenizer_CountBatch_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	tok := MakeTokenizer(func(s string) (int, error) {
		if s == "bad" {
			return 0, sentinel
		}
		return len(s), nil
	})

	_, err := tok.CountBatch([]string{"good", "bad"})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}
