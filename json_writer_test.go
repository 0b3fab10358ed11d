package analyzer

import (
	"math"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("date", "2024-01-02")
		w.Append("SPY", Round(1.2345, 2))
		w.Append("AGG", Round(math.NaN(), 2))
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"date":"2024-01-02","SPY":1.23,"AGG":null}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("ch", make(chan int))
		if _, err := w.MarshalJSON(); err == nil {
			t.Errorf("MarshalJSON() error = nil, want an error")
		}
	})
}

func TestJsonArray(t *testing.T) {
	got, err := jsonArray[int](nil)
	if err != nil || string(got) != "[]" {
		t.Errorf("jsonArray(nil) = %s, %v want [], nil", got, err)
	}
	got, err = jsonArray([]string{"a", "b"})
	if err != nil || string(got) != `["a","b"]` {
		t.Errorf("jsonArray(a, b) = %s, %v want [\"a\",\"b\"], nil", got, err)
	}
}
