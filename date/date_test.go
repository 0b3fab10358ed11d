package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-31", want: New(2024, time.January, 31)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "31/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSub(t *testing.T) {
	testCases := []struct {
		name string
		a, b Date
		want int
	}{
		{"same day", MustParse("2024-03-01"), MustParse("2024-03-01"), 0},
		{"leap february", MustParse("2024-03-01"), MustParse("2024-02-28"), 2},
		{"full year", MustParse("2021-01-01"), MustParse("2020-01-01"), 366},
		{"negative", MustParse("2020-01-01"), MustParse("2020-01-11"), -10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Sub(tc.b); got != tc.want {
				t.Errorf("%v.Sub(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestOf(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	// 2024-01-02 02:00 UTC is still the first of January in New York.
	ts := time.Date(2024, 1, 2, 2, 0, 0, 0, time.UTC).In(ny)
	if got, want := Of(ts), New(2024, 1, 1); got != want {
		t.Errorf("Of(%v) = %v, want %v", ts, got, want)
	}
}

func TestJSON(t *testing.T) {
	d := MustParse("2023-12-29")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2023-12-29"` {
		t.Errorf("Marshal() = %s, want %q", b, "2023-12-29")
	}
	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
}

func TestIterate(t *testing.T) {
	a, b := new(History[float64]), new(History[float64])
	a.Append(MustParse("2024-01-02"), 1).Append(MustParse("2024-01-04"), 1)
	b.Append(MustParse("2024-01-03"), 1).Append(MustParse("2024-01-04"), 1)

	var got []string
	for d := range Iterate(a, b, nil) {
		got = append(got, d.String())
	}
	want := []string{"2024-01-02", "2024-01-03", "2024-01-04"}
	if len(got) != len(want) {
		t.Fatalf("Iterate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
