package xbrl

import "testing"

func TestFullYear(t *testing.T) {
	cases := []struct {
		name string
		ctx  Context
		want bool
	}{
		{"calendar year", Context{StartDate: "2024-01-01", EndDate: "2024-12-31"}, true},
		{"shifted fiscal year", Context{StartDate: "2023-07-01", EndDate: "2024-06-30"}, true},
		{"thirteen months", Context{StartDate: "2023-06-01", EndDate: "2024-06-30"}, true},
		{"first quarter", Context{StartDate: "2024-01-01", EndDate: "2024-03-31"}, false},
		{"half year", Context{StartDate: "2024-01-01", EndDate: "2024-06-30"}, false},
		{"two years", Context{StartDate: "2022-01-01", EndDate: "2023-12-31"}, false},
		{"instant", Context{Instant: "2024-12-31"}, false},
		{"unparseable", Context{StartDate: "n/a", EndDate: "2024-12-31"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ctx.FullYear(); got != tc.want {
				t.Errorf("FullYear(%+v) = %v, want %v", tc.ctx, got, tc.want)
			}
		})
	}
}

func TestMonthSpan(t *testing.T) {
	year := Context{StartDate: "2024-01-01", EndDate: "2024-12-31"}
	if span := year.MonthSpan(); span != 12 {
		t.Errorf("Expected a 12 month span, got %d", span)
	}

	quarter := Context{StartDate: "2024-01-01", EndDate: "2024-03-31"}
	if span := quarter.MonthSpan(); span != 3 {
		t.Errorf("Expected a 3 month span, got %d", span)
	}

	instant := Context{Instant: "2024-12-31"}
	if span := instant.MonthSpan(); span != 0 {
		t.Errorf("Expected 0 for an instant context, got %d", span)
	}
}

func TestParseDateTruncatesTime(t *testing.T) {
	d, ok := ParseDate("2023-12-31T00:00:00")
	if !ok {
		t.Fatal("ParseDate failed")
	}
	if d.Year() != 2023 || d.Month() != 12 || d.Day() != 31 {
		t.Errorf("Unexpected date: %v", d)
	}
}

func TestContextYear(t *testing.T) {
	cases := []struct {
		name string
		ctx  Context
		want int
	}{
		{"duration uses end date", Context{StartDate: "2023-07-01", EndDate: "2024-06-30"}, 2024},
		{"instant", Context{Instant: "2023-12-31"}, 2023},
		{"start date only", Context{StartDate: "2022-01-01"}, 2022},
		{"empty", Context{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ctx.Year(); got != tc.want {
				t.Errorf("Year(%+v) = %d, want %d", tc.ctx, got, tc.want)
			}
		})
	}
}
