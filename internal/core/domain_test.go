package core

import "testing"

func TestMonthNumber(t *testing.T) {
	cases := []struct {
		in  string
		out int
	}{
		{"January", 1},
		{"march", 3},
		{" MARCH ", 3},
		{"Mar", 3},
		{"Sept", 9},
		{"may", 5},
		{"03", 3},
		{"12", 12},
		{"13", 0},
		{"0", 0},
		{"Ma", 0},
		{"Smarch", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := MonthNumber(tc.in); got != tc.out {
			t.Fatalf("MonthNumber(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestSortMonthly(t *testing.T) {
	records := []MonthlyRecord{
		{Month: "January", Year: 2025},
		{Month: "December", Year: 2024},
		{Month: "Unknown", Year: 2024},
		{Month: "February", Year: 2024},
		{Month: "October", Year: 2024},
		{Month: "April", Year: 2024},
	}
	SortMonthly(records)

	want := []struct {
		month string
		year  int
	}{
		{"February", 2024},
		{"April", 2024},
		{"October", 2024},
		{"December", 2024},
		{"Unknown", 2024},
		{"January", 2025},
	}
	for i, w := range want {
		if records[i].Month != w.month || records[i].Year != w.year {
			t.Fatalf("position %d: got %s %d, want %s %d", i, records[i].Month, records[i].Year, w.month, w.year)
		}
	}
}

func TestSortMonthlyEmpty(t *testing.T) {
	var records []MonthlyRecord
	SortMonthly(records)
	if len(records) != 0 {
		t.Fatalf("expected empty slice")
	}
}

func TestFormatting(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"count integer", FormatCount(150000), "150000"},
		{"count truncates", FormatCount(45.9), "45"},
		{"amount fraction", FormatAmount(12.5), "12.5"},
		{"amount whole", FormatAmount(285), "285"},
		{"rupees", FormatRupees(285), "Rs. 285"},
		{"crores", FormatCrores(12.5), "Rs. 12.5 Crores"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}
