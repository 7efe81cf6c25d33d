package core

import (
	"testing"
	"time"
)

func TestSerialToTime(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   time.Time
	}{
		{
			name:   "unix epoch",
			serial: 25569,
			want:   time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "serial 44000",
			serial: 44000,
			want:   time.Date(2020, 6, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "fraction is time of day",
			serial: 44000.5,
			want:   time.Date(2020, 6, 18, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "start of 2024",
			serial: 45292,
			want:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "before the unix epoch",
			serial: 25568,
			want:   time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SerialToTime(tt.serial)
			if !got.Equal(tt.want) {
				t.Errorf("SerialToTime(%v) = %v, want %v", tt.serial, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantDate  string
	}{
		{"ISO date", "2024-01-15", true, "2024-01-15"},
		{"ISO with slashes", "2024/01/15", true, "2024-01-15"},
		{"RFC3339", "2024-01-15T10:30:00Z", true, "2024-01-15"},
		{"datetime with space", "2024-01-15 10:30:00", true, "2024-01-15"},
		{"US slashes", "01/15/2024", true, "2024-01-15"},
		{"US short", "1/5/2024", true, "2024-01-05"},
		{"month name", "Jan 15, 2024", true, "2024-01-15"},
		{"full month name", "January 15, 2024", true, "2024-01-15"},
		{"day first month name", "15 Jan 2024", true, "2024-01-15"},
		{"compact", "20240115", true, "2024-01-15"},
		{"formula wrapped", `="2024-01-15"`, true, "2024-01-15"},
		{"whitespace", "  2024-01-15  ", true, "2024-01-15"},
		{"empty", "", false, ""},
		{"garbage", "not a date", false, ""},
		{"impossible month", "2024-13-01", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input, time.UTC)
			if ok != tt.wantValid {
				t.Fatalf("ParseDate(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && got.Format("2006-01-02") != tt.wantDate {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.wantDate)
			}
		})
	}
}

func TestParseDate_Location(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	got, ok := ParseDate("2024-01-15", loc)
	if !ok {
		t.Fatal("ParseDate failed")
	}
	if got.Location() != loc {
		t.Errorf("location = %v, want %v", got.Location(), loc)
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 20

	tests := []struct {
		input    string
		wantYear int
	}{
		{"01/15/25", 2025},
		{"01/15/99", 1999},
		{"01/15/85", 1985},
		{"1.15.24", 2024},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input, time.UTC)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.input)
			}
			if got.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q) year = %d, want %d", tt.input, got.Year(), tt.wantYear)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      float64
	}{
		{"integer", "123", true, 123},
		{"decimal", "123.45", true, 123.45},
		{"leading point", ".5", true, 0.5},
		{"negative", "-42", true, -42},
		{"thousands separators", "1,234,567.89", true, 1234567.89},
		{"dollar", "$100", true, 100},
		{"rupee symbol", "₹ 5,000", true, 5000},
		{"rupee abbreviation", "Rs.250", true, 250},
		{"euro", "€12.50", true, 12.5},
		{"accounting negative", "(45.50)", true, -45.5},
		{"scientific", "1e3", true, 1000},
		{"formula prefix", `="99"`, true, 99},
		{"empty", "", false, 0},
		{"text", "abc", false, 0},
		{"trailing text", "12abc", false, 0},
		{"two points", "1.2.3", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantValid {
				t.Fatalf("ParseNumber(%q) valid = %v, want %v", tt.input, ok, tt.wantValid)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEnum(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cash", "cash"},
		{"CASH", "cash"},
		{"Bank Transfer", "bank_transfer"},
		{"bank-transfer", "bank_transfer"},
		{"  UPI  ", "upi"},
		{"Bank   Transfer", "bank_transfer"},
		{"bank_transfer", "bank_transfer"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeEnum(tt.input); got != tt.want {
				t.Errorf("NormalizeEnum(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple string unchanged", "hello", "hello"},
		{"empty string", "", ""},
		{"surrounded by whitespace", "  hello  ", "hello"},
		{"Excel formula with quotes", `="hello"`, "hello"},
		{"Excel formula number as text", `="12345"`, "12345"},
		{"bare equals sign", "=SUM(A1)", "SUM(A1)"},
		{"double quotes removed", `"hello"`, "hello"},
		{"single quotes removed", "'hello'", "hello"},
		{"leading single quote (Excel text prefix)", "'12345", "12345"},
		{"internal spaces kept", "Office Supplies", "Office Supplies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
