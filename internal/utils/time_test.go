package utils

import "testing"

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: "", wantErr: false},
		{name: "Local returns local", timezone: "Local", wantErr: false},
		{name: "valid timezone UTC", timezone: "UTC", wantErr: false},
		{name: "valid timezone Asia/Tokyo", timezone: "Asia/Tokyo", wantErr: false},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name    string
		day     string
		n       int
		want    string
		wantErr bool
	}{
		{name: "next day", day: "2024-01-14", n: 1, want: "2024-01-15"},
		{name: "previous day", day: "2024-01-15", n: -1, want: "2024-01-14"},
		{name: "month boundary", day: "2024-01-31", n: 1, want: "2024-02-01"},
		{name: "leap day", day: "2024-02-28", n: 1, want: "2024-02-29"},
		{name: "year boundary backwards", day: "2024-01-01", n: -1, want: "2023-12-31"},
		{name: "invalid day", day: "2024-13-01", n: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddDays(tt.day, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddDays() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AddDays() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{day: "2024-01-14", want: "2024-01-14"}, // Sunday
		{day: "2024-01-17", want: "2024-01-14"}, // Wednesday
		{day: "2024-01-20", want: "2024-01-14"}, // Saturday
		{day: "2024-03-01", want: "2024-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			got, err := WeekStart(tt.day)
			if err != nil {
				t.Fatalf("WeekStart() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.day, got, tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	got, err := DaysBetween("2024-03-09", "2024-03-11")
	if err != nil {
		t.Fatalf("DaysBetween() error: %v", err)
	}
	if got != 2 {
		t.Errorf("DaysBetween() = %d, want 2", got)
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     bool
	}{
		{"", true},
		{"Local", true},
		{"UTC", true},
		{"Europe/London", true},
		{"Not/AZone", false},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			if got := ValidateTimezone(tt.timezone); got != tt.want {
				t.Errorf("ValidateTimezone(%q) = %v, want %v", tt.timezone, got, tt.want)
			}
		})
	}
}
