package models

import (
	"errors"
	"slices"
	"testing"
)

func TestDecodeLedger(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    CheckinLedger
		wantErr bool
	}{
		{
			name: "initial ledger",
			data: `{"lastDate":"","streak":0,"checkinDates":[]}`,
			want: CheckinLedger{CheckinDates: []string{}},
		},
		{
			name: "missing dates field",
			data: `{"lastDate":"","streak":0}`,
			want: CheckinLedger{CheckinDates: []string{}},
		},
		{
			name: "sorts and collapses duplicates",
			data: `{"lastDate":"2024-01-14","streak":2,"checkinDates":["2024-01-14","2024-01-13","2024-01-14"]}`,
			want: CheckinLedger{LastDate: "2024-01-14", Streak: 2, CheckinDates: []string{"2024-01-13", "2024-01-14"}},
		},
		{
			name: "adds last date to history",
			data: `{"lastDate":"2024-01-14","streak":1,"checkinDates":[]}`,
			want: CheckinLedger{LastDate: "2024-01-14", Streak: 1, CheckinDates: []string{"2024-01-14"}},
		},
		{
			name:    "not json",
			data:    `lastDate=2024-01-14`,
			wantErr: true,
		},
		{
			name:    "negative streak",
			data:    `{"lastDate":"2024-01-14","streak":-1,"checkinDates":["2024-01-14"]}`,
			wantErr: true,
		},
		{
			name:    "streak without last date",
			data:    `{"lastDate":"","streak":3,"checkinDates":[]}`,
			wantErr: true,
		},
		{
			name:    "last date without streak",
			data:    `{"lastDate":"2024-01-14","streak":0,"checkinDates":["2024-01-14"]}`,
			wantErr: true,
		},
		{
			name:    "invalid history date",
			data:    `{"lastDate":"2024-01-14","streak":1,"checkinDates":["01/14/2024"]}`,
			wantErr: true,
		},
		{
			name:    "last date older than history",
			data:    `{"lastDate":"2024-01-10","streak":1,"checkinDates":["2024-01-10","2024-01-12"]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLedger([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedLedger) {
					t.Fatalf("DecodeLedger() error = %v, want ErrMalformedLedger", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLedger() unexpected error: %v", err)
			}
			if got.LastDate != tt.want.LastDate || got.Streak != tt.want.Streak {
				t.Errorf("DecodeLedger() = %+v, want %+v", got, tt.want)
			}
			if !slices.Equal(got.CheckinDates, tt.want.CheckinDates) {
				t.Errorf("CheckinDates = %v, want %v", got.CheckinDates, tt.want.CheckinDates)
			}
		})
	}
}

func TestEncodeLedgerLayout(t *testing.T) {
	data, err := EncodeLedger(CheckinLedger{})
	if err != nil {
		t.Fatalf("EncodeLedger() error: %v", err)
	}
	want := `{"lastDate":"","streak":0,"checkinDates":[]}`
	if string(data) != want {
		t.Errorf("EncodeLedger() = %s, want %s", data, want)
	}
}

func TestWithCheckinDoesNotAlias(t *testing.T) {
	base := CheckinLedger{LastDate: "2024-01-14", Streak: 1, CheckinDates: []string{"2024-01-14"}}
	next := base.WithCheckin("2024-01-15")

	if len(base.CheckinDates) != 1 {
		t.Errorf("original ledger mutated: %v", base.CheckinDates)
	}
	if !next.HasCheckin("2024-01-15") || !next.HasCheckin("2024-01-14") {
		t.Errorf("WithCheckin() = %v, want both days", next.CheckinDates)
	}

	again := next.WithCheckin("2024-01-15")
	if len(again.CheckinDates) != 2 {
		t.Errorf("WithCheckin() duplicated a day: %v", again.CheckinDates)
	}
}
