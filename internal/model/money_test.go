package model

import (
	"testing"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		exp     int
		want    int64
		wantErr bool
	}{
		{"cent currency", "4.00", 2, 400, false},
		{"whole number", "99", 2, 9900, false},
		{"large value", "1234.56", 2, 123456, false},
		{"zero", "0.00", 2, 0, false},
		{"zero exponent", "150", 0, 150, false},
		{"three decimals", "1.250", 3, 1250, false},
		{"sub-minor precision", "1.005", 2, 0, true},
		{"not a number", "abc", 2, 0, true},
		{"empty string", "", 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MinorUnits(tt.total, tt.exp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MinorUnits(%q, %d) error = %v, wantErr %v", tt.total, tt.exp, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("MinorUnits(%q, %d) = %d, want %d", tt.total, tt.exp, got, tt.want)
			}
		})
	}
}
