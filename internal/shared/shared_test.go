package shared

import "testing"

func TestNormalizeSlug(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "basic normalization",
			in:   "Birmingham City Council",
			want: "birmingham-city-council",
		},
		{
			name: "extra whitespace",
			in:   "  Total   Debt  ",
			want: "total-debt",
		},
		{
			name: "mixed case",
			in:   "InTeReSt PaId",
			want: "interest-paid",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSlug(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeSlug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tc := []struct {
		name   string
		amount float64
		want   string
	}{
		{name: "billions", amount: 2_500_000_000, want: "£2.5b"},
		{name: "millions", amount: 1_500_000, want: "£1.5m"},
		{name: "thousands", amount: 950_000, want: "£950k"},
		{name: "small", amount: 42, want: "£42"},
		{name: "negative", amount: -3_000_000, want: "-£3.0m"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMoney(tt.amount)
			if got != tt.want {
				t.Errorf("FormatMoney(%v) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}
