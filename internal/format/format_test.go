package format

import (
	"errors"
	"testing"

	"github.com/clintab/clintab/internal/model"
)

func TestNewFixed(t *testing.T) {
	t.Parallel()

	t.Run("negative decimals is rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFixed(-1); !errors.Is(err, ErrInvalidDecimals) {
			t.Errorf("expected ErrInvalidDecimals, got %v", err)
		}
	})

	t.Run("zero decimals is valid", func(t *testing.T) {
		t.Parallel()
		if _, err := NewFixed(0); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestFixed_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decimals int
		value    float64
		want     string
	}{
		{
			name:     "p-value to four decimals",
			decimals: 4,
			value:    0.0001234,
			want:     "0.0001",
		},
		{
			name:     "one decimal place",
			decimals: 1,
			value:    20.06,
			want:     "20.1",
		},
		{
			name:     "zero decimals renders whole number",
			decimals: 0,
			value:    74.38,
			want:     "74",
		},
		{
			name:     "padding zeros are kept",
			decimals: 2,
			value:    5,
			want:     "5.00",
		},
		{
			name:     "negative value",
			decimals: 1,
			value:    -0.55,
			want:     "-0.6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := NewFixed(tt.decimals)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := f.Format(model.Number(tt.value))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s, ok := got.Text()
			if !ok {
				t.Fatalf("expected text cell, got kind %v", got.Kind())
			}
			if s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}
}

func TestSignif_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		digits int
		value  float64
		want   string
	}{
		{
			name:   "three figures below one",
			digits: 3,
			value:  0.0001234,
			want:   "0.000123",
		},
		{
			name:   "three figures above one",
			digits: 3,
			value:  74.381,
			want:   "74.4",
		},
		{
			name:   "rounding above the decimal point stays fixed-point",
			digits: 2,
			value:  8641,
			want:   "8600",
		},
		{
			name:   "zero renders with padding",
			digits: 3,
			value:  0,
			want:   "0.00",
		},
		{
			name:   "negative value",
			digits: 2,
			value:  -0.0456,
			want:   "-0.046",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := NewSignif(tt.digits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := f.Format(model.Number(tt.value))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s, ok := got.Text()
			if !ok {
				t.Fatalf("expected text cell, got kind %v", got.Kind())
			}
			if s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}
}

func TestNewSignif_InvalidDigits(t *testing.T) {
	t.Parallel()

	for _, digits := range []int{0, -1} {
		if _, err := NewSignif(digits); !errors.Is(err, ErrInvalidDigits) {
			t.Errorf("digits=%d: expected ErrInvalidDigits, got %v", digits, err)
		}
	}
}

func TestInteger_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		suffix string
		value  float64
		want   string
	}{
		{
			name:  "bare whole number",
			value: 86,
			want:  "86",
		},
		{
			name:  "rounds to nearest whole number",
			value: 267.6,
			want:  "268",
		},
		{
			name:   "bracket wrapping for event counts",
			prefix: "[",
			suffix: "]",
			value:  268,
			want:   "[268]",
		},
		{
			name:   "leading space wrapping",
			prefix: " [",
			suffix: "]",
			value:  110,
			want:   " [110]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewInteger(tt.prefix, tt.suffix).Format(model.Number(tt.value))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s, ok := got.Text()
			if !ok {
				t.Fatalf("expected text cell, got kind %v", got.Kind())
			}
			if s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}
}

func TestPercent_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scale    bool
		decimals int
		prefix   string
		suffix   string
		value    float64
		want     string
	}{
		{
			name:     "scaled proportion with parenthesized wrap",
			scale:    true,
			decimals: 0,
			prefix:   " (",
			suffix:   ")",
			value:    0.523,
			want:     " (52%)",
		},
		{
			name:     "unscaled value already in percent units",
			scale:    false,
			decimals: 0,
			prefix:   " (",
			suffix:   ")",
			value:    52.3,
			want:     " (52%)",
		},
		{
			name:     "one decimal place",
			scale:    false,
			decimals: 1,
			prefix:   " (",
			suffix:   ")",
			value:    52.34,
			want:     " (52.3%)",
		},
		{
			name:     "bare percentage without wrap",
			scale:    true,
			decimals: 0,
			value:    1,
			want:     "100%",
		},
		{
			name:     "tie rounds to even whole percent",
			scale:    false,
			decimals: 0,
			value:    52.5,
			want:     "52%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := NewPercent(tt.scale, tt.decimals, tt.prefix, tt.suffix)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := f.Format(model.Number(tt.value))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s, ok := got.Text()
			if !ok {
				t.Fatalf("expected text cell, got kind %v", got.Kind())
			}
			if s != tt.want {
				t.Errorf("expected %q, got %q", tt.want, s)
			}
		})
	}
}

func TestFormatters_MissingPassesThrough(t *testing.T) {
	t.Parallel()

	fixed, err := NewFixed(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	signif, err := NewSignif(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	percent, err := NewPercent(true, 0, " (", ")")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	formatters := []Formatter{fixed, signif, NewInteger("", ""), percent}

	for _, f := range formatters {
		t.Run(f.Name(), func(t *testing.T) {
			t.Parallel()

			got, err := f.Format(model.Missing())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.IsMissing() {
				t.Errorf("expected missing to pass through, got kind %v", got.Kind())
			}
		})
	}
}

func TestFormatters_TextIsHardFailure(t *testing.T) {
	t.Parallel()

	fixed, err := NewFixed(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	signif, err := NewSignif(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	percent, err := NewPercent(true, 0, " (", ")")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	formatters := []Formatter{fixed, signif, NewInteger("", ""), percent}

	for _, f := range formatters {
		t.Run(f.Name(), func(t *testing.T) {
			t.Parallel()

			// An already-formatted display string must not be silently
			// formatted a second time.
			if _, err := f.Format(model.Text("52%")); !errors.Is(err, ErrCellType) {
				t.Errorf("expected ErrCellType, got %v", err)
			}
		})
	}
}
