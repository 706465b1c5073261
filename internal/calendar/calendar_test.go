package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/lanchinho/scheduler/internal/domain"
)

func TestFridays(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		want  []string
	}{
		{
			"leap february with four fridays", 2024, 2,
			[]string{"2024-02-02", "2024-02-09", "2024-02-16", "2024-02-23"},
		},
		{
			"non-leap february", 2023, 2,
			[]string{"2023-02-03", "2023-02-10", "2023-02-17", "2023-02-24"},
		},
		{
			"month starting on a friday with five fridays", 2025, 8,
			[]string{"2025-08-01", "2025-08-08", "2025-08-15", "2025-08-22", "2025-08-29"},
		},
		{
			"month ending on a friday", 2024, 5,
			[]string{"2024-05-03", "2024-05-10", "2024-05-17", "2024-05-24", "2024-05-31"},
		},
		{
			"december", 2024, 12,
			[]string{"2024-12-06", "2024-12-13", "2024-12-20", "2024-12-27"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fridays(tt.year, tt.month)
			if err != nil {
				t.Fatalf("Fridays(%d, %d) returned error: %v", tt.year, tt.month, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Fridays(%d, %d) returned %d dates, want %d", tt.year, tt.month, len(got), len(tt.want))
			}
			for i, d := range got {
				if d.Weekday() != time.Friday {
					t.Errorf("date %s is a %s, not a Friday", d.Format("2006-01-02"), d.Weekday())
				}
				if d.Format("2006-01-02") != tt.want[i] {
					t.Errorf("date[%d] = %s, want %s", i, d.Format("2006-01-02"), tt.want[i])
				}
			}
		})
	}
}

func TestFridaysInvalidMonth(t *testing.T) {
	for _, month := range []int{0, 13, -1} {
		if _, err := Fridays(2024, month); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Fridays(2024, %d) error = %v, want ErrInvalidInput", month, err)
		}
	}
}
