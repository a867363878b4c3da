package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferDate(t *testing.T) {
	runAt := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		title string
		want  time.Time
	}{
		{"Some Title - 2/2/2026", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)},
		{"Some Title - 11/24/2025", time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)},
		{"Zero padded - 02/09/2026", time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)},
		{"Trailing blank - 1/5/2024  ", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"Leap day - 2/29/2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		// Month-first: 3/4 is March 4th, never April 3rd
		{"Ambiguous - 3/4/2026", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},

		{"Some Title - 13/2/2026", runAt},
		{"Title - 2/30/2026", runAt},
		{"Not a leap year - 2/29/2025", runAt},
		{"Month zero - 0/10/2026", runAt},
		{"Day zero - 1/0/2026", runAt},
		{"Title with no date", runAt},
		{"No separator 2/2/2026", runAt},
		{"Date not at the end - 2/2/2026 suite", runAt},
		{"Short year - 2/2/26", runAt},
		{"Three digit month - 123/2/2026", runAt},
		{"", runAt},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := InferDate(tt.title, runAt)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestInferDateIndependentOfRunTime(t *testing.T) {
	a := InferDate("Some Title - 2/2/2026", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	b := InferDate("Some Title - 2/2/2026", time.Now())
	assert.True(t, a.Equal(b))
}

// Undated titles are indistinguishable from articles published at run time.
func TestInferDatesUndatedLooksFresh(t *testing.T) {
	runAt := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	articles := InferDates([]Article{
		{Title: "Dated - 1/2/2026"},
		{Title: "Undated"},
	}, runAt)

	assert.True(t, articles[0].DateFromTitle)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), articles[0].PublishedAt)

	assert.False(t, articles[1].DateFromTitle)
	assert.Equal(t, runAt, articles[1].PublishedAt)
}
