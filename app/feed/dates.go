package feed

import (
	"regexp"
	"strconv"
	"time"
)

// trailingDatePattern matches titles ending in " - M/D/YYYY".
var trailingDatePattern = regexp.MustCompile(`\s+-\s+(\d{1,2})/(\d{1,2})/(\d{4})\s*$`)

// ParseTitleDate extracts the trailing month-first date from a title. The
// result is midnight UTC of that calendar day. Impossible dates such as 2/30
// do not match.
func ParseTitleDate(title string) (time.Time, bool) {
	m := trailingDatePattern.FindStringSubmatch(title)
	if m == nil {
		return time.Time{}, false
	}

	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, so 13/2 or 2/30 come back different.
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return time.Time{}, false
	}

	return date, true
}

// InferDate returns the title date, or runAt when the title carries none.
// Undated articles therefore look freshly published.
func InferDate(title string, runAt time.Time) time.Time {
	if date, ok := ParseTitleDate(title); ok {
		return date
	}
	return runAt
}

// InferDates fills PublishedAt on every article. The fallback is truncated to
// the second, the precision of an RSS pubDate.
func InferDates(articles []Article, runAt time.Time) []Article {
	runAt = runAt.Truncate(time.Second)
	for i := range articles {
		date, ok := ParseTitleDate(articles[i].Title)
		if !ok {
			date = runAt
		}
		articles[i].PublishedAt = date
		articles[i].DateFromTitle = ok
	}
	return articles
}
