package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// severityTokens are matched case-sensitively; the leftmost hit wins.
var severityTokens = [...]Severity{SeverityInfo, SeverityWarn, SeverityError}

// SplitLines splits text on line boundaries, preserving order.
//
// Recognised breaks: \n, \r\n, \r, \v, \f, \x1c, \x1d, \x1e, U+0085,
// U+2028 and U+2029. A trailing break does not yield an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	start := 0
	for i := 0; i < len(text); {
		r, size := rune(text[i]), 1
		if r >= 0x80 {
			r, size = utf8.DecodeRuneInString(text[i:])
		}

		if !isLineBreak(r) {
			i += size
			continue
		}

		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}

	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// Classify returns the severity of a single line.
func Classify(line string) Severity {
	best := -1
	sev := SeverityUnknown
	for _, tok := range severityTokens {
		idx := strings.Index(line, string(tok))
		if idx == -1 {
			continue
		}
		if best == -1 || idx < best {
			best = idx
			sev = tok
		}
	}
	return sev
}

// ClassifyAll classifies every line, keeping positions aligned.
func ClassifyAll(lines []string) []Severity {
	out := make([]Severity, len(lines))
	for i, line := range lines {
		out[i] = Classify(line)
	}
	return out
}

// CountLevels tallies INFO, WARN and ERROR. Total is their sum.
func CountLevels(severities []Severity) LevelCounts {
	var c LevelCounts
	for _, sev := range severities {
		switch sev {
		case SeverityInfo:
			c.Info++
		case SeverityWarn:
			c.Warn++
		case SeverityError:
			c.Error++
		}
	}
	c.Total = c.Info + c.Warn + c.Error
	return c
}

// DetermineHealth maps level counts to a verdict. RED is checked first.
func DetermineHealth(c LevelCounts) HealthStatus {
	if c.Error > 5 {
		return StatusRed
	}
	if c.Warn > 3 {
		return StatusAmber
	}
	return StatusGreen
}

// TopErrors groups ERROR lines by exact text and returns the most frequent,
// at most limit entries. Ties keep first-occurrence order.
func TopErrors(lines []string, severities []Severity, limit int) []TopError {
	counts := make(map[string]int)
	order := make([]string, 0)

	for i, line := range lines {
		if severities[i] != SeverityError {
			continue
		}
		if _, seen := counts[line]; !seen {
			order = append(order, line)
		}
		counts[line]++
	}

	out := make([]TopError, 0, len(order))
	for _, msg := range order {
		out = append(out, TopError{Message: msg, Count: counts[msg]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Series builds the bar-chart input in INFO, WARN, ERROR order.
func Series(c LevelCounts) ChartSeries {
	return ChartSeries{
		Labels: []string{string(SeverityInfo), string(SeverityWarn), string(SeverityError)},
		Values: []int{c.Info, c.Warn, c.Error},
	}
}
