package tasks

import (
	"regexp"
	"strings"
)

var (
	prioShortRe = regexp.MustCompile(`\bp\s*([1-3])\b`)
	prioWordRe  = regexp.MustCompile(`priority\s*([1-3])`)
	dueDateRe   = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2})\b`)
	leadVerbRe  = regexp.MustCompile(`(?i)^\s*(add|todo|task|remember|note|create|append)[:\s,-]*`)
)

// parsePriority extracts a 1..3 priority from free text ("p1", "priority 2",
// "high"/"medium"/"low"). Returns 0 when nothing matches.
func parsePriority(text string) int {
	lowered := strings.ToLower(text)
	if m := prioShortRe.FindStringSubmatch(lowered); m != nil {
		return int(m[1][0] - '0')
	}
	if m := prioWordRe.FindStringSubmatch(lowered); m != nil {
		return int(m[1][0] - '0')
	}
	switch {
	case strings.Contains(lowered, "high"):
		return 1
	case strings.Contains(lowered, "medium"), strings.Contains(lowered, "med"):
		return 2
	case strings.Contains(lowered, "low"):
		return 3
	}
	return 0
}

// parseDue recognizes "today", "tomorrow" or an explicit YYYY-MM-DD date.
func parseDue(text string) string {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "tomorrow") {
		return "tomorrow"
	}
	if strings.Contains(lowered, "today") {
		return "today"
	}
	if m := dueDateRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractTitles pulls task titles out of prompts like "add buy milk",
// "add: buy milk; call mom" or "todo buy milk, call mom". Splits on ';'
// first, then on commas. Single-character fragments are dropped.
func extractTitles(text string) []string {
	t := leadVerbRe.ReplaceAllString(strings.TrimSpace(text), "")

	var parts []string
	for _, chunk := range strings.Split(t, ";") {
		chunk = strings.Trim(strings.TrimSpace(chunk), ",")
		if chunk == "" {
			continue
		}
		if strings.Contains(chunk, ",") {
			for _, c := range strings.Split(chunk, ",") {
				if c = strings.TrimSpace(c); c != "" {
					parts = append(parts, c)
				}
			}
		} else {
			parts = append(parts, chunk)
		}
	}

	titles := parts[:0]
	for _, p := range parts {
		if len(p) > 1 {
			titles = append(titles, p)
		}
	}
	return titles
}

// normalizeIndex converts a 1-based user index into a slice index, or -1.
func normalizeIndex(userIdx, n int) int {
	if userIdx < 1 || userIdx > n {
		return -1
	}
	return userIdx - 1
}
