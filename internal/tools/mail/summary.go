package mail

import (
	"fmt"
	netmail "net/mail"
	"sort"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// summarizeMessages condenses message metadata into one line: count, top
// senders, newest timestamp and a subject preview.
func summarizeMessages(messages []*gmail.Message) string {
	if len(messages) == 0 {
		return "No unread emails 🎉"
	}

	var (
		senders  []string
		subjects []string
		times    []time.Time
	)
	for _, m := range messages {
		senders = append(senders, cleanSender(headerValue(m, "From")))
		if subj := strings.TrimSpace(headerValue(m, "Subject")); subj != "" {
			subjects = append(subjects, subj)
		}
		if d, err := netmail.ParseDate(headerValue(m, "Date")); err == nil {
			times = append(times, d.UTC())
		}
	}

	latest := "unknown time"
	if len(times) > 0 {
		max := times[0]
		for _, d := range times[1:] {
			if d.After(max) {
				max = d
			}
		}
		latest = max.Format("2006-01-02T15:04") + "Z"
	}

	preview := "no subjects"
	if len(subjects) > 0 {
		if len(subjects) > 3 {
			subjects = subjects[:3]
		}
		preview = strings.Join(subjects, "; ")
	}

	return fmt.Sprintf("%d unread email(s). Top senders: %s. Latest around %s. Subjects: %s",
		len(messages), topSenders(senders, 3), latest, preview)
}

// topSenders formats the n most frequent senders as "name×count", ties
// broken by first appearance.
func topSenders(senders []string, n int) string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, s := range senders {
		if _, ok := firstSeen[s]; !ok {
			firstSeen[s] = i
		}
		counts[s]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return firstSeen[names[i]] < firstSeen[names[j]]
	})

	if len(names) > n {
		names = names[:n]
	}
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s×%d", name, counts[name])
	}
	return strings.Join(parts, ", ")
}

func headerValue(m *gmail.Message, name string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// cleanSender strips the address part from "Display Name <a@b.c>".
func cleanSender(from string) string {
	if from == "" {
		return "Unknown"
	}
	if strings.Contains(from, "<") && strings.Contains(from, ">") {
		name := strings.TrimSpace(from[:strings.Index(from, "<")])
		return strings.Trim(name, `"`)
	}
	return from
}
