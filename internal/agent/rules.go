package agent

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Rule maps trigger patterns to a tool name. Patterns are matched against the
// lowercased prompt, first match wins, rule order is significant.
type Rule struct {
	Tool     string
	Patterns []*regexp.Regexp
}

type routesFile struct {
	Route []routeEntry `toml:"route"`
}

type routeEntry struct {
	Tool     string   `toml:"tool"`
	Triggers []string `toml:"triggers"`
}

// DefaultRules reproduces the built-in routing: email talk goes to mail,
// schedule/plan to calendar, weather to weather, everything else to tasks
// (the router fallback). Triggers are plain substrings.
func DefaultRules() []Rule {
	return []Rule{
		substringRule("mail", "email"),
		substringRule("calendar", "schedule", "plan"),
		substringRule("weather", "weather"),
	}
}

func substringRule(tool string, triggers ...string) Rule {
	patterns := make([]*regexp.Regexp, len(triggers))
	for i, t := range triggers {
		patterns[i] = regexp.MustCompile(regexp.QuoteMeta(t))
	}
	return Rule{Tool: tool, Patterns: patterns}
}

// LoadRules reads routing rules from a TOML file. Each [[route]] entry names
// a tool and its regex triggers:
//
//	[[route]]
//	tool = "mail"
//	triggers = ['\bemail\b', '\binbox\b']
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routes: read %s: %w", path, err)
	}

	var file routesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("routes: parse %s: %w", path, err)
	}

	var rules []Rule
	for _, entry := range file.Route {
		if entry.Tool == "" {
			return nil, fmt.Errorf("routes: entry with no tool in %s", path)
		}
		if len(entry.Triggers) == 0 {
			return nil, fmt.Errorf("routes: tool %q has no triggers", entry.Tool)
		}
		rule := Rule{Tool: entry.Tool}
		for _, raw := range entry.Triggers {
			p, err := regexp.Compile(raw)
			if err != nil {
				return nil, fmt.Errorf("routes: tool %q trigger %q: %w", entry.Tool, raw, err)
			}
			rule.Patterns = append(rule.Patterns, p)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
