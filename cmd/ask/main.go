package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"daybrief/internal/client"
)

func main() {
	url := flag.String("url", client.DefaultURL, "agent endpoint")
	raw := flag.Bool("raw", false, "print the decoded response as JSON instead of just the result text")
	flag.Parse()

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		fatalf("usage: ask [-url ...] <prompt>")
	}

	resp, err := client.NewWithURL(*url).Ask(context.Background(), prompt)
	if err != nil {
		fatalf("ask failed: %v", err)
	}

	if !*raw {
		// the daybrief server answers {"result": "..."}; unwrap when it does
		if m, ok := resp.(map[string]any); ok {
			if result, ok := m["result"].(string); ok {
				fmt.Println(result)
				return
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fatalf("encode response: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
