package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"daybrief/internal/journal"
)

func main() {
	dataDir := flag.String("data-dir", "data", "daybrief data dir")
	since := flag.Duration("since", 0, "only show exchanges newer than this (e.g. 24h)")
	tool := flag.String("tool", "", "only show exchanges handled by this tool")
	jsonOut := flag.Bool("json", false, "print exchanges as JSON")
	compact := flag.Bool("compact", false, "merge journal chunks and exit")
	flag.Parse()

	store, err := journal.NewStore(filepath.Join(*dataDir, "journal"))
	if err != nil {
		fatalf("journal init failed: %v", err)
	}

	if *compact {
		if err := store.Compact(); err != nil {
			fatalf("compact failed: %v", err)
		}
		fmt.Println("journal compacted")
		return
	}

	var rows []journal.Exchange
	if *since > 0 {
		rows, err = store.Since(time.Now().Add(-*since))
	} else {
		rows, err = store.ReadAll()
	}
	if err != nil {
		fatalf("journal read failed: %v", err)
	}

	if *tool != "" {
		filtered := rows[:0]
		for _, r := range rows {
			if r.Tool == *tool {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if len(rows) == 0 {
		fmt.Println("no exchanges found")
		return
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			fatalf("json encode failed: %v", err)
		}
		return
	}

	for _, r := range rows {
		when := time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04")
		fmt.Printf("%s [%s] %s -> %s (%dms)\n", when, r.Tool, r.Prompt, r.Result, r.DurationMS)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
