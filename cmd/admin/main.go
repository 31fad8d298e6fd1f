// Command admin drives the internal job endpoints of a running API
// instance: seeding distributions, appending events, scoring an event
// from an ordered finisher list, and triggering a full resync.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	client := &adminClient{
		baseURL:  strings.TrimRight(envOr("ADMIN_API_BASE_URL", "http://localhost:8080"), "/"),
		jobToken: strings.TrimSpace(os.Getenv("INTERNAL_JOB_TOKEN")),
		http: &fasthttp.Client{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}

	var err error
	switch os.Args[1] {
	case "seed-distributions":
		err = client.seedDistributions()
	case "append-event":
		err = runAppendEvent(client, os.Args[2:])
	case "score-event":
		err = runScoreEvent(client, os.Args[2:])
	case "resync":
		err = runResync(client, os.Args[2:])
	case "events":
		err = client.listEvents()
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runAppendEvent(client *adminClient, args []string) error {
	fs := flag.NewFlagSet("append-event", flag.ExitOnError)
	name := fs.String("name", "", "event name")
	tier := fs.Int("tier", 1, "event tier")
	startWeekend := fs.String("start-weekend", "", "start weekend (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*startWeekend) == "" {
		return fmt.Errorf("append-event requires -name and -start-weekend")
	}

	return client.appendEvent(*name, *tier, *startWeekend)
}

func runScoreEvent(client *adminClient, args []string) error {
	fs := flag.NewFlagSet("score-event", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	finishersFile := fs.String("finishers-file", "", "path to a JSON array of player names, best finish first")
	finishers := fs.String("finishers", "", "comma separated player names, best finish first")
	_ = fs.Parse(args)

	if strings.TrimSpace(*eventID) == "" {
		return fmt.Errorf("score-event requires -event")
	}

	ordered, err := resolveFinishers(*finishersFile, *finishers)
	if err != nil {
		return err
	}
	if len(ordered) == 0 {
		return fmt.Errorf("score-event requires -finishers or -finishers-file")
	}

	return client.scoreEvent(*eventID, ordered)
}

func runResync(client *adminClient, args []string) error {
	fs := flag.NewFlagSet("resync", flag.ExitOnError)
	maxWorkers := fs.Int("max-workers", 0, "worker cap for the league fanout (0 uses the server default)")
	_ = fs.Parse(args)

	return client.resync(*maxWorkers)
}

func resolveFinishers(file, list string) ([]string, error) {
	if strings.TrimSpace(file) != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read finishers file: %w", err)
		}
		var ordered []string
		if err := sonic.Unmarshal(raw, &ordered); err != nil {
			return nil, fmt.Errorf("parse finishers file: %w", err)
		}
		return ordered, nil
	}

	if strings.TrimSpace(list) == "" {
		return nil, nil
	}

	parts := strings.Split(list, ",")
	ordered := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		ordered = append(ordered, name)
	}
	return ordered, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [flags]\n\n", prog)
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  seed-distributions            install the default tier distributions")
	fmt.Fprintln(os.Stderr, "  events                        list the event calendar")
	fmt.Fprintln(os.Stderr, "  append-event                  add an event (-name, -tier, -start-weekend)")
	fmt.Fprintln(os.Stderr, "  score-event                   score an event (-event, -finishers or -finishers-file)")
	fmt.Fprintln(os.Stderr, "  resync                        recompute all aggregates (-max-workers)")
	fmt.Fprintln(os.Stderr, "\nenvironment:")
	fmt.Fprintln(os.Stderr, "  ADMIN_API_BASE_URL            API base URL (default http://localhost:8080)")
	fmt.Fprintln(os.Stderr, "  INTERNAL_JOB_TOKEN            token for the internal job endpoints")
}
