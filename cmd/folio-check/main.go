// Command folio-check verifies that the configured backend is usable:
// it pings the sink, counts persisted transactions and lists the
// category override rules. Run it after changing credentials or
// environment before trusting an import.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"folio/internal/backend"
	"folio/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration invalid:\n%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("backend: %s\n", cfg.DataBackend)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, closeSink, err := backend.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend init failed: %v\n", err)
		os.Exit(1)
	}
	defer closeSink()

	if err := sink.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ping failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("ping: ok")

	rows, err := sink.ReadAllRows(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read transactions failed: %v\n", err)
		os.Exit(1)
	}
	count := len(rows)
	if count > 0 {
		count--
	}
	fmt.Printf("transactions: %d\n", count)

	rules, err := sink.ListRules(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read category rules failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("override rules: %d\n", len(rules))
	fmt.Println("ok")
}
