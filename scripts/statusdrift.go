// Command statusdrift prints the listing status distribution of a
// deployment and flags any stored status values the catalog does not
// recognize. Meant to be run after data imports or schema migrations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/connectone/tradecore/internal/domain/listing"
	"github.com/connectone/tradecore/internal/infrastructure/postgres"
)

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	timeout := flag.Duration("timeout", 30*time.Second, "query timeout")
	failOnDrift := flag.Bool("fail-on-drift", false, "exit non-zero when drift is detected")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("no DSN: pass -dsn or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, *dsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewListingRepository(pool)
	raw, err := repo.ListRawStatuses(ctx)
	if err != nil {
		log.Fatalf("query error: %v", err)
	}

	report := struct {
		Stats       listing.StatusStats `json:"stats"`
		Drift       listing.Drift       `json:"drift"`
		GeneratedAt time.Time           `json:"generatedAt"`
	}{
		Stats:       listing.GenerateStatusStats(raw),
		Drift:       listing.DetectMissingStatuses(raw),
		GeneratedAt: time.Now().UTC(),
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("encode error: %v", err)
	}
	fmt.Println(string(out))

	if *failOnDrift && !report.Drift.Empty() {
		os.Exit(1)
	}
}
