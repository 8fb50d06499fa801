package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"platereader/pkg/config"
	"platereader/pkg/store"
	"platereader/process/report"
)

func main() {
	config.LoadDotEnv()
	run := flag.String("run", "", "run id to report (default: latest records)")
	limit := flag.Int("limit", 200, "maximum rows")
	flag.Parse()

	st, err := store.Open(config.Load().DBDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v; export DB_DSN and retry\n", err)
		os.Exit(2)
	}
	if err := report.RunReport(context.Background(), st, os.Stdout, *run, *limit); err != nil {
		fmt.Fprintf(os.Stderr, "report failed: %v\n", err)
		os.Exit(1)
	}
}
