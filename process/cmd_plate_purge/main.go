package main

import (
	"context"
	"flag"
	"os"
	"time"

	"platereader/pkg/config"
	"platereader/pkg/logging"
	"platereader/pkg/store"
	"platereader/process/sanitize"
)

func main() {
	config.LoadDotEnv()
	var (
		dryRun    = flag.Bool("dry-run", true, "Don't delete; show how many records would go")
		yes       = flag.Bool("yes", false, "Confirm deletion (required with --dry-run=false)")
		run       = flag.String("run", "", "only purge this run id")
		olderThan = flag.Duration("older-than", 0, "only purge records older than this (e.g. 720h)")
	)
	flag.Parse()

	st, err := store.Open(config.Load().DBDSN)
	if err != nil {
		logging.Fatalf("%v; DB_DSN must be set to purge", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	opts := sanitize.Options{RunID: *run, OlderThan: *olderThan, DryRun: *dryRun, Yes: *yes}
	if _, err := sanitize.Run(ctx, st, opts, os.Stdout); err != nil {
		logging.Fatalf("purge failed: %v", err)
	}
}
