package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"platereader/pkg/config"
	"platereader/pkg/logging"
	"platereader/pkg/plate"
	"platereader/pkg/store"
	"platereader/process/batch"
)

// Scans a directory of plate crops, writes the pipe-delimited report and
// optionally keeps watching for new files.
func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logging.SetLevel(cfg.LogLevel)

	dir := flag.String("dir", "extracted_plates", "directory of plate crops")
	profile := flag.String("profile", string(cfg.Profile), "generic or indian")
	out := flag.String("out", "", "report path (default plate_texts.txt / indian_plates.txt)")
	gpu := flag.Bool("gpu", cfg.GPU, "request GPU acceleration from the recognizer")
	lang := flag.String("lang", cfg.Language, "tesseract language")
	workers := flag.Int("workers", 1, "files read concurrently")
	watch := flag.Bool("watch", false, "keep watching dir for new images after the scan")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	if *verbose {
		logging.SetLevel(logging.LevelDebug)
	}
	p, err := plate.ParseProfile(*profile)
	if err != nil {
		logging.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &batch.Runner{
		Reader:  plate.NewReader(plate.Config{Profile: p, Language: *lang, GPU: *gpu}),
		Out:     *out,
		Workers: *workers,
		RunID:   uuid.NewString(),
	}
	switch st, err := store.Open(cfg.DBDSN); {
	case err == nil:
		runner.Store = st
		logging.Infof("storing results under run %s", runner.RunID)
	case errors.Is(err, store.ErrNoDSN):
	default:
		logging.Warnf("result store disabled: %v", err)
	}

	if *watch {
		if _, err := runner.RunAndWatch(ctx, *dir); err != nil {
			logging.Fatalf("watch failed: %v", err)
		}
		return
	}
	if _, err := runner.Run(ctx, *dir); err != nil {
		logging.Errorf("run failed: %v", err)
		os.Exit(1)
	}
}
