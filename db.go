package main

import (
	"errors"

	"platereader/pkg/logging"
	"platereader/pkg/store"
)

// apiRunID groups results recognized through the HTTP service.
const apiRunID = "api"

var st *store.Store

// initStore opens the result store when a DSN is configured. Without it the service
// still recognizes but /results is always empty.
func initStore(dsn string) {
	s, err := store.Open(dsn)
	switch {
	case err == nil:
		st = s
	case errors.Is(err, store.ErrNoDSN):
		logging.Infof("DB_DSN not set; results are not stored")
	default:
		logging.Errorf("result store disabled: %v", err)
	}
}

func migrateStore(dsn string) error {
	s, err := store.Open(dsn)
	if err != nil {
		return err
	}
	return s.Migrate()
}
