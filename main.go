package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"platereader/pkg/config"
	"platereader/pkg/logging"
	"platereader/pkg/plate"
)

var (
	jwtSecret []byte // from JWT_SECRET; empty leaves the routes open
	readers   map[plate.Profile]*plate.Reader
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logging.SetLevel(cfg.LogLevel)
	jwtSecret = []byte(cfg.JWTSecret)

	// `./platereader migrate` creates the plate_records table and exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := migrateStore(cfg.DBDSN); err != nil {
			logging.Fatalf("migrate: %v", err)
		}
		fmt.Println("migration completed")
		return
	}

	initStore(cfg.DBDSN)
	readers = newReaders(cfg)
	if len(jwtSecret) == 0 {
		logging.Warnf("JWT_SECRET not set; /recognize and /results are unauthenticated")
	}

	r := gin.Default()
	setupRoutes(r)
	logging.Infof("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logging.Fatalf("server: %v", err)
	}
}

func newReaders(cfg config.Config) map[plate.Profile]*plate.Reader {
	out := map[plate.Profile]*plate.Reader{}
	for _, p := range []plate.Profile{plate.ProfileGeneric, plate.ProfileIndian} {
		pc := cfg.PlateConfig()
		pc.Profile = p
		out[p] = plate.NewReader(pc)
	}
	return out
}
