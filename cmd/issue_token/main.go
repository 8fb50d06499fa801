package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"platereader/pkg/auth"
	"platereader/pkg/config"
)

func main() {
	config.LoadDotEnv()
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Println("usage: go run ./cmd/issue_token [-ttl 24h] <subject>")
		os.Exit(2)
	}
	secret := config.Load().JWTSecret
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET not set in environment")
		os.Exit(2)
	}
	tok, err := auth.Issue([]byte(secret), flag.Arg(0), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
