package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"server/internal/middleware"
)

// Mints a development bearer token for local testing. The plan claim is a
// hint; the API resolves the real plan from the users table on every request.
func main() {
	var (
		userFlag string
		planFlag string
		ttlFlag  time.Duration
	)

	flag.StringVar(&userFlag, "user", "", "user ID to embed as the token subject (UUID)")
	flag.StringVar(&planFlag, "plan", "free", "plan hint to embed (free, premium)")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		exitWithError(errors.New("-user is required"))
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		exitWithError(errors.New("JWT_SECRET is required"))
	}

	token, err := middleware.SignJWT(secret, middleware.TokenClaims{
		Sub:  userID,
		Plan: strings.TrimSpace(strings.ToLower(planFlag)),
		Exp:  time.Now().Add(ttlFlag).Unix(),
	})
	if err != nil {
		exitWithError(fmt.Errorf("failed to sign token: %w", err))
	}
	fmt.Println(token)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
