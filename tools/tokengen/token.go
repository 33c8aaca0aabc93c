// Command tokengen mints a JWT for the admin/ops routes. The subject claim
// identifies the operator triggering imports or reading stats; it is unrelated
// to the user_id the public catalog endpoints accept.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	operator := flag.String("operator", "", "operator identity to embed in the token (required)")
	secret := flag.String("secret", "", "HMAC signing secret (or set JWT_SECRET env var)")
	expiry := flag.Duration("exp", 24*time.Hour, "token expiry duration (e.g. 1h, 72h)")
	flag.Parse()

	if *operator == "" {
		fmt.Fprintln(os.Stderr, "error: -operator flag is required")
		flag.Usage()
		os.Exit(1)
	}

	signingSecret := *secret
	if signingSecret == "" {
		signingSecret = os.Getenv("JWT_SECRET")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": *operator,
		"iat": now.Unix(),
		"exp": now.Add(*expiry).Unix(),
	}

	var signed string
	if signingSecret == "" {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		var err error
		signed, err = token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating token: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Warning: token is unsigned (alg=none); do not use in production")
	} else {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		var err error
		signed, err = token.SignedString([]byte(signingSecret))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error signing token: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "Token for operator %s (expires %s):\n", *operator, now.Add(*expiry).Format(time.RFC3339))
	fmt.Println(signed)
}
