// Command tokengen mints API tokens for smart-home integrations.
package main

import (
	"fmt"
	"os"

	"fritz-tickets/internal/auth"
	"fritz-tickets/internal/config"

	"github.com/jaevor/go-nanoid"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to settings file")
	client := pflag.String("client", "home-assistant", "name of the integration the token is for")
	ttl := pflag.Duration("ttl", 0, "token lifetime, 0 for no expiry")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	generateID, err := nanoid.Standard(21)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot initialize id generator: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.GenerateJWT(*client, generateID(), *ttl, cfg.JWT.Secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
