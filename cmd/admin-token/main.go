package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"nft-gate.backend/internal/config"
	"nft-gate.backend/pkg/jwt"
)

const defaultTokenTTL = 24 * time.Hour

type adminTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	out     io.Writer
}

func defaultAdminTokenDeps() adminTokenDeps {
	return adminTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		out:     os.Stdout,
	}
}

func parseOperator(operator string) (string, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", fmt.Errorf("--operator is required")
	}
	return operator, nil
}

func runAdminToken(args []string, deps adminTokenDeps) error {
	def := defaultAdminTokenDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("admin-token", flag.ContinueOnError)
	operatorFlag := fs.String("operator", "", "operator name recorded in the token (required)")
	ttlFlag := fs.Duration("ttl", defaultTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	operator, err := parseOperator(*operatorFlag)
	if err != nil {
		return err
	}
	if *ttlFlag <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	token, err := svc.GenerateToken(operator, jwt.RoleAdmin, *ttlFlag)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created ADMIN token")
	_, _ = fmt.Fprintf(deps.out, "operator=%s\n", operator)
	_, _ = fmt.Fprintf(deps.out, "expires_in=%s\n", ttlFlag.String())
	_, _ = fmt.Fprintf(deps.out, "TOKEN=%s\n", token)
	return nil
}

func main() {
	if err := runAdminToken(os.Args[1:], defaultAdminTokenDeps()); err != nil {
		log.Fatal(err)
	}
}
