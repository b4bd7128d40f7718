package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aryan0dhankhar/realty/internal/domain"
	"github.com/aryan0dhankhar/realty/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/realty/internal/repository"
	"github.com/aryan0dhankhar/realty/internal/security/auth"
	"github.com/aryan0dhankhar/realty/pkg/config"
	"github.com/aryan0dhankhar/realty/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "token":
		err = mintToken(args)
	case "seed":
		err = seed(args)
	case "tenants":
		err = listTenants(args)
	case "listings":
		err = listListings(args)
	case "profiles":
		err = listProfiles(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

// mintToken prints a development access token signed with JWT_SECRET
func mintToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("user", "", "user id (profile id)")
	email := fs.String("email", "", "user email")
	roles := fs.String("roles", "", "comma-separated identity-level roles, e.g. admin")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	_ = fs.Parse(args)

	if *userID == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-user is required")
	}

	tm, err := tokenManager()
	if err != nil {
		return err
	}
	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}
	token, err := tm.GenerateToken(*userID, *email, roleList, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

// seed loads the demo agencies and prints a token for every staff member
func seed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	ttl := fs.Duration("ttl", 24*time.Hour, "lifetime of the printed tokens")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewConnectionPool(ctx, &database.Config{URL: cfg.DatabaseURL}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.Seed(ctx, pool.GetDB(), log); err != nil {
		return err
	}

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tROLE\tAGENCY\tTOKEN")
	for _, u := range repository.SeedUsers {
		token, err := tm.GenerateToken(u.ID, u.Email, []string{string(u.Role)}, *ttl)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Email, u.Role, u.Tenant, token)
	}
	return w.Flush()
}

func listTenants(args []string) error {
	_ = args
	var tenants []domain.Tenant
	if err := getJSON("/tenants", "", &tenants); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tNAME")
	for _, t := range tenants {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Slug, t.Name)
	}
	return w.Flush()
}

func listListings(args []string) error {
	fs := flag.NewFlagSet("listings", flag.ExitOnError)
	tenant := fs.String("tenant", "", "tenant id")
	_ = fs.Parse(args)
	if *tenant == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-tenant is required")
	}

	var body struct {
		Listings []domain.Listing `json:"listings"`
	}
	if err := getJSON("/listings/by-tenant/"+*tenant, "", &body); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tTITLE\tPRICE\tSTATUS")
	for _, l := range body.Listings {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", l.RefID, l.Title, l.Price, l.Status)
	}
	return w.Flush()
}

func listProfiles(args []string) error {
	fs := flag.NewFlagSet("profiles", flag.ExitOnError)
	tenant := fs.String("tenant", "", "tenant id")
	token := fs.String("token", os.Getenv("REALTY_TOKEN"), "access token (default $REALTY_TOKEN)")
	_ = fs.Parse(args)
	if *tenant == "" || *token == "" {
		fs.PrintDefaults()
		return fmt.Errorf("-tenant and -token are required")
	}

	var team []domain.ProfileSummary
	if err := getJSON("/profiles/by-tenant/"+*tenant, *token, &team); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE")
	for _, p := range team {
		name := ""
		if p.FullName != nil {
			name = *p.FullName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, name, p.Role)
	}
	return w.Flush()
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("REALTY_API"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:8080/api"
}

func getJSON(path, token string, dst any) error {
	req, err := http.NewRequest(http.MethodGet, getAPIURL()+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", req.Method, path, resp.StatusCode, e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func tokenManager() (*auth.TokenManager, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return auth.NewTokenManager(secret, os.Getenv("JWT_ISSUER")), nil
}

func printUsage() {
	fmt.Print(`Realty CLI

Usage:
  realty <command> [options]

Commands:
  token      Mint a development access token (needs JWT_SECRET)
  seed       Load the demo agencies, staff and listings, then print staff tokens
  tenants    List agencies
  listings   List an agency's listings (-tenant)
  profiles   List an agency's team (-tenant, -token)
  help       Show this help message

Environment Variables:
  REALTY_API      API endpoint (default: http://localhost:8080/api)
  REALTY_TOKEN    Access token used by the profiles command
  JWT_SECRET      Signing secret shared with the identity service

Examples:
  realty seed
  realty token -user 7c9e6679-7425-40de-944b-e07fc1f90ae7 -roles admin
  realty listings -tenant 3f2b0c1e-8d4a-4b6e-9c7d-1a2b3c4d5e6f
`)
}
