package main

import (
	"flag"
	"fmt"
	"log"
	"slices"

	"github.com/joho/godotenv"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/middleware"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Define command line flags
	userID := flag.String("user", "", "User ID for the token")
	role := flag.String("role", string(domain.RoleTenantAdmin), "SUPER_ADMIN, TENANT_ADMIN, STAFF or END_USER")
	expirationHours := flag.Int("exp", 24, "Token expiration in hours")
	tenantID := flag.String("tenant", "", "Tenant ID for the token (empty for SUPER_ADMIN)")
	flag.Parse()

	if *userID == "" {
		log.Fatal("User ID is required")
	}
	if !slices.Contains(domain.ValidRoles, domain.Role(*role)) {
		log.Fatalf("Unknown role %q", *role)
	}
	if *tenantID == "" && domain.Role(*role) != domain.RoleSuperAdmin {
		log.Fatal("Tenant ID is required for tenant roles")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	cfg.JWTExpirationHours = *expirationHours

	token, err := middleware.NewAuthMiddleware(cfg).GenerateToken(*userID, *tenantID, domain.Role(*role))
	if err != nil {
		log.Fatalf("Error signing token: %v", err)
	}

	fmt.Printf("Generated JWT Token:\n%s\n", token)
}
