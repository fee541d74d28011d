package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/colabore/colabore-api/config"
	"github.com/colabore/colabore-api/pkg/helpers"
)

// Seeds a confirmed demo account plus a funded project with a paid boleto
// payment, enough data to exercise the refund and subscription endpoints
// locally.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@colabore.dev"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, public_name, permalink, account_type, confirmed_email_at)
		VALUES ($1, $2, $3, $4, $5, 'individual', now())
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, "Demo User", "Demo", "demo-user").Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, confirmed_email_at)
		VALUES ('owner@colabore.dev', $1, 'Project Owner', now())
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, hash).Scan(&ownerID)
	if err != nil {
		log.Fatalf("failed to seed project owner: %v", err)
	}

	var projectID string
	err = db.QueryRow(`
		INSERT INTO projects (user_id, state) VALUES ($1, 'failed')
		RETURNING id
	`, ownerID).Scan(&projectID)
	if err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}

	var contributionID string
	err = db.QueryRow(`
		INSERT INTO contributions (user_id, project_id, was_confirmed)
		VALUES ($1, $2, true)
		RETURNING id
	`, userID, projectID).Scan(&contributionID)
	if err != nil {
		log.Fatalf("failed to seed contribution: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO payments (contribution_id, state, gateway, payment_method, paid_at)
		VALUES ($1, 'paid', $2, 'BoletoBancario', now())
	`, contributionID, cfg.RefundGateway); err != nil {
		log.Fatalf("failed to seed payment: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO user_credits (user_id, credits) VALUES ($1, 25.00)
		ON CONFLICT (user_id) DO UPDATE SET credits = EXCLUDED.credits
	`, userID); err != nil {
		log.Fatalf("failed to seed credits: %v", err)
	}

	fmt.Printf("seeded project=%s with a paid boleto payment on a failed project\n", projectID)
}
