package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/classhub/user-service/config"
	"github.com/classhub/user-service/pkg/helpers"
)

// Seeds the development admin account so a fresh database has a caller that
// can pass the admin gate.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "Peter_Zwegat"
	password := "password"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, password_hash, name, last_name, email, date_of_birth, global_role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO UPDATE SET global_role = EXCLUDED.global_role
		RETURNING id
	`, username, hash, "Peter", "Zwegat", "peter.zwegat@mni.thm.de", "1950-05-08", "ADMIN").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s username=%s password=%s\n", id, username, password)
}
