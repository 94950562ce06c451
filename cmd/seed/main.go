package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/contactshub/contacts-api/config"
	"github.com/contactshub/contacts-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"
	fullName := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id
	`, email, hash, fullName, "").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	contacts := []struct {
		first, last, email, phone, birthday, info string
	}{
		{"Alice", "Anderson", "alice@example.com", "+15550100", "1990-09-02", "met at meetup"},
		{"Bob", "Brown", "bob@example.com", "+15550101", "1985-12-24", ""},
		{"Carol", "Clark", "carol@example.com", "+15550102", "1992-03-14", "work"},
	}
	for _, c := range contacts {
		if _, err := db.Exec(`
			INSERT INTO contacts (user_id, first_name, last_name, email, phone, birthday, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT DO NOTHING
		`, id, c.first, c.last, c.email, c.phone, c.birthday, c.info); err != nil {
			log.Fatalf("failed to seed contact %s: %v", c.email, err)
		}
	}
	fmt.Printf("seeded %d contacts for user %s\n", len(contacts), id)
}
