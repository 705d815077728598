package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hondana/bookmarket-backend/internal/config"
	"github.com/hondana/bookmarket-backend/internal/db"
	"github.com/joho/godotenv"
)

type seedBook struct {
	Title       string
	Author      string
	Description string
	Price       int64
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	books := buildSeedBooks()

	canSeed, err := shouldSeed(ctx, sqlDB)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("listings already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sellers, err := insertSellers(ctx, tx, 4)
	if err != nil {
		return err
	}

	for idx, b := range books {
		seller := sellers[idx%len(sellers)]
		if err = insertListing(ctx, tx, b, seller, picsumURL(idx+1)); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("seeded %d listings across %d sellers", len(books), len(sellers))
	return nil
}

func buildSeedBooks() []seedBook {
	type shelf struct {
		Author string
		Titles []string
		Price  int64
	}
	shelves := []shelf{
		{Author: "Ursula K. Le Guin", Price: 9, Titles: []string{"The Dispossessed", "The Left Hand of Darkness", "A Wizard of Earthsea"}},
		{Author: "Haruki Murakami", Price: 11, Titles: []string{"Kafka on the Shore", "Norwegian Wood", "Hard-Boiled Wonderland and the End of the World"}},
		{Author: "Donald E. Knuth", Price: 38, Titles: []string{"The Art of Computer Programming, Vol. 1", "Concrete Mathematics"}},
		{Author: "Agatha Christie", Price: 6, Titles: []string{"Murder on the Orient Express", "And Then There Were None", "The ABC Murders"}},
		{Author: "Mary Beard", Price: 14, Titles: []string{"SPQR", "Pompeii"}},
		{Author: "Italo Calvino", Price: 10, Titles: []string{"Invisible Cities", "If on a winter's night a traveler"}},
		{Author: "Octavia E. Butler", Price: 12, Titles: []string{"Kindred", "Parable of the Sower"}},
	}

	var books []seedBook
	for _, s := range shelves {
		for i, t := range s.Titles {
			books = append(books, seedBook{
				Title:       t,
				Author:      s.Author,
				Description: fmt.Sprintf("Used copy of %q, light shelf wear, no markings inside.", t),
				Price:       s.Price + int64(i),
			})
		}
	}
	return books
}

func insertSellers(ctx context.Context, tx *sql.Tx, n int) ([]string, error) {
	sellers := make([]string, 0, n)
	for i := 0; i < n; i++ {
		uid := "seed-" + uuid.NewString()
		name := fmt.Sprintf("Seed Seller %d", i+1)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (uid, display_name) VALUES (?, ?)`,
			uid, name,
		); err != nil {
			return nil, fmt.Errorf("insert profile %q: %w", name, err)
		}
		sellers = append(sellers, uid)
	}
	return sellers, nil
}

func insertListing(ctx context.Context, tx *sql.Tx, b seedBook, sellerUID, imageURL string) error {
	title := strings.TrimSpace(b.Title)
	author := strings.TrimSpace(b.Author)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO books (title, author, description) VALUES (?, ?, ?)`,
		title, author, b.Description,
	)
	if err != nil {
		return fmt.Errorf("insert book %q: %w", title, err)
	}
	bookID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("book last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO listings (seller_uid, book_id, price, image_url, status) VALUES (?, ?, ?, ?, 'available')`,
		sellerUID, bookID, b.Price, imageURL,
	); err != nil {
		return fmt.Errorf("insert listing %q: %w", title, err)
	}
	return nil
}

func shouldSeed(ctx context.Context, sqlDB *sql.DB) (bool, error) {
	var cnt int
	if err := sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&cnt); err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	force := os.Getenv("FORCE_SEED")
	return strings.EqualFold(force, "true"), nil
}

func picsumURL(idx int) string {
	return fmt.Sprintf("https://picsum.photos/seed/book-%d/600/600", idx)
}
