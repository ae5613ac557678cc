// Command seed loads the menu catalog and the owner account into the
// database. Safe to run repeatedly.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/config"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/database"
	"github.com/ikyorince101/dhaka-food-cart-khawa-dawa/internal/enum"
)

type menuSeed struct {
	id       string
	name     string
	price    string
	category string
}

var menu = []menuSeed{
	{"fuchka", "Fuchka", "8.00", enum.MenuCategorySnacks},
	{"doi-fuchka", "Doi Fuchka", "8.00", enum.MenuCategorySnacks},
	{"panipuri", "Panipuri", "8.00", enum.MenuCategorySnacks},
	{"bhelpuri", "Bhelpuri", "8.00", enum.MenuCategorySnacks},
	{"chotpoti", "Chotpoti", "8.00", enum.MenuCategorySnacks},
	{"jhalmuri", "Jhalmuri", "7.00", enum.MenuCategorySnacks},
	{"fruit-chaat", "Mango Chaat", "7.00", enum.MenuCategorySnacks},
	{"guava-chaat", "Guava Chaat", "7.00", enum.MenuCategorySnacks},
	{"singara", "Singara", "2.50", enum.MenuCategorySnacks},
	{"tea", "Chai", "1.50", enum.MenuCategoryBeverages},
	{"mango-lassi", "Mango Lassi", "3.50", enum.MenuCategoryBeverages},
	{"water", "Water", "1.00", enum.MenuCategoryBeverages},
	{"soda", "Soda", "2.00", enum.MenuCategoryBeverages},
}

func main() {
	cfg := config.Load()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	queries := database.New(pool)

	for _, m := range menu {
		price, err := priceNumeric(m.price)
		if err != nil {
			log.Fatalf("parse price for %s: %v", m.id, err)
		}
		if _, err := queries.UpsertMenuItem(ctx, database.UpsertMenuItemParams{
			ID:       m.id,
			Name:     m.name,
			Price:    price,
			Category: m.category,
		}); err != nil {
			log.Fatalf("seed menu item %s: %v", m.id, err)
		}
	}
	log.Printf("seeded %d menu items", len(menu))

	email := os.Getenv("OWNER_EMAIL")
	password := os.Getenv("OWNER_PASSWORD")
	if email == "" || password == "" {
		log.Println("OWNER_EMAIL/OWNER_PASSWORD not set, skipping owner account")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash owner password: %v", err)
	}
	if _, err := queries.UpsertStaff(ctx, database.UpsertStaffParams{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       "Owner",
		Role:           enum.StaffRoleOwner,
	}); err != nil {
		log.Fatalf("seed owner account: %v", err)
	}
	log.Printf("seeded owner account %s", email)
}

func priceNumeric(s string) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, err
	}
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}, nil
}
