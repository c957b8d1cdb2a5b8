package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"clarity/internal/config"
	"clarity/internal/db"
	"clarity/internal/model"
	"clarity/internal/repository"
)

const (
	demoEmail    = "demo@clarity.local"
	demoPassword = "demo-password"
	demoName     = "Demo User"
)

type seedTransaction struct {
	amount      string
	category    string
	description string
	txType      model.TransactionType
	monthsAgo   int
	day         int
}

var seedTransactions = []seedTransaction{
	{"3200.00", "salary", "monthly salary", model.TransactionTypeIncome, 0, 1},
	{"3200.00", "salary", "monthly salary", model.TransactionTypeIncome, 1, 1},
	{"3200.00", "salary", "monthly salary", model.TransactionTypeIncome, 2, 1},
	{"150.00", "freelance", "side project", model.TransactionTypeIncome, 1, 18},
	{"920.00", "rent", "", model.TransactionTypeExpense, 0, 3},
	{"920.00", "rent", "", model.TransactionTypeExpense, 1, 3},
	{"920.00", "rent", "", model.TransactionTypeExpense, 2, 3},
	{"240.50", "food", "groceries", model.TransactionTypeExpense, 0, 7},
	{"198.30", "food", "groceries", model.TransactionTypeExpense, 1, 9},
	{"61.20", "transport", "metro pass", model.TransactionTypeExpense, 0, 2},
	{"35.99", "entertainment", "streaming", model.TransactionTypeExpense, 1, 14},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Transaction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)

	if _, err := userRepo.FindByEmail(ctx, demoEmail); err == nil {
		log.Printf("Demo user %s already exists, nothing to do", demoEmail)
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to check demo user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user := &model.User{
		Email:        demoEmail,
		PasswordHash: string(hash),
		FullName:     demoName,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created demo user %s (id=%d)", user.Email, user.ID)

	now := time.Now().UTC()
	created := 0
	for _, seed := range seedTransactions {
		amount, err := decimal.NewFromString(seed.amount)
		if err != nil {
			log.Printf("Skipping seed row with invalid amount %q: %v", seed.amount, err)
			continue
		}

		date := time.Date(now.Year(), now.Month(), seed.day, 12, 0, 0, 0, time.UTC).
			AddDate(0, -seed.monthsAgo, 0)
		tx := &model.Transaction{
			Amount:      amount,
			Category:    seed.category,
			Description: seed.description,
			Type:        seed.txType,
			Date:        date,
			UserID:      user.ID,
		}
		if err := transactionRepo.Create(ctx, tx); err != nil {
			log.Fatalf("Failed to create seed transaction: %v", err)
		}
		created++
	}

	log.Printf("Seed complete: %d transactions for %s (password %q)", created, demoEmail, demoPassword)
}
