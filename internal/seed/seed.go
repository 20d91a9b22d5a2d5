// Package seed populates a development database with fake users and
// listings. It runs once at startup when DB_SEED is set and is skipped
// when users already exist.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/repository"
)

const (
	userCount = 10
	adCount   = 100
)

// Every seeded user gets this password so developers can log in as any
// of them.
const seedPassword = "password"

func Run(ctx context.Context, repos *repository.Repositories) error {
	count, err := repos.User.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Println("database already seeded, skipping")
		return nil
	}

	log.Println("seeding database...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := make([]*domain.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := &domain.User{
			ID:               uuid.New(),
			Username:         gofakeit.Username(),
			PasswordHash:     string(hashedPassword),
			PhoneNumber:      gofakeit.Phone(),
			RegistrationDate: datatypes.Date(time.Now().AddDate(0, 0, -gofakeit.Number(1, 365))),
		}
		if err := repos.User.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}

	for i := 0; i < adCount; i++ {
		owner := users[gofakeit.Number(0, len(users)-1)]
		ad := &domain.Ad{
			ID:          uuid.New(),
			Name:        gofakeit.ProductName(),
			Description: gofakeit.Paragraph(1, 3, 12, " "),
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/400/300", gofakeit.Word()),
			Price:       gofakeit.Price(10, 1000),
			Category:    domain.Categories[gofakeit.Number(0, len(domain.Categories)-1)],
			City:        gofakeit.City(),
			PostDate:    time.Now().AddDate(0, 0, -gofakeit.Number(0, 30)),
			UserID:      owner.ID,
		}
		if err := repos.Ad.Create(ctx, ad); err != nil {
			return fmt.Errorf("failed to seed ad: %w", err)
		}
	}

	log.Printf("seeded %d users and %d ads", userCount, adCount)
	return nil
}
