package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dom/web-ads-backend/internal/domain"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username    string
	password    string
	phoneNumber string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username:    fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
		phoneNumber: "555-0100",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithPhoneNumber(phoneNumber string) *UserBuilder {
	b.phoneNumber = phoneNumber
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:               uuid.New(),
		Username:         b.username,
		PasswordHash:     string(hashedPassword),
		PhoneNumber:      b.phoneNumber,
		RegistrationDate: datatypes.Date(time.Now()),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AdBuilder creates test ads with a builder pattern
type AdBuilder struct {
	name        string
	description string
	imageURL    string
	price       float64
	category    domain.Category
	city        string
	postDate    time.Time
	ownerID     uuid.UUID
}

// NewAdBuilder creates a new AdBuilder owned by the given user
func NewAdBuilder(ownerID uuid.UUID) *AdBuilder {
	return &AdBuilder{
		name:     fmt.Sprintf("Test Ad %s", uuid.New().String()[:8]),
		price:    100,
		category: domain.CategoryTools,
		city:     "Test City",
		postDate: time.Now(),
		ownerID:  ownerID,
	}
}

func (b *AdBuilder) WithName(name string) *AdBuilder {
	b.name = name
	return b
}

func (b *AdBuilder) WithDescription(description string) *AdBuilder {
	b.description = description
	return b
}

func (b *AdBuilder) WithImageURL(imageURL string) *AdBuilder {
	b.imageURL = imageURL
	return b
}

func (b *AdBuilder) WithPrice(price float64) *AdBuilder {
	b.price = price
	return b
}

func (b *AdBuilder) WithCategory(category domain.Category) *AdBuilder {
	b.category = category
	return b
}

func (b *AdBuilder) WithCity(city string) *AdBuilder {
	b.city = city
	return b
}

func (b *AdBuilder) WithPostDate(postDate time.Time) *AdBuilder {
	b.postDate = postDate
	return b
}

// Build creates the ad in the database
func (b *AdBuilder) Build(t *testing.T, db *gorm.DB) *domain.Ad {
	t.Helper()

	ad := &domain.Ad{
		ID:          uuid.New(),
		Name:        b.name,
		Description: b.description,
		ImageURL:    b.imageURL,
		Price:       b.price,
		Category:    b.category,
		City:        b.city,
		PostDate:    b.postDate,
		UserID:      b.ownerID,
	}

	if err := db.Create(ad).Error; err != nil {
		t.Fatalf("failed to create ad: %v", err)
	}

	return ad
}

// LoginResponse matches the API login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	Username     string `json:"username"`
}

// BuildAndLogin creates a user directly in the database, then logs in via
// the API and returns the user together with the token pair.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *LoginResponse) {
	t.Helper()

	user, rawPassword := b.Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"password": rawPassword,
	})

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}

	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return user, &login
}

// AuthenticatedRequest performs an HTTP request with a bearer token
func AuthenticatedRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
