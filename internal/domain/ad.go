package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of listing categories.
type Category string

const (
	CategoryClothing    Category = "CLOTHING"
	CategoryTools       Category = "TOOLS"
	CategorySports      Category = "SPORTS"
	CategoryAccessories Category = "ACCESSORIES"
	CategoryFurniture   Category = "FURNITURE"
	CategoryPets        Category = "PETS"
	CategoryGames       Category = "GAMES"
	CategoryBooks       Category = "BOOKS"
	CategoryTechnology  Category = "TECHNOLOGY"
)

var Categories = []Category{
	CategoryClothing,
	CategoryTools,
	CategorySports,
	CategoryAccessories,
	CategoryFurniture,
	CategoryPets,
	CategoryGames,
	CategoryBooks,
	CategoryTechnology,
}

// ParseCategory matches a raw string against the category set,
// case-insensitively.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToUpper(raw))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category: %s", raw)
}

type Ad struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"imageUrl"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    Category  `json:"category" gorm:"not null"`
	City        string    `json:"city" gorm:"not null"`
	PostDate    time.Time `json:"postDate" gorm:"not null;index:idx_ads_post_date,sort:desc"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	User        User      `json:"seller" gorm:"foreignKey:UserID"`
}
