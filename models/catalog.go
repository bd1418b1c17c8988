package models

import "time"

// Astrologer is a catalog entity; plain pass-through data access with a
// uniqueness constraint on the name.
type Astrologer struct {
	ID              string    `bson:"id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Expertise       string    `bson:"expertise" json:"expertise"`
	Languages       string    `bson:"languages,omitempty" json:"languages"`
	Reviews         int       `bson:"reviews" json:"reviews"`
	Rating          float64   `bson:"rating" json:"rating"`
	Experience      int       `bson:"experience" json:"experience"`
	Avatar          string    `bson:"avatar,omitempty" json:"avatar"`
	About           string    `bson:"about,omitempty" json:"about"`
	Specializations []string  `bson:"specializations" json:"specializations"`
	Plans           []Plan    `bson:"plans" json:"plans"`
	Gallery         []string  `bson:"gallery" json:"gallery"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	ConsultationURL string    `bson:"consultationUrl,omitempty" json:"consultationUrl"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Plan is a consultation package offered by an astrologer or a ritual.
type Plan struct {
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Duration int     `bson:"duration" json:"duration"` // minutes
}

// Puja is a ritual package catalog entity, unique by name.
type Puja struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Duration    int       `bson:"duration,omitempty" json:"duration"`
	Image       string    `bson:"image,omitempty" json:"image"`
	Benefits    []string  `bson:"benefits" json:"benefits"`
	Reviews     int       `bson:"reviews" json:"reviews"`
	Rating      float64   `bson:"rating" json:"rating"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Banner is a website banner; public listing returns at most four active
// banners ordered by their position.
type Banner struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	ImageURL  string    `bson:"imageUrl" json:"imageUrl"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	Order     int       `bson:"order" json:"order"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Admin is a dashboard user account.
type Admin struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
