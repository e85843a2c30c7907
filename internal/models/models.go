package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	UID          uuid.UUID `gorm:"type:uuid;primaryKey"    json:"uid"`
	Username     string    `gorm:"not null"                json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"    json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `gorm:"not null"                json:"-"`
	IsVerified   bool      `gorm:"default:false"           json:"is_verified"`
	Role         string    `gorm:"not null;default:USER"   json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	return nil
}

type Book struct {
	UID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	Title         string    `gorm:"not null"             json:"title"`
	Author        string    `gorm:"not null"             json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate time.Time `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	UserUID       uuid.UUID `gorm:"type:uuid;index"      json:"user_uid"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.UID == uuid.Nil {
		b.UID = uuid.New()
	}
	return nil
}

type Review struct {
	UID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	UserUID    uuid.UUID `gorm:"type:uuid;index"      json:"user_uid"`
	BookUID    uuid.UUID `gorm:"type:uuid;index"      json:"book_uid"`
	Rating     int       `gorm:"not null"             json:"rating"`
	ReviewText string    `gorm:"not null"             json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.UID == uuid.Nil {
		r.UID = uuid.New()
	}
	return nil
}
