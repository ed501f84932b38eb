package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type UserType string

const (
	UserTypeBuyer     UserType = "BUYER"
	UserTypeWholesale UserType = "WHOLESALE"
)

type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("failed to scan StringArray: %v", value)
		}
	}
	return json.Unmarshal(bytes, a)
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

type User struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	Email             string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password          string     `gorm:"size:100;not null" json:"-"`
	Role              UserRole   `gorm:"size:10;default:USER" json:"role"`
	Active            bool       `gorm:"default:true" json:"active"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type GoogleUser struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	GoogleID  string      `gorm:"size:100;uniqueIndex;not null" json:"googleId"`
	Email     string      `gorm:"size:100;not null" json:"email"`
	Name      string      `gorm:"size:255" json:"name"`
	Avatar    *string     `gorm:"size:500" json:"avatar"`
	Discounts StringArray `gorm:"type:text" json:"discounts"`
	TypeUser  UserType    `gorm:"size:20;default:BUYER" json:"typeUser"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (g *GoogleUser) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
