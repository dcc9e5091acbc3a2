package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform staff account (síndico, doorkeeper or super admin)
// that signs into the admin surface with email and password. Residents do
// not use this table; they reach the app through magic links issued by the
// identity provider.
type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	FullName      string         `gorm:"size:255" json:"full_name"`
	Phone         string         `gorm:"size:30" json:"phone"`
	CondominiumID *uuid.UUID     `gorm:"type:uuid;index" json:"condominium_id"` // nil for platform super admins
	Roles         []Role         `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	IsSuperAdmin  bool           `gorm:"default:false" json:"is_super_admin"`
	LastLoginAt   *time.Time     `json:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasRole checks if the user carries a specific role
func (u *User) HasRole(roleCode string) bool {
	if u.IsSuperAdmin {
		return true
	}
	for _, role := range u.Roles {
		if role.Code == roleCode && role.IsActive {
			return true
		}
	}
	return false
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserCreateRequest struct {
	Email         string      `json:"email" validate:"required,email"`
	Password      string      `json:"password" validate:"required,min=6"`
	FullName      string      `json:"full_name" validate:"max=255"`
	Phone         string      `json:"phone" validate:"max=30"`
	CondominiumID *uuid.UUID  `json:"condominium_id"`
	RoleIDs       []uuid.UUID `json:"role_ids"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	FullName      string         `json:"full_name"`
	Phone         string         `json:"phone"`
	CondominiumID *uuid.UUID     `json:"condominium_id"`
	Roles         []RoleResponse `json:"roles,omitempty"`
	IsActive      bool           `json:"is_active"`
	IsSuperAdmin  bool           `json:"is_super_admin"`
	LastLoginAt   *time.Time     `json:"last_login_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int64        `json:"expires_in,omitempty"` // seconds until access token expires
}

func ToUserResponse(user *User) UserResponse {
	resp := UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Phone:         user.Phone,
		CondominiumID: user.CondominiumID,
		IsActive:      user.IsActive,
		IsSuperAdmin:  user.IsSuperAdmin,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
	}
	for _, role := range user.Roles {
		resp.Roles = append(resp.Roles, ToRoleResponse(&role))
	}
	return resp
}
