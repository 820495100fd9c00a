package dto

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	uModel "lms_backend/internals/features/users/user/model"
)

var validate = uModel.NewValidator()

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// RegisterRequest: register user baru (password di-hash di repository)
type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,role"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
}

func (r *RegisterRequest) Validate() error {
	r.Normalize()
	return validate.Struct(r)
}

// ToModel: hash sudah dihitung pemanggil
func (r *RegisterRequest) ToModel(id, passwordHash string) *uModel.UserModel {
	role := uModel.Role(r.Role)
	if !role.Valid() {
		role = uModel.RoleStudent
	}
	return &uModel.UserModel{
		ID:           id,
		UserName:     r.UserName,
		Email:        r.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}
}

// UpdateProfileRequest: PATCH, field nil tidak diubah
type UpdateProfileRequest struct {
	UserName    *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Sex         *string `json:"sex" validate:"omitempty,oneof=male female"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}

// Apply menulis field yang diisi ke model
func (r *UpdateProfileRequest) Apply(u *uModel.UserModel) error {
	if r.UserName != nil {
		u.UserName = strings.TrimSpace(*r.UserName)
	}
	if r.Phone != nil {
		u.Phone = emptyToNil(*r.Phone)
	}
	if r.Sex != nil {
		u.Sex = emptyToNil(*r.Sex)
	}
	if r.AvatarURL != nil {
		u.AvatarURL = emptyToNil(*r.AvatarURL)
	}
	if r.DateOfBirth != nil {
		s := strings.TrimSpace(*r.DateOfBirth)
		if s == "" {
			u.DateOfBirth = nil
			return nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return errors.New("date_of_birth harus YYYY-MM-DD")
		}
		d := datatypes.Date(t)
		u.DateOfBirth = &d
	}
	return nil
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validate.Struct(r)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validate.Struct(r)
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (r *ResetPasswordRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	return validate.Struct(r)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

// UserResponse: tanpa password hash & reset token
type UserResponse struct {
	ID          string  `json:"id"`
	UserName    string  `json:"user_name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Sex         *string `json:"sex,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func FromModel(u *uModel.UserModel) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		Sex:       u.Sex,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	if u.DateOfBirth != nil {
		s := time.Time(*u.DateOfBirth).Format("2006-01-02")
		resp.DateOfBirth = &s
	}
	return resp
}
