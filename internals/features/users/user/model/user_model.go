package model

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// Validator instance, dengan tag "role"
var validate = NewValidator()

// NewValidator: validator.New plus tag "role" (lihat Role.Valid).
func NewValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("role", validateRole); err != nil {
		panic(err)
	}
	return v
}

func validateRole(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// UserModel merepresentasikan tabel users di cache lokal.
// id, email dan username masing-masing unik.
type UserModel struct {
	ID           string `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	UserName     string `gorm:"column:user_name;size:50;not null;uniqueIndex:uq_users_user_name" json:"user_name" validate:"required,min=3,max=50"`
	Email        string `gorm:"column:email;size:255;not null;uniqueIndex:uq_users_email" json:"email" validate:"required,email"`
	PasswordHash string `gorm:"column:password_hash;not null;default:''" json:"-"` // kosong untuk user hasil sinkron remote
	Role         Role   `gorm:"column:role;type:varchar(20);not null;default:'student'" json:"role" validate:"required,role"`

	ResetToken       *string    `gorm:"column:reset_token;size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry" json:"-"`

	Phone       *string         `gorm:"column:phone;size:32" json:"phone,omitempty"`
	DateOfBirth *datatypes.Date `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Sex         *string         `gorm:"column:sex;size:16" json:"sex,omitempty"`
	AvatarURL   *string         `gorm:"column:avatar_url;type:text" json:"avatar_url,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

// SetDefaultValues memastikan nilai default sebelum validasi
func (u *UserModel) SetDefaultValues() {
	u.UserName = strings.TrimSpace(u.UserName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleStudent
	}
}

// Validate memeriksa apakah input sesuai aturan yang telah didefinisikan
func (u *UserModel) Validate() error {
	u.SetDefaultValues()

	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ResetTokenValid: token cocok dan belum kedaluwarsa pada waktu now.
func (u *UserModel) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetToken == nil || u.ResetTokenExpiry == nil || token == "" {
		return false
	}
	return *u.ResetToken == token && now.Before(*u.ResetTokenExpiry)
}

// formatValidationError mengubah error validasi menjadi format yang lebih jelas
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	var b strings.Builder
	for _, fieldErr := range validationErrs {
		b.WriteString(fieldErr.Field())
		b.WriteString(": ")
		switch fieldErr.Tag() {
		case "required":
			b.WriteString("wajib diisi")
		case "email":
			b.WriteString("format email tidak valid")
		case "min":
			b.WriteString("minimal " + fieldErr.Param() + " karakter")
		case "max":
			b.WriteString("maksimal " + fieldErr.Param() + " karakter")
		case "oneof":
			b.WriteString("harus salah satu dari " + fieldErr.Param())
		case "role":
			b.WriteString("role tidak dikenal")
		default:
			b.WriteString("format tidak valid")
		}
		b.WriteString("; ")
	}
	return errors.New(strings.TrimSuffix(b.String(), "; "))
}
