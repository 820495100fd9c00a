package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	database "lms_backend/internals/databases"
	"lms_backend/internals/features/users/user/accessor"
	"lms_backend/internals/features/users/user/dto"
	"lms_backend/internals/features/users/user/model"
	"lms_backend/internals/helpers/state"
	"lms_backend/internals/remote"
)

// ResetTokenTTL masa berlaku token reset password.
const ResetTokenTTL = time.Hour

var (
	ErrInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "email atau password salah")
	ErrInvalidResetToken  = fiber.NewError(fiber.StatusBadRequest, "token reset tidak valid atau sudah kedaluwarsa")
)

type UserRepository interface {
	Register(ctx context.Context, req dto.RegisterRequest) *state.Stream[model.UserModel]
	// Authenticate murni lokal (bcrypt compare), tidak menerbitkan token.
	Authenticate(ctx context.Context, email, password string) (*model.UserModel, error)
	FetchProfile(ctx context.Context, id string, opts state.FetchOptions) *state.Stream[*model.UserModel]
	UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) *state.Stream[model.UserModel]
	// RequestPasswordReset: token dikirim remote lewat email; stream berisi waktu kedaluwarsa.
	RequestPasswordReset(ctx context.Context, email string) *state.Stream[time.Time]
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) *state.Stream[model.UserModel]
}

type userRepository struct {
	backend remote.Backend
	users   accessor.Users
	now     func() time.Time
}

func NewUserRepository(store *database.Store, backend remote.Backend) UserRepository {
	return &userRepository{
		backend: backend,
		users:   accessor.NewUsers(store),
		now:     time.Now,
	}
}

// WithClock dipakai test untuk menggeser waktu.
func WithClock(r UserRepository, now func() time.Time) UserRepository {
	if ur, ok := r.(*userRepository); ok {
		ur.now = now
	}
	return r
}

type registerPayload struct {
	ID       string     `json:"id"`
	UserName string     `json:"user_name"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Password string     `json:"password"`
}

func (r *userRepository) Register(ctx context.Context, req dto.RegisterRequest) *state.Stream[model.UserModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.UserModel, error) {
		if err := req.Validate(); err != nil {
			return model.UserModel{}, database.InvalidEntity("register", "user", err)
		}
		if err := r.ensureUnique(ctx, req.Email, req.UserName); err != nil {
			return model.UserModel{}, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return model.UserModel{}, err
		}
		u := req.ToModel(uuid.NewString(), string(hash))

		res, err := r.backend.Submit(ctx, remote.KindUsers, registerPayload{
			ID: u.ID, UserName: u.UserName, Email: u.Email, Role: u.Role, Password: req.Password,
		})
		if err != nil {
			return model.UserModel{}, err
		}
		// remote boleh mengganti id / profil; hash tetap milik lokal
		if err := res.Decode(u); err != nil {
			return model.UserModel{}, err
		}
		u.PasswordHash = string(hash)
		if err := ctx.Err(); err != nil {
			return model.UserModel{}, err
		}

		if _, err := r.users.Insert(ctx, u); err != nil {
			return model.UserModel{}, err
		}
		log.Printf("[INFO] 👤 User %s terdaftar (%s)", u.UserName, u.Role)
		return *u, nil
	}, nil)
}

func (r *userRepository) ensureUnique(ctx context.Context, email, username string) error {
	if _, err := r.users.GetByEmail(ctx, email); err == nil {
		return database.InvalidEntity("register", "user", errors.New("email sudah terdaftar"))
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	if _, err := r.users.GetByUsername(ctx, username); err == nil {
		return database.InvalidEntity("register", "user", errors.New("username sudah dipakai"))
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	return nil
}

func (r *userRepository) Authenticate(ctx context.Context, email, password string) (*model.UserModel, error) {
	u, err := r.users.GetByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (r *userRepository) FetchProfile(ctx context.Context, id string, opts state.FetchOptions) *state.Stream[*model.UserModel] {
	return state.Load(ctx, state.Source[*model.UserModel, []model.UserModel]{
		Cache: func(ctx context.Context) (*model.UserModel, error) {
			u, err := r.users.GetByID(ctx, id)
			if errors.Is(err, database.ErrNotFound) {
				return nil, nil
			}
			return u, err
		},
		IsEmpty: state.Nil[model.UserModel],
		Fetch: func(ctx context.Context) ([]model.UserModel, error) {
			res, err := r.backend.Fetch(ctx, remote.KindUsers, remote.Filter{"id": id})
			if err != nil {
				return nil, err
			}
			return remote.As[[]model.UserModel](res)
		},
		Save: func(ctx context.Context, rows []model.UserModel) error {
			return r.users.Upsert(ctx, rows...)
		},
	}, opts.Refresh)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) *state.Stream[model.UserModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.UserModel, error) {
		if err := req.Validate(); err != nil {
			return model.UserModel{}, database.InvalidEntity("update", "user", err)
		}
		u, err := r.users.GetByID(ctx, id)
		if err != nil {
			return model.UserModel{}, err
		}
		if err := req.Apply(u); err != nil {
			return model.UserModel{}, database.InvalidEntity("update", "user", err)
		}
		if err := u.Validate(); err != nil {
			return model.UserModel{}, database.InvalidEntity("update", "user", err)
		}

		if _, err := r.backend.Submit(ctx, remote.KindUsers, u); err != nil {
			return model.UserModel{}, err
		}
		if err := ctx.Err(); err != nil {
			return model.UserModel{}, err
		}
		if err := r.users.Update(ctx, u); err != nil {
			return model.UserModel{}, err
		}
		return *u, nil
	}, nil)
}

type resetRequestPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *userRepository) RequestPasswordReset(ctx context.Context, email string) *state.Stream[time.Time] {
	return state.Submit(ctx, func(ctx context.Context) (time.Time, error) {
		u, err := r.users.GetByEmail(ctx, email)
		if err != nil {
			return time.Time{}, err
		}
		token := uuid.NewString()
		expiry := r.now().UTC().Add(ResetTokenTTL)

		if _, err := r.backend.Submit(ctx, remote.KindPasswordReset, resetRequestPayload{
			Email: u.Email, Token: token, ExpiresAt: expiry,
		}); err != nil {
			return time.Time{}, err
		}
		if err := ctx.Err(); err != nil {
			return time.Time{}, err
		}

		u.ResetToken = &token
		u.ResetTokenExpiry = &expiry
		if err := r.users.Update(ctx, u); err != nil {
			return time.Time{}, err
		}
		log.Printf("[INFO] 🔑 Token reset password dibuat untuk %s", u.Email)
		return expiry, nil
	}, nil)
}

type resetPasswordPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *userRepository) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) *state.Stream[model.UserModel] {
	return state.Submit(ctx, func(ctx context.Context) (model.UserModel, error) {
		if err := req.Validate(); err != nil {
			return model.UserModel{}, database.InvalidEntity("reset", "user", err)
		}
		u, err := r.users.GetByResetToken(ctx, req.Token)
		if errors.Is(err, database.ErrNotFound) {
			return model.UserModel{}, ErrInvalidResetToken
		}
		if err != nil {
			return model.UserModel{}, err
		}
		if !u.ResetTokenValid(req.Token, r.now()) {
			return model.UserModel{}, ErrInvalidResetToken
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return model.UserModel{}, err
		}
		if _, err := r.backend.Submit(ctx, remote.KindPasswordReset, resetPasswordPayload{
			Token: req.Token, Password: req.NewPassword,
		}); err != nil {
			return model.UserModel{}, err
		}
		if err := ctx.Err(); err != nil {
			return model.UserModel{}, err
		}

		u.PasswordHash = string(hash)
		u.ResetToken = nil
		u.ResetTokenExpiry = nil
		if err := r.users.Update(ctx, u); err != nil {
			return model.UserModel{}, err
		}
		return *u, nil
	}, nil)
}
