package auth

import (
	"context"
	"errors"
	"log"

	"github.com/memorizabiblia/memoriza-api/internal/mail"
	"github.com/memorizabiblia/memoriza-api/pkg/util"
)

type AuthService struct {
	repo Repository
	mail *mail.Mailer
}

func NewAuthService(repo Repository, mail *mail.Mailer) AuthService {
	return AuthService{
		repo: repo,
		mail: mail,
	}
}

func (h *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" || len(req.Password) < 6 {
		return nil, errors.New("email and a password of at least 6 characters are required")
	}

	hashed, err := util.HashPasswordBcrypt(req.Password)
	if err != nil {
		return nil, err
	}

	user := User{Email: req.Email, Password: hashed, DisplayName: req.DisplayName}
	if _, err := h.repo.CreateUser(ctx, user); err != nil {
		log.Printf("register failed for %s: %v", req.Email, err)
		return nil, err
	}

	loggedIn, err := h.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if h.mail != nil {
		data := map[string]interface{}{
			"Name": loggedIn.DisplayName,
			"URL":  "https://memorizabiblia.com.br",
		}
		// Send welcome mail asynchronously
		go func() {
			if err := h.mail.SendHTML(req.Email, "🎉 Bem-vindo ao MemorizaBíblia", "welcome.html", data); err != nil {
				log.Printf("failed to send welcome email: %v", err)
			}
		}()
	}

	return loggedIn, nil
}

func (h *AuthService) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := h.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := util.ComparePasswordBcrypt(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	user.Token = token
	user.Password = ""
	return user, nil
}

func (h *AuthService) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (h *AuthService) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) error {
	if req.DisplayName != "" {
		if err := h.repo.UpdateDisplayName(ctx, id, req.DisplayName); err != nil {
			return err
		}
	}

	if req.NewPassword != "" {
		if len(req.NewPassword) < 6 {
			return errors.New("password must have at least 6 characters")
		}
		hashed, err := util.HashPasswordBcrypt(req.NewPassword)
		if err != nil {
			return err
		}
		if err := h.repo.UpdateUserPassword(ctx, id, hashed); err != nil {
			return err
		}
	}

	return nil
}
