package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"posguard/internal/config"
	"posguard/internal/dto"
	"posguard/internal/middleware"
	"posguard/internal/model"
	"posguard/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// Switch re-authenticates as another cashier mid-session. The new
	// token carries the new cashier's capability record; everything the
	// previous cashier had in flight keeps its old token until retried.
	Switch(ctx context.Context, req dto.SwitchRequest) (*dto.LoginResponse, error)
	ListCashiers(ctx context.Context) ([]dto.CashierResponse, error)
}

type authService struct {
	repo repository.CashierRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.CashierRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.authenticate(ctx, req.Username, req.PIN)
}

func (s *authService) Switch(ctx context.Context, req dto.SwitchRequest) (*dto.LoginResponse, error) {
	return s.authenticate(ctx, req.Username, req.PIN)
}

func (s *authService) authenticate(ctx context.Context, username, pin string) (*dto.LoginResponse, error) {
	cashier, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cashier.PINHash), []byte(pin)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	token, err := s.generateToken(cashier)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Cashier:     cashierToResponse(cashier),
	}, nil
}

func (s *authService) generateToken(cashier *model.Cashier) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		CashierID:    cashier.ID.String(),
		Username:     cashier.Username,
		Name:         cashier.Name,
		Capabilities: cashier.CapabilitySet,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) ListCashiers(ctx context.Context) ([]dto.CashierResponse, error) {
	cashiers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashierResponse, 0, len(cashiers))
	for i := range cashiers {
		out = append(out, cashierToResponse(&cashiers[i]))
	}
	return out, nil
}

func cashierToResponse(c *model.Cashier) dto.CashierResponse {
	return dto.CashierResponse{
		ID:           c.ID.String(),
		Username:     c.Username,
		Name:         c.Name,
		Capabilities: c.CapabilitySet,
	}
}
