package service

import (
	"context"
	"errors"
	"time"

	"pdstock/internal/config"
	"pdstock/internal/dto"
	"pdstock/internal/model"
	"pdstock/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*dto.OperatorResponse, error)
	ListOperators(ctx context.Context) ([]dto.OperatorResponse, error)
}

type authService struct {
	repo repository.OperatorRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.OperatorRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(op, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Operator:    operatorToResponse(op),
	}, nil
}

func (s *authService) CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*dto.OperatorResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	op := &model.Operator{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}
	resp := operatorToResponse(op)
	return &resp, nil
}

func (s *authService) ListOperators(ctx context.Context) ([]dto.OperatorResponse, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OperatorResponse, len(ops))
	for i := range ops {
		resp[i] = operatorToResponse(&ops[i])
	}
	return resp, nil
}

func (s *authService) generateToken(op *model.Operator, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  op.ID.String(),
		"username": op.Username,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func operatorToResponse(op *model.Operator) dto.OperatorResponse {
	return dto.OperatorResponse{
		ID:        op.ID.String(),
		Username:  op.Username,
		FirstName: op.FirstName,
		LastName:  op.LastName,
		Active:    op.Active,
	}
}
