package usecase

import (
	"context"
	"log"
	"time"

	"petmatch/internal/domain/entity"
	"petmatch/internal/domain/repository"
	"petmatch/pkg/errors"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3"`
	Phone    string `json:"phone"`
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existingUser, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existingUser != nil {
		return nil, errors.BadRequest("Email already in use", nil)
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		Email:     input.Email,
		Username:  input.Username,
		Phone:     input.Phone,
		Role:      "user",
		Status:    "active",
		Provider:  "password",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, err := uc.firebaseAuth.SignInWithEmailPassword(input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.firebaseAuth.SignInWithEmailPassword(email, password)
	if err != nil {
		log.Printf("Login failed: %v", err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		log.Printf("Token verification failed: %v", err)
		return nil, errors.Internal("Failed to verify token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		log.Printf("Failed to get user by ID: %v", err)
		return nil, errors.NotFound("User", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return user, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	uid, err := uc.firebaseAuth.VerifyToken(ctx, refreshToken)
	if err != nil {
		return "", errors.Unauthorized("Invalid refresh token", err)
	}

	newToken, err := uc.firebaseAuth.GenerateToken(ctx, uid)
	if err != nil {
		return "", errors.Internal("Failed to generate new token", err)
	}

	return newToken, nil
}

func (uc *AuthUseCase) UpdatePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return errors.NotFound("User", err)
	}

	if _, err := uc.firebaseAuth.SignInWithEmailPassword(user.Email, currentPassword); err != nil {
		return errors.Unauthorized("Current password is incorrect", err)
	}

	if err := uc.firebaseAuth.UpdateUserPassword(ctx, uid, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}

	return nil
}
