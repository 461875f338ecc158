package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	repo repository.ProfilesRepositoryI
}

func NewAuthService(profilesRepo repository.ProfilesRepositoryI) *AuthService {
	return &AuthService{
		repo: profilesRepo,
	}
}

func (as *AuthService) Login(ctx context.Context, email, password string) (*entity.Profile, error) {
	profile, err := as.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			// Same answer as a bad password, existence is not leaked
			return nil, errorvalues.ErrWrongCredentials
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	return profile, nil
}

func (as *AuthService) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*entity.Profile, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	if !req.Role.Valid() {
		return nil, errorvalues.ErrUnknownRole
	}
	passwordHash, err := Hash(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	id, err := as.repo.Create(ctx, &entity.Profile{
		Name:         req.Name,
		Role:         req.Role,
		SchoolID:     req.SchoolID,
		ClassID:      req.ClassID,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrEmailExists) {
			return nil, err
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	profile, err := as.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return profile, nil
}

func (as *AuthService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	profile, err := as.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return profile, nil
}

func (as *AuthService) ProfileDetail(ctx context.Context, id uuid.UUID) (*entity.ProfileDetail, error) {
	detail, err := as.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return detail, nil
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
