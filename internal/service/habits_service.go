package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/sekolahapps/kebiasaan/internal/error_values"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type HabitsService struct {
	repo repository.HabitsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
	}
}

func (hs *HabitsService) ListHabits(ctx context.Context, activeOnly bool) ([]*entity.Habit, error) {
	habits, err := hs.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habits, nil
}

func (hs *HabitsService) CreateHabit(ctx context.Context, req *HabitRequest) (*entity.Habit, error) {
	if err := validateHabitRequest(req); err != nil {
		return nil, err
	}
	h := entity.Habit{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    true,
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitExists) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, id uuid.UUID, req *HabitRequest) (*entity.Habit, error) {
	if err := validateHabitRequest(req); err != nil {
		return nil, err
	}
	err := hs.repo.Update(ctx, &entity.Habit{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) || errors.Is(err, errorvalues.ErrHabitExists) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) SetHabitActive(ctx context.Context, id uuid.UUID, active bool) error {
	err := hs.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func validateHabitRequest(req *HabitRequest) error {
	err := validate.Struct(*req)
	if err == nil {
		return nil
	}
	if validationError, ok := err.(validator.ValidationErrors); ok {
		err = errors.New("validation error: ")
		for _, fieldErr := range validationError {
			err = errors.Join(err, fieldErr)
		}
		return err
	}
	return errors.New("validation unexpected error: " + err.Error())
}
