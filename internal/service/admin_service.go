package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

type AdminService struct {
	profilesRepo repository.ProfilesRepositoryI
	reportsRepo  repository.ReportsRepositoryI
	schoolsRepo  repository.SchoolsRepositoryI
}

func NewAdminService(
	profilesRepo repository.ProfilesRepositoryI,
	reportsRepo repository.ReportsRepositoryI,
	schoolsRepo repository.SchoolsRepositoryI,
) *AdminService {
	if profilesRepo == nil || reportsRepo == nil || schoolsRepo == nil {
		log.Fatal("on admin service provided nil repos")
	}
	return &AdminService{
		profilesRepo: profilesRepo,
		reportsRepo:  reportsRepo,
		schoolsRepo:  schoolsRepo,
	}
}

// Overview aggregates the school-wide figures for the admin landing view.
// Compliance is the share of students that reported anything on the date.
func (as *AdminService) Overview(ctx context.Context, date time.Time) (*entity.AdminOverview, error) {
	schools, err := as.schoolsRepo.CountSchools(ctx)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	students, err := as.profilesRepo.CountByRole(ctx, entity.RoleSiswa)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	reporters, err := as.reportsRepo.CountReporters(ctx, date)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &entity.AdminOverview{
		Schools:        schools,
		Students:       students,
		ComplianceRate: Percent(reporters, students),
	}, nil
}
