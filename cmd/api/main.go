// @title Kebiasaan API
// @description API for the school habit-tracking app "Kebiasaan"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahapps/kebiasaan/internal/api"
	"github.com/sekolahapps/kebiasaan/internal/repository"
	"github.com/sekolahapps/kebiasaan/internal/service"
	"github.com/sekolahapps/kebiasaan/internal/session"
	"github.com/sekolahapps/kebiasaan/pkg/cleanup"
	"github.com/sekolahapps/kebiasaan/pkg/config"
	jwtservice "github.com/sekolahapps/kebiasaan/pkg/jwt_service"
)

// The streak figure is a fixed stand-in until the counting rule is
// settled, see service.NewFixedStreakCounter.
const streakStandIn = 12

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	// Scaffold values mean the deployment was never configured. Refuse
	// to open any connection and say exactly what is missing.
	if placeholders := cfg.Placeholders(); len(placeholders) > 0 {
		log.Println("deployment is not configured, these keys still hold scaffold values: " + strings.Join(placeholders, ", "))
		log.Fatal("fill configs/.env with real deployment values and start again")
	}
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	pool, err := pgxpool.New(context.Background(), dbCfg.ConnString())
	if err != nil {
		log.Fatal("creating pgx pool error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	profilesRepo := repository.NewProfilesRepoWithConn(pool)
	habitsRepo := repository.NewHabitsRepoWithConn(pool)
	reportsRepo := repository.NewReportsRepoWithConn(pool)
	notesRepo := repository.NewNotesRepoWithConn(pool)
	schoolsRepo := repository.NewSchoolsRepoWithConn(pool)

	var cache session.ProjectionCache
	var revoked session.RevocationStore
	if addr := cfg.GetString("REDIS_ADDR"); addr != "" {
		client := session.NewRedisClient(addr)
		cache = session.NewRedisProjectionCache(client)
		revoked = session.NewRedisRevocationStore(client)
	}
	sessions := session.New(profilesRepo, cache, revoked, pool)
	bootCtx, bootCancel := context.WithTimeout(context.Background(), time.Second*15)
	state := sessions.Initialize(bootCtx, cfg.Placeholders())
	bootCancel()
	if state != session.StateReady {
		cleanup.CleanUp()
		log.Fatal("session bootstrap ended in state " + state.String() + ", restart the service to retry")
	}

	serv := api.New(&api.ServicesList{
		AuthService:    service.NewAuthService(profilesRepo),
		HabitsService:  service.NewHabitsService(habitsRepo),
		ReportsService: service.NewReportsService(habitsRepo, reportsRepo, service.NewFixedStreakCounter(streakStandIn)),
		ClassService:   service.NewClassService(profilesRepo, habitsRepo, reportsRepo, notesRepo, schoolsRepo),
		AdminService:   service.NewAdminService(profilesRepo, reportsRepo, schoolsRepo),
		JwtService:     jwtservice.New(cfg.GetString("JWT_SECRET")),
		Sessions:       sessions,
	})
	err = serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
