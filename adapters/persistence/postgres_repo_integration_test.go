package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type PostgresRepoIntegrationTestSuite struct {
	repositoryContract
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger
}

func (s *PostgresRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	if err := RunMigrations("file://../../migrations", dsn, s.testLogger); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.newRepo = func() directory.Repository {
		_, err := s.dbPool.Exec(context.Background(), "TRUNCATE profiles, skills, categories CASCADE")
		s.Require().NoError(err)
		return NewPostgresDirectoryRepo(s.dbPool, s.testLogger)
	}
}

func (s *PostgresRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestPostgresRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(PostgresRepoIntegrationTestSuite))
}

func (s *PostgresRepoIntegrationTestSuite) Test_ChildRowsFollowTheirProfile() {
	ctx := context.Background()
	repo := s.newRepo()

	s.Require().NoError(repo.SaveProfiles(ctx, sampleProfiles()))
	s.Require().NoError(repo.SaveProfiles(ctx, []profile.Profile{sampleProfiles()[1]}))

	var skills, education int
	s.Require().NoError(s.dbPool.QueryRow(ctx, "SELECT count(*) FROM profile_skills").Scan(&skills))
	s.Require().NoError(s.dbPool.QueryRow(ctx, "SELECT count(*) FROM education").Scan(&education))
	s.Zero(skills)
	s.Zero(education)
}

func (s *PostgresRepoIntegrationTestSuite) Test_FailedSaveKeepsPreviousSet() {
	ctx := context.Background()
	repo := s.newRepo()

	s.Require().NoError(repo.SaveProfiles(ctx, sampleProfiles()))

	dup := sampleProfiles()
	dup[1].ID = dup[0].ID
	s.Error(repo.SaveProfiles(ctx, dup))

	got, err := repo.LoadProfiles(ctx)
	s.Require().NoError(err)
	s.Equal(sampleProfiles(), got)
}
