package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type RedisRepoIntegrationTestSuite struct {
	repositoryContract
	container testcontainers.Container
	rdb       *redis.Client
}

func (s *RedisRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(1 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		s.T().Fatalf("Failed to start redis container: %s", err)
	}
	s.container = container

	host, err := container.Host(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get redis host: %s", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		s.T().Fatalf("Failed to get redis port: %s", err)
	}

	s.rdb = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.newRepo = func() directory.Repository {
		s.Require().NoError(s.rdb.FlushDB(context.Background()).Err())
		return NewRedisDirectoryRepo(s.rdb, "talent-test", logger.NewNopLogger())
	}
}

func (s *RedisRepoIntegrationTestSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate redis container: %s", err)
		}
	}
}

func TestRedisRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RedisRepoIntegrationTestSuite))
}

func (s *RedisRepoIntegrationTestSuite) Test_WriteTimeIsTracked() {
	ctx := context.Background()
	repo := s.newRepo()

	s.Require().NoError(repo.SaveCategories(ctx, []string{"Uncategorized"}))

	stamp, err := s.rdb.HGet(ctx, "talent-test:meta", "categories").Result()
	s.Require().NoError(err)
	_, err = time.Parse(time.RFC3339Nano, stamp)
	s.NoError(err)

	raw, err := s.rdb.Get(ctx, "talent-test:categories").Result()
	s.Require().NoError(err)
	s.Contains(raw, `"categories"`)
}
