package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yigit/egresados/internal/app/migrations"
	"github.com/yigit/egresados/internal/config"
	"github.com/yigit/egresados/internal/db"
	"github.com/yigit/egresados/internal/seed"
)

// PostgresImage is the image integration tests run against
const PostgresImage = "postgres:16-alpine"

// TestDB holds a shared PostgreSQL container with migrations applied and plans seeded
type TestDB struct {
	Container testcontainers.Container
	DB        *db.PostgresDB
	ConnStr   string
}

var (
	sharedTestDB     *TestDB
	sharedTestDBOnce sync.Once
	sharedTestDBErr  error
)

// GetTestDB returns a shared PostgreSQL container for integration tests.
// The container is created once and reused across all tests in the package.
func GetTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedTestDBOnce.Do(func() {
		sharedTestDB, sharedTestDBErr = setupTestDB()
	})

	if sharedTestDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedTestDBErr)
	}

	return sharedTestDB
}

func setupTestDB() (*TestDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "egresados_test",
			"POSTGRES_USER":     "egresados",
			"POSTGRES_PASSWORD": "test_password",
		},
		// postgres logs readiness once for the init server and once for the real one
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://egresados:test_password@%s:%s/egresados_test?sslmode=disable",
		host, port.Port())

	database, err := db.Connect(ctx, connStr, config.DatabaseConfig{MaxOpenConns: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := migrations.NewMigrator(database.Pool).Migrate(ctx, migrations.Embedded()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, database, zerolog.Nop()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to seed test database: %w", err)
	}

	return &TestDB{
		Container: container,
		DB:        database,
		ConnStr:   connStr,
	}, nil
}

// Reset empties the students, graduate and import tables. The plan catalog is kept.
func (tdb *TestDB) Reset(t *testing.T) {
	t.Helper()

	_, err := tdb.DB.Pool.Exec(context.Background(),
		"TRUNCATE graduate_documents, graduates, students, import_runs RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to reset test database: %v", err)
	}
}
