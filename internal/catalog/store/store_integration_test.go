package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	cerrors "github.com/silkyway/catalog/internal/catalog/errors"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "CATALOG_SVC_SKIP_INTEGRATION_TESTS"

// ProductStoreSuite exercises the PostgreSQL store against a real database.
type ProductStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       ProductStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container and applies the embedded migrations.
func (s *ProductStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("catalog_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *ProductStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest truncates the products table before each test.
func (s *ProductStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

// TestProductStoreIntegration runs the ProductStore integration tests.
func TestProductStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(ProductStoreSuite))
}

// createTestProduct seeds one product.
func (s *ProductStoreSuite) createTestProduct(name, description string, price float64, stock int) *Product {
	s.T().Helper()
	product, err := s.store.Create(s.ctx, name, description, price, stock)
	require.NoError(s.T(), err, "createTestProduct helper failed")
	return product
}

func (s *ProductStoreSuite) TestCreateAndFindByID() {
	s.SetupTest()
	// given
	created := s.createTestProduct("Mouse", "Wireless mouse", 39.99, 20)
	require.NotZero(s.T(), created.ID)

	// when
	fetched, err := s.store.FindByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), created, fetched)
}

func (s *ProductStoreSuite) TestFindByID_NotFound() {
	s.SetupTest()
	// when
	_, err := s.store.FindByID(s.ctx, 9999)
	// then
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestFindAll_OrderedByID() {
	s.SetupTest()
	// given
	s.createTestProduct("A", "", 10, 10)
	s.createTestProduct("B", "", 10, 10)
	s.createTestProduct("C", "", 10, 10)
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, 2))

	// when
	list, err := s.store.FindAll(s.ctx)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	require.Equal(s.T(), int64(1), list[0].ID)
	require.Equal(s.T(), int64(3), list[1].ID)
}

func (s *ProductStoreSuite) TestUpdate_PartialFields() {
	s.SetupTest()
	// given
	created := s.createTestProduct("Mouse", "Wireless mouse", 39.99, 20)
	price := 29.99
	stock := 15

	// when
	updated, err := s.store.Update(s.ctx, created.ID, ProductPatch{Price: &price, Stock: &stock})

	// then
	require.NoError(s.T(), err)
	require.Equal(s.T(), "Mouse", updated.Name)
	require.Equal(s.T(), "Wireless mouse", updated.Description)
	require.Equal(s.T(), 29.99, updated.Price)
	require.Equal(s.T(), 15, updated.Stock)
}

func (s *ProductStoreSuite) TestUpdate_NotFound() {
	s.SetupTest()
	// given
	name := "Ghost"
	// when
	_, err := s.store.Update(s.ctx, 9999, ProductPatch{Name: &name})
	// then
	require.ErrorIs(s.T(), err, cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestDeleteByID() {
	s.SetupTest()
	// given
	created := s.createTestProduct("Mouse", "", 39.99, 20)

	// when
	err := s.store.DeleteByID(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	require.ErrorIs(s.T(), s.store.DeleteByID(s.ctx, created.ID), cerrors.ErrProductNotFound)
}

func (s *ProductStoreSuite) TestSearch_CaseInsensitive() {
	s.SetupTest()
	// given
	s.createTestProduct("Wireless Mouse", "for gaming", 39.99, 20)
	s.createTestProduct("Keyboard", "wireless keyboard", 59.99, 10)

	// when
	found, err := s.store.Search(s.ctx, "MOUSE")

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), found, 1)
	require.Equal(s.T(), "Wireless Mouse", found[0].Name)
}

func (s *ProductStoreSuite) TestLowStock_ExclusiveThreshold() {
	s.SetupTest()
	// given
	s.createTestProduct("Plenty", "", 10, 6)
	s.createTestProduct("AtThreshold", "", 10, 5)
	s.createTestProduct("Low", "", 10, 4)

	// when
	found, err := s.store.LowStock(s.ctx, 5)

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), found, 1)
	require.Equal(s.T(), "Low", found[0].Name)
}
