//go:build integration

package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"candilib/internal/centre/models"
	"candilib/internal/centre/store"
	id "candilib/pkg/domain"
	"candilib/pkg/testutil/containers"
)

// countingStore counts reads reaching the backing store.
type countingStore struct {
	*store.InMemory
	finds, lists int
}

func (c *countingStore) FindByID(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	c.finds++
	return c.InMemory.FindByID(ctx, centreID)
}

func (c *countingStore) ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error) {
	c.lists++
	return c.InMemory.ListByDepartment(ctx, department)
}

type RedisCacheSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	backing *countingStore
	cache   *store.Cached
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.backing = &countingStore{InMemory: store.NewInMemory()}
	s.cache = store.NewCached(s.backing, s.redis.Client,
		store.WithTTL(time.Minute),
		store.WithCacheLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *RedisCacheSuite) newCentre(name, department string) *models.Centre {
	c, err := models.NewCentre(id.NewCentreID(), models.Details{Name: name, Department: department},
		time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Create(context.Background(), c))
	return c
}

func (s *RedisCacheSuite) TestFindByIDReadsThrough() {
	ctx := context.Background()
	c := s.newCentre("Rungis", "94")

	for range 3 {
		got, err := s.cache.FindByID(ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(c.Name, got.Name)
	}
	s.Equal(1, s.backing.finds)
}

func (s *RedisCacheSuite) TestUpdateInvalidates() {
	ctx := context.Background()
	c := s.newCentre("Rungis", "94")
	_, err := s.cache.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	_, err = s.cache.ListByDepartment(ctx, "94")
	s.Require().NoError(err)

	c.SetActive(false, c.UpdatedAt.Add(time.Hour))
	s.Require().NoError(s.cache.Update(ctx, c))

	got, err := s.cache.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.False(got.Active)

	listed, err := s.cache.ListByDepartment(ctx, "94")
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.False(listed[0].Active)
}

func (s *RedisCacheSuite) TestMoveInvalidatesBothDepartments() {
	ctx := context.Background()
	c := s.newCentre("Rungis", "94")
	_, err := s.cache.ListByDepartment(ctx, "94")
	s.Require().NoError(err)
	_, err = s.cache.ListByDepartment(ctx, "91")
	s.Require().NoError(err)

	s.Require().NoError(c.Apply(models.Details{Name: "Rungis", Department: "91"}, c.UpdatedAt))
	s.Require().NoError(s.cache.Update(ctx, c))

	old, err := s.cache.ListByDepartment(ctx, "94")
	s.Require().NoError(err)
	s.Empty(old)
	moved, err := s.cache.ListByDepartment(ctx, "91")
	s.Require().NoError(err)
	s.Len(moved, 1)
}

func (s *RedisCacheSuite) TestCreateInvalidatesDepartment() {
	ctx := context.Background()
	s.newCentre("Rungis", "94")
	listed, err := s.cache.ListByDepartment(ctx, "94")
	s.Require().NoError(err)
	s.Len(listed, 1)

	s.newCentre("Orly", "94")
	listed, err = s.cache.ListByDepartment(ctx, "94")
	s.Require().NoError(err)
	s.Len(listed, 2)
}
