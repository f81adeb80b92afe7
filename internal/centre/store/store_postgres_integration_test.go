//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"candilib/internal/centre/models"
	"candilib/internal/centre/store"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "archived_places", "candidats", "places", "centres")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newCentre(name, department string) *models.Centre {
	c, err := models.NewCentre(id.NewCentreID(), models.Details{
		Name:       name,
		Department: department,
		Geo:        models.GeoLoc{Latitude: 48.75, Longitude: 2.35},
	}, s.now)
	s.Require().NoError(err)
	return c
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := s.newCentre("Rungis", "94")
	s.Require().NoError(s.store.Create(ctx, c))

	got, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.Name, got.Name)
	s.Equal(c.Geo, got.Geo)
	s.True(got.Active)
	s.True(c.CreatedAt.Equal(got.CreatedAt))

	c.SetActive(false, s.now.Add(time.Minute))
	s.Require().NoError(s.store.Update(ctx, c))
	got, err = s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.False(got.Active)
}

func (s *PostgresStoreSuite) TestUniqueNamePerDepartment() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newCentre("Rungis", "94")))
	s.ErrorIs(s.store.Create(ctx, s.newCentre("Rungis", "94")), sentinel.ErrAlreadyUsed)
	s.NoError(s.store.Create(ctx, s.newCentre("Rungis", "91")))
}

func (s *PostgresStoreSuite) TestListByDepartment() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newCentre("Rungis", "94")))
	s.Require().NoError(s.store.Create(ctx, s.newCentre("Créteil", "94")))
	s.Require().NoError(s.store.Create(ctx, s.newCentre("Massy", "91")))

	centres, err := s.store.ListByDepartment(ctx, "94")
	s.Require().NoError(err)
	s.Require().Len(centres, 2)
	s.Equal("Créteil", centres[0].Name)

	centres, err = s.store.ListByDepartment(ctx, "13")
	s.Require().NoError(err)
	s.Empty(centres)
}

func (s *PostgresStoreSuite) TestMissing() {
	ctx := context.Background()
	_, err := s.store.FindByID(ctx, id.NewCentreID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Update(ctx, s.newCentre("Ghost", "75")), sentinel.ErrNotFound)
}
