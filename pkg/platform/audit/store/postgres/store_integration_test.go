//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "candilib/pkg/platform/audit"
	"candilib/pkg/platform/audit/store/postgres"
	"candilib/pkg/testutil/containers"
)

type AuditStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestAuditStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *AuditStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_log"))
}

func (s *AuditStoreSuite) TestListRecentNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Write(ctx, []audit.Entry{
		{Timestamp: base, Actor: "admin@example.fr", Action: audit.ActionCentreCreated, Subject: "c1"},
		{Timestamp: base.Add(time.Minute), Actor: "admin@example.fr", Action: audit.ActionCentreDeactivated, Subject: "c1", RequestID: "req-1"},
	}))
	s.Require().NoError(s.store.Write(ctx, nil))

	entries, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionCentreDeactivated, entries[0].Action)
	s.Equal("req-1", entries[0].RequestID)
	s.True(entries[1].Timestamp.Equal(base))

	entries, err = s.store.ListRecent(ctx, 1)
	s.Require().NoError(err)
	s.Len(entries, 1)
}
