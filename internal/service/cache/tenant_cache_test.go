package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

type TenantCacheTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache *TenantCache
	ctx   context.Context
}

func TestTenantCache(t *testing.T) {
	suite.Run(t, new(TenantCacheTestSuite))
}

func (s *TenantCacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.cache = NewTenantCache(client, time.Minute)
	s.ctx = context.Background()
}

func (s *TenantCacheTestSuite) tenant() *domain.Tenant {
	host := "order.pizza.ae"
	t := &domain.Tenant{Name: "Pizza", Subdomain: "pizza", Domain: &host}
	t.ID = "0b6c8d2e-5a57-4b59-9e8c-3c9b5f0e6a21"
	return t
}

func (s *TenantCacheTestSuite) TestMissIsNotAnError() {
	got, ok, err := s.cache.GetBySubdomain(s.ctx, "pizza")
	s.NoError(err)
	s.False(ok)
	s.Nil(got)
}

func (s *TenantCacheTestSuite) TestSetThenGetBothKeys() {
	s.Require().NoError(s.cache.Set(s.ctx, s.tenant()))

	bySub, ok, err := s.cache.GetBySubdomain(s.ctx, "PIZZA")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(s.tenant().ID, bySub.ID)

	byDomain, ok, err := s.cache.GetByDomain(s.ctx, "order.pizza.ae")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("Pizza", byDomain.Name)
}

func (s *TenantCacheTestSuite) TestEntriesExpire() {
	s.Require().NoError(s.cache.Set(s.ctx, s.tenant()))
	s.mr.FastForward(2 * time.Minute)

	_, ok, err := s.cache.GetBySubdomain(s.ctx, "pizza")
	s.NoError(err)
	s.False(ok)
}

func (s *TenantCacheTestSuite) TestInvalidate() {
	s.Require().NoError(s.cache.Set(s.ctx, s.tenant()))
	s.Require().NoError(s.cache.Invalidate(s.ctx, s.tenant()))

	_, ok, _ := s.cache.GetBySubdomain(s.ctx, "pizza")
	s.False(ok)
	_, ok, _ = s.cache.GetByDomain(s.ctx, "order.pizza.ae")
	s.False(ok)
}
