package insights

import (
	"context"

	"github.com/adscope/adscope-backend/internal/insights/types"
)

type stubService struct {
	lastRankings      types.RankingsRequest
	lastGems          types.GemsRequest
	lastOpportunities types.OpportunitiesRequest
	lastGold          types.GoldBucketsRequest
	lastSeries        types.DailySeriesRequest
	lastMQL           types.MQLRequest

	rankings      *types.RankingsResponse
	gems          *types.GemsResponse
	opportunities *types.OpportunitiesResponse
	gold          *types.GoldBucketsResponse
	series        *types.DailySeries
	mql           *types.MQLResponse
	err           error
}

func (s *stubService) Rankings(ctx context.Context, req types.RankingsRequest) (*types.RankingsResponse, error) {
	s.lastRankings = req
	if s.err != nil {
		return nil, s.err
	}
	if s.rankings == nil {
		s.rankings = &types.RankingsResponse{}
	}
	return s.rankings, nil
}

func (s *stubService) Gems(ctx context.Context, req types.GemsRequest) (*types.GemsResponse, error) {
	s.lastGems = req
	if s.err != nil {
		return nil, s.err
	}
	if s.gems == nil {
		s.gems = &types.GemsResponse{}
	}
	return s.gems, nil
}

func (s *stubService) Opportunities(ctx context.Context, req types.OpportunitiesRequest) (*types.OpportunitiesResponse, error) {
	s.lastOpportunities = req
	if s.err != nil {
		return nil, s.err
	}
	if s.opportunities == nil {
		s.opportunities = &types.OpportunitiesResponse{}
	}
	return s.opportunities, nil
}

func (s *stubService) GoldBuckets(ctx context.Context, req types.GoldBucketsRequest) (*types.GoldBucketsResponse, error) {
	s.lastGold = req
	if s.err != nil {
		return nil, s.err
	}
	if s.gold == nil {
		s.gold = &types.GoldBucketsResponse{}
	}
	return s.gold, nil
}

func (s *stubService) DailySeries(ctx context.Context, req types.DailySeriesRequest) (*types.DailySeries, error) {
	s.lastSeries = req
	if s.err != nil {
		return nil, s.err
	}
	if s.series == nil {
		s.series = &types.DailySeries{}
	}
	return s.series, nil
}

func (s *stubService) MQLSummary(ctx context.Context, req types.MQLRequest) (*types.MQLResponse, error) {
	s.lastMQL = req
	if s.err != nil {
		return nil, s.err
	}
	if s.mql == nil {
		s.mql = &types.MQLResponse{}
	}
	return s.mql, nil
}
