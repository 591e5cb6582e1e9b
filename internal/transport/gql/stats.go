package gql

import (
	"context"
	"sync"

	"github.com/abgdnv/gocrm/internal/service"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

type statsKey struct{}

// statsOnce holds the single Stats read shared by the total fields of one operation.
type statsOnce struct {
	once  sync.Once
	stats *service.StatsDto
	err   error
}

// statsScope is a schema extension that gives every operation a fresh statsOnce,
// so totalCustomers, totalOrders and totalRevenue report the same snapshot.
type statsScope struct{}

func (statsScope) Init(ctx context.Context, _ *graphql.Params) context.Context {
	return context.WithValue(ctx, statsKey{}, &statsOnce{})
}

func (statsScope) Name() string { return "statsScope" }

func (statsScope) ParseDidStart(ctx context.Context) (context.Context, graphql.ParseFinishFunc) {
	return ctx, func(error) {}
}

func (statsScope) ValidationDidStart(ctx context.Context) (context.Context, graphql.ValidationFinishFunc) {
	return ctx, func([]gqlerrors.FormattedError) {}
}

func (statsScope) ExecutionDidStart(ctx context.Context) (context.Context, graphql.ExecutionFinishFunc) {
	return ctx, func(*graphql.Result) {}
}

func (statsScope) ResolveFieldDidStart(ctx context.Context, _ *graphql.ResolveInfo) (context.Context, graphql.ResolveFieldFinishFunc) {
	return ctx, func(interface{}, error) {}
}

func (statsScope) HasResult() bool { return false }

func (statsScope) GetResult(context.Context) interface{} { return nil }

// loadStats reads Stats at most once per operation. Outside an operation it reads directly.
func (r *resolver) loadStats(ctx context.Context) (*service.StatsDto, error) {
	s, ok := ctx.Value(statsKey{}).(*statsOnce)
	if !ok {
		return r.svc.Stats(ctx)
	}
	s.once.Do(func() { s.stats, s.err = r.svc.Stats(ctx) })
	return s.stats, s.err
}
