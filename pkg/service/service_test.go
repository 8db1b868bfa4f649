//nolint:funlen // ok for this test code
package service_test

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racemetrics/pkg/events"
	bobRepos "github.com/mpapenbr/racemetrics/pkg/grpc/repository/bob"
	"github.com/mpapenbr/racemetrics/pkg/service"
	base "github.com/mpapenbr/racemetrics/testsupport/basedata"
	"github.com/mpapenbr/racemetrics/testsupport/testdb"
)

type fixture struct {
	svc    *service.Service
	db     bob.DB
	events *events.Recorder
	clock  clockwork.Clock
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := base.NewDB(testdb.InitTestDB())
	f := &fixture{
		db: db, events: &events.Recorder{}, clock: clockwork.NewFakeClockAt(base.TestTime()),
	}
	f.svc = service.New(
		bobRepos.NewRepositories(db),
		bobRepos.NewTransactionManager(db),
		service.WithPublisher(f.events),
		service.WithClock(f.clock),
	)
	return f
}

// actions returns the recorded events as entity.action strings.
func (f *fixture) actions() []string {
	ret := []string{}
	for _, e := range f.events.Events() {
		ret = append(ret, string(e.Entity)+"."+string(e.Action))
	}
	return ret
}

func TestSeed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, 10, res.Categories)
	require.True(t, res.SampleCar)

	res, err = f.svc.Seed(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Categories)
	require.False(t, res.SampleCar)

	cars, err := f.svc.ListCars(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	require.Equal(t, "Thunder Bolt", cars[0].Name)

	cats, err := f.svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 10)
}
