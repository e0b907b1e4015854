package jobs

import (
	"context"
	"errors"
	"testing"

	"courtfinder/services"
	"courtfinder/services/logger"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	calls  int
	report services.ReconcileReport
	err    error
}

func (f *fakeReconciler) Reconcile(ctx context.Context) (services.ReconcileReport, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return services.ReconcileReport{}, errors.New("missing deadline")
	}
	return f.report, f.err
}

func TestReconcileJobRuns(t *testing.T) {
	r := &fakeReconciler{report: services.ReconcileReport{ReviewsCorrected: 2}}
	ReconcileJob(r, logger.NewNop())()
	ReconcileJob(&fakeReconciler{err: errors.New("db down")}, logger.NewNop())()

	assert.Equal(t, 1, r.calls)
}

func TestInitCronJobs(t *testing.T) {
	c := cron.New()
	defer c.Stop()

	require.NoError(t, InitCronJobs(c, "0 3 * * *", &fakeReconciler{}, logger.NewNop()))
	assert.Len(t, c.Entries(), 1)

	assert.Error(t, InitCronJobs(cron.New(), "not a schedule", &fakeReconciler{}, logger.NewNop()))
}
