package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/alexanderramin/slotter/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

type fakeRecorder struct {
	runs          []int
	automatic     int
	manual        []int
	resubmissions int
}

func (f *fakeRecorder) RecordRoundRun(round, automatic, _ int) {
	f.runs = append(f.runs, round)
	f.automatic += automatic
}

func (f *fakeRecorder) RecordManualAssignment(round int) { f.manual = append(f.manual, round) }

func (f *fakeRecorder) RecordResubmission() { f.resubmissions++ }

type harness struct {
	db           *sql.DB
	slots        repository.SlotRepo
	regs         repository.RegistrationRepo
	statuses     repository.StatusRepo
	planning     PlanningService
	registration RegistrationService
	catalog      CatalogService
	plans        PlanService
	recorder     *fakeRecorder
	logs         *zapobserver.ObservedLogs
}

func newHarness(t *testing.T, opts ...RegistrationOptions) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	core, logs := zapobserver.New(zapcore.InfoLevel)
	logger := zap.New(core)

	var regOpts RegistrationOptions
	if len(opts) > 0 {
		regOpts = opts[0]
	}

	h := &harness{
		db:       database,
		slots:    repository.NewSQLiteSlotRepo(database),
		regs:     repository.NewSQLiteRegistrationRepo(database),
		statuses: repository.NewSQLiteStatusRepo(database),
		recorder: &fakeRecorder{},
		logs:     logs,
	}
	uow := testutil.NewTestUoW(database)
	h.planning = NewPlanningService(testutil.TestPeriod, h.slots, h.statuses, uow, logger, h.recorder)
	h.registration = NewRegistrationService(testutil.TestPeriod, h.regs, h.slots, uow, regOpts, logger, h.recorder)
	h.catalog = NewCatalogService(h.slots, uow)
	h.plans = NewPlanService(testutil.TestPeriod, h.slots, h.statuses, logger)
	return h
}

func (h *harness) addSlot(t *testing.T, day, tm string, minLevel, maxLevel, capacity int) {
	t.Helper()
	require.NoError(t, h.catalog.Add(context.Background(), &domain.Slot{
		Day: day, Time: tm, MinLevel: minLevel, MaxLevel: maxLevel, Capacity: capacity,
	}))
}

// submit registers phone with one set of preferences per weekly training,
// minutes after testutil.BaseTime.
func (h *harness) submit(t *testing.T, phone, level string, minutes int, occurrences ...[3]string) *app.SubmitResult {
	t.Helper()
	at := testutil.BaseTime.Add(time.Duration(minutes) * time.Minute)
	res, err := h.registration.Submit(context.Background(), app.SubmitRequest{
		Phone:       phone,
		Name:        "Player " + phone,
		LevelText:   level,
		Frequency:   len(occurrences),
		Occurrences: occurrences,
		SubmittedAt: &at,
	})
	require.NoError(t, err)
	return res
}

func (h *harness) run(t *testing.T, round int) *app.RunRoundResponse {
	t.Helper()
	now := testutil.BaseTime.Add(24 * time.Hour)
	resp, err := h.planning.RunRound(context.Background(), app.RunRoundRequest{Round: round, Now: &now})
	require.NoError(t, err)
	return resp
}

func prefs(p ...string) [3]string {
	var out [3]string
	copy(out[:], p)
	return out
}

func slotOf(rec domain.RoundRecord, identity string) string {
	for _, a := range rec.Assigned {
		if a.Identity == identity {
			return a.Slot
		}
	}
	return ""
}

func requirePlanningError(t *testing.T, err error, code app.PlanningErrorCode) {
	t.Helper()
	var pe *app.PlanningError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, code, pe.Code, pe.Error())
}
