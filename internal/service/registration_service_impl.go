package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/slotter/internal/app"
	"github.com/alexanderramin/slotter/internal/db"
	"github.com/alexanderramin/slotter/internal/domain"
	"github.com/alexanderramin/slotter/internal/metrics"
	"github.com/alexanderramin/slotter/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistrationOptions tune how submissions are checked.
type RegistrationOptions struct {
	// EnforcePermission rejects submissions that pick a slot whose minimum
	// level is above the registrant's level without permission.
	EnforcePermission bool
}

type registrationService struct {
	period        string
	registrations repository.RegistrationRepo
	slots         repository.SlotRepo
	uow           db.UnitOfWork
	opts          RegistrationOptions
	logger        *zap.Logger
	metrics       metrics.Recorder
	observer      UseCaseObserver
}

func NewRegistrationService(
	period string,
	registrations repository.RegistrationRepo,
	slots repository.SlotRepo,
	uow db.UnitOfWork,
	opts RegistrationOptions,
	logger *zap.Logger,
	recorder metrics.Recorder,
	observers ...UseCaseObserver,
) RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &registrationService{
		period:        period,
		registrations: registrations,
		slots:         slots,
		uow:           uow,
		opts:          opts,
		logger:        logger.With(zap.String("period", period)),
		metrics:       recorder,
		observer:      useCaseObserverOrNoop(observers),
	}
}

// Submit stores one registration bundle. Occurrence i lands in dataset
// i+1, replacing any earlier row of the same phone number there.
func (s *registrationService) Submit(ctx context.Context, req app.SubmitRequest) (result *app.SubmitResult, err error) {
	startedAt := time.Now()
	phone := strings.TrimSpace(req.Phone)
	fields := map[string]any{"period": s.period, "identity": phone}
	defer observe(ctx, s.observer, "submit-registration", startedAt, fields, &err)

	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	catalog, err := s.slots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}
	warnings := permissionWarnings(req, catalog)
	if len(warnings) > 0 && s.opts.EnforcePermission {
		problems := make([]string, 0, len(warnings))
		for _, w := range warnings {
			problems = append(problems, fmt.Sprintf("choice %d: %s needs level %d or higher, permission not given", w.Choice, w.Slot, w.MinLevel))
		}
		return nil, &app.ValidationError{Problems: problems}
	}

	submitted := nowOr(req.SubmittedAt).Format(domain.SubmittedAtLayout)
	result = &app.SubmitResult{Identity: phone, Warnings: warnings}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		for i, prefs := range req.Occurrences {
			choice := i + 1
			removed, err := regs.DeleteByIdentity(ctx, s.period, choice, phone)
			if err != nil {
				return fmt.Errorf("removing earlier registration in dataset %d: %w", choice, err)
			}
			if removed > 0 {
				result.ReplacedChoices = append(result.ReplacedChoices, choice)
			}
			row := &domain.Registrant{
				ID:           uuid.New().String(),
				Period:       s.period,
				Choice:       choice,
				Phone:        phone,
				Name:         strings.TrimSpace(req.Name),
				LevelText:    strings.TrimSpace(req.LevelText),
				Frequency:    req.Frequency,
				PermitHigher: req.PermitHigher,
				Preferences:  trimPreferences(prefs),
				SubmittedAt:  submitted,
				Note:         strings.TrimSpace(req.Note),
			}
			if err := regs.Create(ctx, row); err != nil {
				return fmt.Errorf("storing registration in dataset %d: %w", choice, err)
			}
			result.Rows++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Replaced = len(result.ReplacedChoices) > 0
	fields["rows"] = result.Rows
	fields["replaced"] = result.Replaced
	if result.Replaced {
		s.metrics.RecordResubmission()
		s.logger.Info("registration replaced an earlier submission",
			zap.String("identity", phone), zap.Ints("choices", result.ReplacedChoices))
	}
	return result, nil
}

// Import appends raw rows to dataset choice without deduplication, the way
// an exported form sheet is loaded. Run CleanDuplicates afterwards.
func (s *registrationService) Import(ctx context.Context, choice int, rows []domain.Registrant) (n int, err error) {
	startedAt := time.Now()
	fields := map[string]any{"period": s.period, "choice": choice}
	defer observe(ctx, s.observer, "import-registrations", startedAt, fields, &err)

	if !domain.ValidRound(choice) {
		return 0, fmt.Errorf("dataset %d: %w", choice, domain.ErrInvalidRound)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		for i := range rows {
			row := rows[i]
			row.ID = uuid.New().String()
			row.Period = s.period
			row.Choice = choice
			if err := regs.Create(ctx, &row); err != nil {
				return fmt.Errorf("importing row %d (%s): %w", i+1, row.Phone, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	fields["rows"] = n
	return n, nil
}

// CleanDuplicates keeps only the latest submission of every phone number in
// dataset choice. On equal timestamps the row stored last wins.
func (s *registrationService) CleanDuplicates(ctx context.Context, choice int) (result *app.CleanResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"period": s.period, "choice": choice}
	defer observe(ctx, s.observer, "clean-duplicates", startedAt, fields, &err)

	if !domain.ValidRound(choice) {
		return nil, fmt.Errorf("dataset %d: %w", choice, domain.ErrInvalidRound)
	}
	result = &app.CleanResult{Choice: choice}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		regs := repository.NewSQLiteRegistrationRepo(tx)
		rows, err := regs.ListByChoice(ctx, s.period, choice)
		if err != nil {
			return err
		}
		for _, stale := range staleRows(rows) {
			if err := regs.Delete(ctx, stale.ID); err != nil {
				return fmt.Errorf("removing duplicate of %s: %w", stale.Phone, err)
			}
			result.Removed++
		}
		result.Kept = len(rows) - result.Removed
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["removed"] = result.Removed
	return result, nil
}

func (s *registrationService) Counts(ctx context.Context) (map[int]int, error) {
	return s.registrations.CountByChoice(ctx, s.period)
}

func (s *registrationService) List(ctx context.Context, choice int) ([]domain.Registrant, error) {
	return s.registrations.ListByChoice(ctx, s.period, choice)
}

func validateSubmission(req app.SubmitRequest) error {
	var problems []string
	if strings.TrimSpace(req.Phone) == "" {
		problems = append(problems, "phone number is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if req.Frequency < 1 || req.Frequency > domain.MaxRound {
		problems = append(problems, "trainings per week must be 1, 2 or 3")
	}
	switch {
	case len(req.Occurrences) == 0:
		problems = append(problems, "at least one set of preferences is required")
	case req.Frequency >= 1 && len(req.Occurrences) > req.Frequency:
		problems = append(problems, fmt.Sprintf("%d sets of preferences given for %d trainings per week", len(req.Occurrences), req.Frequency))
	}
	for i, prefs := range req.Occurrences {
		if strings.TrimSpace(prefs[0]) == "" || strings.TrimSpace(prefs[1]) == "" {
			problems = append(problems, fmt.Sprintf("choice %d: first and second preference are required", i+1))
		}
	}
	if len(problems) > 0 {
		return &app.ValidationError{Problems: problems}
	}
	return nil
}

// permissionWarnings flags preferences for slots meant for weaker players
// than the registrant when no permission to train there was given.
func permissionWarnings(req app.SubmitRequest, catalog []domain.Slot) []app.PermissionWarning {
	if req.PermitHigher {
		return nil
	}
	level, ok := domain.ParseLevel(req.LevelText)
	if !ok {
		return nil
	}
	var warnings []app.PermissionWarning
	for i, prefs := range req.Occurrences {
		for _, pref := range prefs {
			slot := slotForPreference(pref, catalog)
			if slot == nil || level >= float64(slot.MinLevel) {
				continue
			}
			warnings = append(warnings, app.PermissionWarning{
				Choice:     i + 1,
				Preference: pref,
				Slot:       slot.Label(),
				MinLevel:   slot.MinLevel,
				Level:      level,
			})
		}
	}
	return warnings
}

// slotForPreference finds the slot a form option refers to. Options are
// rendered from OptionText, so the label is a prefix of the preference.
func slotForPreference(pref string, catalog []domain.Slot) *domain.Slot {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		return nil
	}
	var best *domain.Slot
	for i := range catalog {
		label := catalog[i].Label()
		if strings.HasPrefix(pref, label) && (best == nil || len(label) > len(best.Label())) {
			best = &catalog[i]
		}
	}
	return best
}

func trimPreferences(prefs [3]string) [3]string {
	for i := range prefs {
		prefs[i] = strings.TrimSpace(prefs[i])
	}
	return prefs
}

// staleRows returns every row superseded by a later submission of the same
// phone number. rows must be in storage order. Rows without a phone number
// are never considered duplicates.
func staleRows(rows []domain.Registrant) []domain.Registrant {
	latest := make(map[string]int)
	keep := make(map[int]bool, len(rows))
	for i := range rows {
		phone := strings.TrimSpace(rows[i].Phone)
		if phone == "" {
			keep[i] = true
			continue
		}
		j, seen := latest[phone]
		if !seen {
			latest[phone] = i
			continue
		}
		prev, _ := rows[j].SubmittedTime()
		cur, _ := rows[i].SubmittedTime()
		if !cur.Before(prev) {
			latest[phone] = i
		}
	}

	for _, i := range latest {
		keep[i] = true
	}
	var stale []domain.Registrant
	for i := range rows {
		if !keep[i] {
			stale = append(stale, rows[i])
		}
	}
	sort.SliceStable(stale, func(a, b int) bool { return stale[a].Phone < stale[b].Phone })
	return stale
}
