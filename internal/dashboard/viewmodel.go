// Package dashboard implements the provider schedule view model: it reacts to
// day and month selections, loads appointments and availability, and keeps a
// render-ready Snapshot up to date.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"agenda/internal/availability"
	"agenda/internal/events"
	"agenda/internal/metrics"
	"agenda/internal/notify"
	"agenda/internal/schedule"
	"agenda/internal/timefmt"
)

// LoadState is the lifecycle of one fetch stream.
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	StateFailed  LoadState = "failed"
)

// Options configures a ViewModel.
type Options struct {
	Locale   timefmt.Locale
	Location *time.Location
	Clock    timefmt.Clock
	Notifier notify.Notifier
	Events   Publisher
	Logger   *zerolog.Logger
}

// Snapshot is everything the dashboard screen renders.
type Snapshot struct {
	SelectedDate        time.Time              `json:"selected_date"`
	SelectedMonth       string                 `json:"selected_month"`
	SelectedDateLabel   string                 `json:"selected_date_label"`
	WeekdayLabel        string                 `json:"weekday_label"`
	IsSelectedDateToday bool                   `json:"is_selected_date_today"`
	Morning             []schedule.Appointment `json:"morning"`
	Afternoon           []schedule.Appointment `json:"afternoon"`
	Next                *schedule.Appointment  `json:"next,omitempty"`
	DisabledDates       []time.Time            `json:"disabled_dates"`
	Grid                availability.Grid      `json:"grid"`
	AppointmentsState   LoadState              `json:"appointments_state"`
	AvailabilityState   LoadState              `json:"availability_state"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

type state struct {
	selectedDate  time.Time
	selectedMonth availability.YearMonth

	appointments []schedule.Appointment
	apptGen      uint64
	apptState    LoadState

	// entries belong to entriesMonth, which may lag selectedMonth after a failed fetch.
	entries      []availability.DayEntry
	entriesMonth availability.YearMonth
	availGen     uint64
	availState   LoadState

	disabled availability.DisabledSet
}

// ViewModel is safe for concurrent use.
type ViewModel struct {
	appointments AppointmentSource
	availability AvailabilitySource
	session      Session
	notifier     notify.Notifier
	events       Publisher
	clock        timefmt.Clock
	locale       timefmt.Locale
	loc          *time.Location
	logger       *zerolog.Logger

	mu   sync.Mutex
	st   state
	snap Snapshot
}

// New creates a view model whose selection starts on today's date and month.
// Call Load to issue the initial fetches.
func New(appts AppointmentSource, avail AvailabilitySource, sess Session, opts Options) *ViewModel {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = timefmt.SystemClock(opts.Location)
	}
	if opts.Locale == "" {
		opts.Locale = timefmt.DefaultLocale
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLogNotifier(opts.Logger)
	}

	vm := &ViewModel{
		appointments: appts,
		availability: avail,
		session:      sess,
		notifier:     opts.Notifier,
		events:       opts.Events,
		clock:        opts.Clock,
		locale:       opts.Locale,
		loc:          opts.Location,
		logger:       opts.Logger,
	}

	today := timefmt.StartOfDay(vm.now())
	vm.st = state{
		selectedDate:  today,
		selectedMonth: availability.MonthOf(today),
		apptState:     StateIdle,
		availState:    StateIdle,
	}
	vm.recompute()
	return vm
}

// Load fetches the appointments of the selected day and the availability of
// the selected month concurrently and waits for both.
func (vm *ViewModel) Load(ctx context.Context) {
	var (
		day, month     time.Time
		apptGen, avGen uint64
	)
	vm.apply(func(st *state) bool {
		st.apptGen++
		st.availGen++
		st.apptState = StateLoading
		st.availState = StateLoading
		day, apptGen = st.selectedDate, st.apptGen
		month, avGen = st.selectedMonth.First(vm.loc), st.availGen
		return true
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		vm.loadAppointments(ctx, day, apptGen)
	}()
	go func() {
		defer wg.Done()
		vm.loadAvailability(ctx, month, avGen)
	}()
	wg.Wait()
}

// SelectDate switches the detail panel to day d and loads its appointments.
// Weekends, days disabled in the displayed month and days before the current
// month are rejected without any state change.
func (vm *ViewModel) SelectDate(ctx context.Context, d time.Time) error {
	day := timefmt.StartOfDay(d.In(vm.loc))

	var (
		gen       uint64
		rejection error
	)
	vm.apply(func(st *state) bool {
		if err := vm.checkSelectable(st, day); err != nil {
			rejection = err
			return false
		}
		st.apptGen++
		gen = st.apptGen
		st.selectedDate = day
		st.appointments = nil
		st.apptState = StateLoading
		return true
	})
	if rejection != nil {
		metrics.IncRejected(rejectionReason(rejection))
		vm.logger.Debug().Err(rejection).Time("date", day).Msg("date selection rejected")
		return rejection
	}

	vm.loadAppointments(ctx, day, gen)
	return nil
}

// SelectMonth switches the calendar grid to month m and loads its availability.
func (vm *ViewModel) SelectMonth(ctx context.Context, m availability.YearMonth) error {
	if m.Before(availability.MonthOf(vm.now())) {
		metrics.IncRejected(rejectionReason(ErrDateOutOfRange))
		return ErrDateOutOfRange
	}

	var gen uint64
	vm.apply(func(st *state) bool {
		st.availGen++
		gen = st.availGen
		st.selectedMonth = m
		st.availState = StateLoading
		return true
	})

	vm.loadAvailability(ctx, m.First(vm.loc), gen)
	return nil
}

// Refresh recomputes the time-dependent parts of the snapshot (today marker and
// next appointment) against the current clock.
func (vm *ViewModel) Refresh() Snapshot {
	snap, _ := vm.apply(func(*state) bool { return true })
	return snap
}

// Snapshot returns the latest computed snapshot.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.snap
}

func (vm *ViewModel) loadAppointments(ctx context.Context, day time.Time, gen uint64) {
	start := time.Now()
	raw, err := vm.appointments.FetchByDay(ctx, day.Day(), int(day.Month()), day.Year())
	metrics.ObserveFetchDuration(string(StreamAppointments), time.Since(start).Seconds())

	if err != nil {
		ferr := &FetchError{Stream: StreamAppointments, Key: day.Format("2006-01-02"), Err: err}
		_, applied := vm.apply(func(st *state) bool {
			if st.apptGen != gen {
				return false
			}
			st.apptState = StateFailed
			return true
		})
		if !applied {
			vm.discard(StreamAppointments, ferr.Key)
			return
		}
		metrics.IncFetch(string(StreamAppointments), "error")
		vm.logger.Error().Err(err).Str("date", ferr.Key).Msg("failed to load appointments")
		vm.publish(events.Event{Type: events.TypeFetchFailed, Payload: ferr})
		vm.notifier.Notify(appointmentsFailedToast(vm.locale, day))
		return
	}

	list, parseErrs := schedule.MapRaw(raw, vm.loc)
	for _, perr := range parseErrs {
		vm.logger.Warn().Err(perr).Msg("dropping malformed appointment")
	}
	metrics.AddDropped("appointment", len(parseErrs))

	_, applied := vm.apply(func(st *state) bool {
		if st.apptGen != gen {
			return false
		}
		st.appointments = list
		st.apptState = StateReady
		return true
	})
	if !applied {
		vm.discard(StreamAppointments, day.Format("2006-01-02"))
		return
	}
	metrics.IncFetch(string(StreamAppointments), "ok")
	vm.logger.Debug().Time("date", day).Int("count", len(list)).Msg("appointments loaded")
}

func (vm *ViewModel) loadAvailability(ctx context.Context, month time.Time, gen uint64) {
	ym := availability.MonthOf(month)
	providerID := ""
	if vm.session != nil {
		providerID = vm.session.CurrentUser().ID
	}

	start := time.Now()
	entries, err := vm.availability.FetchByMonth(ctx, providerID, int(ym.Month), ym.Year)
	metrics.ObserveFetchDuration(string(StreamAvailability), time.Since(start).Seconds())

	if err != nil {
		ferr := &FetchError{Stream: StreamAvailability, Key: ym.String(), Err: err}
		// Previous entries stay; only the stream state changes.
		_, applied := vm.apply(func(st *state) bool {
			if st.availGen != gen {
				return false
			}
			st.availState = StateFailed
			return true
		})
		if !applied {
			vm.discard(StreamAvailability, ferr.Key)
			return
		}
		metrics.IncFetch(string(StreamAvailability), "error")
		vm.logger.Error().Err(err).Str("provider_id", providerID).Str("month", ym.String()).Msg("failed to load month availability")
		vm.publish(events.Event{Type: events.TypeFetchFailed, Payload: ferr})
		vm.notifier.Notify(availabilityFailedToast(vm.locale, month))
		return
	}

	_, applied := vm.apply(func(st *state) bool {
		if st.availGen != gen {
			return false
		}
		st.entries = entries
		st.entriesMonth = ym
		st.availState = StateReady
		return true
	})
	if !applied {
		vm.discard(StreamAvailability, ym.String())
		return
	}
	metrics.IncFetch(string(StreamAvailability), "ok")
	invalid := 0
	for _, e := range entries {
		if e.Day < 1 || e.Day > ym.Days() {
			invalid++
		}
	}
	metrics.AddDropped("availability", invalid)
	vm.logger.Debug().Str("month", ym.String()).Int("entries", len(entries)).Int("invalid", invalid).Msg("month availability loaded")
}

// apply runs mutate under the lock and, when it reports a change, recomputes the
// snapshot and publishes it after the lock is released.
func (vm *ViewModel) apply(mutate func(st *state) bool) (Snapshot, bool) {
	vm.mu.Lock()
	if !mutate(&vm.st) {
		snap := vm.snap
		vm.mu.Unlock()
		return snap, false
	}
	vm.recompute()
	snap := vm.snap
	vm.mu.Unlock()

	vm.publish(events.Event{Type: events.TypeSnapshotUpdated, Payload: snap})
	return snap, true
}

// recompute derives the snapshot from the state. Callers hold vm.mu.
func (vm *ViewModel) recompute() {
	st := &vm.st
	now := vm.now()

	var entries []availability.DayEntry
	if st.entriesMonth == st.selectedMonth {
		entries = st.entries
	}
	st.disabled = availability.ComputeDisabledDates(entries, st.selectedMonth,
		availability.WithLocation(vm.loc),
		availability.OnInvalidEntry(func(e *availability.InvalidEntryError) {
			vm.logger.Warn().Err(e).Msg("dropping availability entry")
		}),
	)

	isToday := timefmt.IsSameCalendarDay(st.selectedDate, now)
	periods := schedule.PartitionByPeriod(st.appointments, vm.loc)

	var next *schedule.Appointment
	if a, ok := schedule.FindNextAppointment(st.appointments, now, isToday); ok {
		next = &a
	}

	grid := availability.BuildGrid(st.disabled, availability.GridParams{
		Now:      now,
		Selected: st.selectedDate,
		From:     availability.MonthOf(now),
	})
	monthStart := st.selectedMonth.First(vm.loc)
	grid.Title = fmt.Sprintf("%s %d", timefmt.MonthName(monthStart, vm.locale), st.selectedMonth.Year)

	vm.snap = Snapshot{
		SelectedDate:        st.selectedDate,
		SelectedMonth:       st.selectedMonth.String(),
		SelectedDateLabel:   timefmt.LongDateLabel(st.selectedDate, vm.locale),
		WeekdayLabel:        timefmt.WeekdayName(st.selectedDate, vm.locale),
		IsSelectedDateToday: isToday,
		Morning:             periods.Morning,
		Afternoon:           periods.Afternoon,
		Next:                next,
		DisabledDates:       st.disabled.Dates(),
		Grid:                grid,
		AppointmentsState:   st.apptState,
		AvailabilityState:   st.availState,
		UpdatedAt:           now,
	}
}

func (vm *ViewModel) checkSelectable(st *state, day time.Time) error {
	if availability.MonthOf(day).Before(availability.MonthOf(vm.now())) {
		return ErrDateOutOfRange
	}
	if availability.IsWeekend(day) || st.disabled.Contains(day) {
		return ErrDateUnavailable
	}
	return nil
}

func (vm *ViewModel) discard(stream Stream, key string) {
	metrics.IncStale(string(stream))
	vm.logger.Debug().Str("stream", string(stream)).Str("key", key).Msg("discarding superseded result")
	vm.publish(events.Event{Type: events.TypeResultDiscarded, Payload: key})
}

func (vm *ViewModel) publish(e events.Event) {
	if vm.events == nil {
		return
	}
	if err := vm.events.Publish(e); err != nil {
		vm.logger.Warn().Err(err).Str("event", e.Type).Msg("event handler failed")
	}
}

func (vm *ViewModel) now() time.Time {
	return vm.clock.Now().In(vm.loc)
}

func rejectionReason(err error) string {
	if errors.Is(err, ErrDateOutOfRange) {
		return "out_of_range"
	}
	return "unavailable"
}
