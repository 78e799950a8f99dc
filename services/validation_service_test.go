package services

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"
)

type lockCall struct {
	sessionID string
	roomIDs   []uint
	start     time.Time
	end       time.Time
	ttl       time.Duration
}

type fakeBookingStore struct {
	stays      []models.BookedStay
	rooms      []models.Room
	overlapErr error
	roomsErr   error
	lockResult models.LockResult
	lockErr    error
	lastLock   *lockCall
}

func (f *fakeBookingStore) OverlappingBookings(roomIDs []uint, start, end time.Time, excludeBookingID uint) ([]models.BookedStay, error) {
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}
	wanted := map[uint]bool{}
	for _, id := range roomIDs {
		wanted[id] = true
	}
	out := []models.BookedStay{}
	for _, stay := range f.stays {
		if !wanted[stay.RoomID] || stay.BookingID == excludeBookingID {
			continue
		}
		if utils.DateRangesOverlap(start, end, stay.CheckIn, stay.CheckOut) {
			out = append(out, stay)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ActiveRoomsByID(roomIDs []uint) ([]models.Room, error) {
	if f.roomsErr != nil {
		return nil, f.roomsErr
	}
	wanted := map[uint]bool{}
	for _, id := range roomIDs {
		wanted[id] = true
	}
	out := []models.Room{}
	for _, r := range f.rooms {
		if wanted[r.ID] && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ActiveRooms() ([]models.Room, error) {
	if f.roomsErr != nil {
		return nil, f.roomsErr
	}
	out := []models.Room{}
	for _, r := range f.rooms {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) AcquireLock(sessionID string, roomIDs []uint, start, end time.Time, ttl time.Duration) (models.LockResult, error) {
	f.lastLock = &lockCall{sessionID: sessionID, roomIDs: roomIDs, start: start, end: end, ttl: ttl}
	if f.lockErr != nil {
		return models.LockResult{}, f.lockErr
	}
	return f.lockResult, nil
}

func room(id uint, number string, capacity int) models.Room {
	r := models.Room{RoomNumber: number, MaxOccupancy: capacity, IsActive: true}
	r.ID = id
	return r
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestValidator(store *fakeBookingStore, now time.Time) *BookingValidationService {
	return NewBookingValidationService(store).WithClock(fixedClock(now))
}

func TestValidateBookingExclusivelyDetectsOverlap(t *testing.T) {
	store := &fakeBookingStore{
		stays: []models.BookedStay{{
			BookingID: 42, RoomID: 201, GuestName: "Tanaka",
			CheckIn: date(2025, 6, 15), CheckOut: date(2025, 6, 17),
			Status: models.BookingConfirmed,
		}},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	v := svc.ValidateBookingExclusively([]uint{201}, date(2025, 6, 16), date(2025, 6, 18), 0)

	if v.IsValid || v.CanProceed {
		t.Error("overlapping candidate must be invalid and blocked")
	}
	if len(v.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(v.Conflicts))
	}
	c := v.Conflicts[0]
	if c.RoomID != 201 || c.ConflictingBookingID != 42 || c.ConflictingGuestName != "Tanaka" {
		t.Errorf("conflict = %+v", c)
	}
	if c.OverlapNights != 1 {
		t.Errorf("overlap nights = %d, want 1", c.OverlapNights)
	}
	if !c.OverlapStart.Equal(date(2025, 6, 16)) || !c.OverlapEnd.Equal(date(2025, 6, 17)) {
		t.Errorf("overlap window = [%v, %v)", c.OverlapStart, c.OverlapEnd)
	}
	if len(v.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one generic conflict error", v.Errors)
	}
	if len(v.Warnings) < 2 {
		t.Errorf("warnings = %v, want room summary plus detail line", v.Warnings)
	}
}

func TestValidateBookingExclusivelyHalfOpenCheckout(t *testing.T) {
	store := &fakeBookingStore{
		stays: []models.BookedStay{{
			BookingID: 42, RoomID: 201, GuestName: "Tanaka",
			CheckIn: date(2025, 6, 15), CheckOut: date(2025, 6, 17),
		}},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	// Checking in on the other booking's checkout day is fine.
	v := svc.ValidateBookingExclusively([]uint{201}, date(2025, 6, 17), date(2025, 6, 19), 0)

	if !v.IsValid || !v.CanProceed {
		t.Errorf("back-to-back bookings must not conflict: %+v", v)
	}
	if len(v.Conflicts) != 0 {
		t.Errorf("conflicts = %v, want none", v.Conflicts)
	}
}

func TestValidateBookingExclusivelyExcludesOwnBooking(t *testing.T) {
	store := &fakeBookingStore{
		stays: []models.BookedStay{{
			BookingID: 42, RoomID: 201, GuestName: "Tanaka",
			CheckIn: date(2025, 6, 15), CheckOut: date(2025, 6, 17),
		}},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	v := svc.ValidateBookingExclusively([]uint{201}, date(2025, 6, 15), date(2025, 6, 17), 42)
	if !v.IsValid {
		t.Errorf("re-validating a booking against itself must pass: %+v", v)
	}
}

func TestValidateBookingExclusivelyFailsClosed(t *testing.T) {
	store := &fakeBookingStore{overlapErr: errors.New("connection refused")}
	svc := newTestValidator(store, date(2025, 6, 1))

	v := svc.ValidateBookingExclusively([]uint{201}, date(2025, 6, 16), date(2025, 6, 18), 0)

	if v.IsValid || v.CanProceed {
		t.Error("a store failure must never read as no conflicts")
	}
	if len(v.Errors) == 0 || !strings.Contains(v.Errors[0], "store_query_failure") {
		t.Errorf("errors = %v, want store_query_failure", v.Errors)
	}
}

func TestValidateBookingExclusivelyIdempotent(t *testing.T) {
	store := &fakeBookingStore{
		stays: []models.BookedStay{
			{BookingID: 7, RoomID: 101, GuestName: "Sato", CheckIn: date(2025, 6, 14), CheckOut: date(2025, 6, 16)},
			{BookingID: 42, RoomID: 201, GuestName: "Tanaka", CheckIn: date(2025, 6, 15), CheckOut: date(2025, 6, 17)},
		},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	first := svc.ValidateBookingExclusively([]uint{101, 201}, date(2025, 6, 15), date(2025, 6, 18), 0)
	second := svc.ValidateBookingExclusively([]uint{101, 201}, date(2025, 6, 15), date(2025, 6, 18), 0)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestPerformRealtimeCheck(t *testing.T) {
	now := date(2025, 6, 1)
	store := &fakeBookingStore{
		stays: []models.BookedStay{{
			BookingID: 42, RoomID: 201, GuestName: "Tanaka",
			CheckIn: date(2025, 6, 15), CheckOut: date(2025, 6, 17),
		}},
	}
	svc := newTestValidator(store, now)

	res := svc.PerformRealtimeCheck([]uint{201}, date(2025, 6, 16), date(2025, 6, 18), 0)
	if !res.Success {
		t.Error("a completed check with conflicts is still a successful check")
	}
	if len(res.Conflicts) != 1 {
		t.Errorf("conflicts = %d, want 1", len(res.Conflicts))
	}
	if !res.UpdatedAt.Equal(now) {
		t.Errorf("updatedAt = %v, want clock time", res.UpdatedAt)
	}

	store.overlapErr = errors.New("timeout")
	res = svc.PerformRealtimeCheck([]uint{201}, date(2025, 6, 16), date(2025, 6, 18), 0)
	if res.Success {
		t.Error("store failure must surface as unsuccessful check")
	}
}

func validCandidate() BookingCandidate {
	return BookingCandidate{
		RoomIDs:   []uint{101, 102},
		CheckIn:   date(2025, 6, 16),
		CheckOut:  date(2025, 6, 18),
		Guests:    models.GuestCount{Adults: 2},
		GuestName: "Yamada",
	}
}

func TestFinalValidationCapacityExceeded(t *testing.T) {
	store := &fakeBookingStore{
		rooms: []models.Room{room(101, "101", 2), room(102, "102", 2)},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	candidate := validCandidate()
	candidate.Guests = models.GuestCount{Adults: 4, Children: 1} // 5 into capacity 4

	v := svc.FinalValidationBeforeCommit(candidate, 0)

	if v.CanProceed {
		t.Error("capacity overflow must block commit")
	}
	found := false
	for _, e := range v.Errors {
		if strings.Contains(e, "capacity_exceeded") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want capacity_exceeded", v.Errors)
	}
}

func TestFinalValidationCapacityWarning(t *testing.T) {
	store := &fakeBookingStore{
		rooms: []models.Room{room(101, "101", 5), room(102, "102", 5)},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	candidate := validCandidate()
	candidate.Guests = models.GuestCount{Adults: 9} // 90% of 10

	v := svc.FinalValidationBeforeCommit(candidate, 0)

	if !v.CanProceed {
		t.Errorf("high utilization must warn, not block: %v", v.Errors)
	}
	if len(v.Warnings) == 0 {
		t.Error("expected an occupancy warning")
	}
}

func TestFinalValidationPastStartDate(t *testing.T) {
	store := &fakeBookingStore{
		rooms: []models.Room{room(101, "101", 2), room(102, "102", 2)},
	}
	today := date(2025, 6, 10)
	svc := newTestValidator(store, today)

	candidate := validCandidate()
	candidate.CheckIn = date(2025, 6, 9)
	candidate.CheckOut = date(2025, 6, 11)

	v := svc.FinalValidationBeforeCommit(candidate, 0)
	if v.CanProceed {
		t.Error("a check-in before today must block commit")
	}

	// Starting exactly today is allowed.
	candidate.CheckIn = today
	candidate.CheckOut = date(2025, 6, 12)
	v = svc.FinalValidationBeforeCommit(candidate, 0)
	if !v.CanProceed {
		t.Errorf("same-day check-in must pass: %v", v.Errors)
	}
}

func TestFinalValidationBusinessRules(t *testing.T) {
	store := &fakeBookingStore{
		rooms: []models.Room{room(101, "101", 200), room(102, "102", 200)},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	t.Run("inverted range", func(t *testing.T) {
		candidate := validCandidate()
		candidate.CheckIn = date(2025, 6, 18)
		candidate.CheckOut = date(2025, 6, 16)
		if v := svc.FinalValidationBeforeCommit(candidate, 0); v.CanProceed {
			t.Error("inverted range must block commit")
		}
	})

	t.Run("zero guests", func(t *testing.T) {
		candidate := validCandidate()
		candidate.Guests = models.GuestCount{}
		if v := svc.FinalValidationBeforeCommit(candidate, 0); v.CanProceed {
			t.Error("zero guests must block commit")
		}
	})

	t.Run("blank name", func(t *testing.T) {
		candidate := validCandidate()
		candidate.GuestName = "   "
		if v := svc.FinalValidationBeforeCommit(candidate, 0); v.CanProceed {
			t.Error("blank representative name must block commit")
		}
	})

	t.Run("long stay warns only", func(t *testing.T) {
		candidate := validCandidate()
		candidate.CheckOut = candidate.CheckIn.AddDate(0, 0, 31)
		v := svc.FinalValidationBeforeCommit(candidate, 0)
		if !v.CanProceed {
			t.Errorf("31 nights must warn, not block: %v", v.Errors)
		}
		if len(v.Warnings) == 0 {
			t.Error("expected a long-stay warning")
		}
	})

	t.Run("huge party warns only", func(t *testing.T) {
		candidate := validCandidate()
		candidate.Guests = models.GuestCount{Students: 101}
		v := svc.FinalValidationBeforeCommit(candidate, 0)
		if !v.CanProceed {
			t.Errorf("101 guests within capacity must warn, not block: %v", v.Errors)
		}
		if len(v.Warnings) == 0 {
			t.Error("expected a party-size warning")
		}
	})
}

func TestHandleConcurrentAccess(t *testing.T) {
	expires := date(2025, 6, 1).Add(10 * time.Minute)
	store := &fakeBookingStore{
		lockResult: models.LockResult{LockAcquired: true, LockExpiresAt: expires, OtherActiveSessions: 0},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	res, err := svc.HandleConcurrentAccess("session-a", []uint{201}, date(2025, 6, 16), date(2025, 6, 18))
	if err != nil {
		t.Fatalf("HandleConcurrentAccess: %v", err)
	}
	if !res.LockAcquired || !res.LockExpiresAt.Equal(expires) {
		t.Errorf("result = %+v", res)
	}

	if store.lastLock == nil {
		t.Fatal("store was not asked for a lock")
	}
	if store.lastLock.ttl != models.LockTTL {
		t.Errorf("ttl = %v, want %v", store.lastLock.ttl, models.LockTTL)
	}
	if store.lastLock.sessionID != "session-a" {
		t.Errorf("sessionID = %q", store.lastLock.sessionID)
	}

	if _, err := svc.HandleConcurrentAccess("", []uint{201}, date(2025, 6, 16), date(2025, 6, 18)); !errors.Is(err, ErrInvalidStayParameters) {
		t.Errorf("blank session: err = %v, want ErrInvalidStayParameters", err)
	}
	if _, err := svc.HandleConcurrentAccess("session-a", nil, date(2025, 6, 16), date(2025, 6, 18)); !errors.Is(err, ErrInvalidStayParameters) {
		t.Errorf("no rooms: err = %v, want ErrInvalidStayParameters", err)
	}
}

func TestDetectAndResolveConflicts(t *testing.T) {
	store := &fakeBookingStore{
		stays: []models.BookedStay{{
			BookingID: 42, RoomID: 201, GuestName: "Tanaka",
			CheckIn: date(2025, 6, 15), CheckOut: date(2025, 6, 17),
		}},
		rooms: []models.Room{room(201, "201", 4), room(202, "202", 4), room(301, "301", 8)},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	res := svc.DetectAndResolveConflicts(9, []uint{201}, date(2025, 6, 16), date(2025, 6, 18))

	if !res.HasNewConflicts {
		t.Fatal("expected conflicts")
	}
	if len(res.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(res.Conflicts))
	}

	var roomOptions, dateOptions int
	for _, opt := range res.ResolutionOptions {
		switch opt.Type {
		case models.ResolutionAlternativeRoom:
			roomOptions++
			if opt.RoomID == 201 {
				t.Error("a conflicted room must not be proposed as an alternative")
			}
		case models.ResolutionAlternativeDates:
			dateOptions++
			if opt.StartDate == nil || opt.EndDate == nil {
				t.Error("date option missing window")
			}
		default:
			t.Errorf("unknown option type %q", opt.Type)
		}
	}
	if roomOptions == 0 {
		t.Error("expected at least one alternative room")
	}
	if dateOptions == 0 {
		t.Error("expected at least one alternative date window")
	}
}

func TestDetectAndResolveConflictsNoConflict(t *testing.T) {
	store := &fakeBookingStore{
		rooms: []models.Room{room(201, "201", 4)},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	res := svc.DetectAndResolveConflicts(9, []uint{201}, date(2025, 6, 16), date(2025, 6, 18))
	if res.HasNewConflicts {
		t.Error("no stays, no conflicts")
	}
	if len(res.ResolutionOptions) != 0 {
		t.Errorf("options = %v, want empty", res.ResolutionOptions)
	}
}

func TestDetectAndResolveConflictsNoAlternatives(t *testing.T) {
	// Every room is taken for every nearby window: the options list
	// comes back empty and that is a legitimate answer.
	stays := []models.BookedStay{}
	for _, roomID := range []uint{201, 202} {
		stays = append(stays, models.BookedStay{
			BookingID: uint(100 + roomID), RoomID: roomID, GuestName: "Blocked",
			CheckIn: date(2025, 5, 1), CheckOut: date(2025, 8, 1),
		})
	}
	store := &fakeBookingStore{
		stays: stays,
		rooms: []models.Room{room(201, "201", 4), room(202, "202", 4)},
	}
	svc := newTestValidator(store, date(2025, 6, 1))

	res := svc.DetectAndResolveConflicts(9, []uint{201}, date(2025, 6, 16), date(2025, 6, 18))
	if !res.HasNewConflicts {
		t.Fatal("expected conflicts")
	}
	if len(res.ResolutionOptions) != 0 {
		t.Errorf("options = %+v, want empty", res.ResolutionOptions)
	}
}
