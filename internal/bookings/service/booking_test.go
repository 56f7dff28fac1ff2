package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "reservio/internal/bookings/errors"
	"reservio/internal/bookings/repository"
	bookingvalidator "reservio/internal/bookings/validator"
	"reservio/pkg/config"
	dbmongo "reservio/pkg/db/mongo"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/kafka"
	"reservio/pkg/logger"
	"reservio/pkg/model"
)

// memoryBookingRepo is a mutex-guarded in-memory BookingRepository.
type memoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]model.Booking
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[string]model.Booking)}
}

func (r *memoryBookingRepo) Create(_ context.Context, booking *model.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = primitive.NewObjectID().Hex()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	r.bookings[booking.ID] = *booking
	return booking.ID, nil
}

func (r *memoryBookingRepo) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingerrors.ErrNotFound
	}
	return &booking, nil
}

func (r *memoryBookingRepo) FindAll(_ context.Context, filter repository.ListFilter, limit int, offset int64) ([]model.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []model.Booking{}
	for _, b := range r.bookings {
		if filter.ResourceKind != "" && b.ResourceKind != filter.ResourceKind {
			continue
		}
		if filter.ResourceCode != "" && b.ResourceCode != filter.ResourceCode {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if filter.CreatedBy != "" && b.CreatedBy != filter.CreatedBy {
			continue
		}
		result = append(result, b)
	}
	return result, int64(len(result)), nil
}

func (r *memoryBookingRepo) FindByResourceAndDate(_ context.Context, kind, code, date string, _ int) ([]model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []model.Booking{}
	for _, b := range r.bookings {
		if b.ResourceKind == kind && b.ResourceCode == code && b.Date == date {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *memoryBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return bookingerrors.ErrNotFound
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return bookingerrors.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memoryBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// memoryLockRepo grants each key to exactly one holder at a time.
type memoryLockRepo struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemoryLockRepo() *memoryLockRepo {
	return &memoryLockRepo{held: make(map[string]bool)}
}

func (r *memoryLockRepo) Acquire(_ context.Context, key string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.held[key] {
		return bookingerrors.ErrLockHeld
	}
	r.held[key] = true
	return nil
}

func (r *memoryLockRepo) Release(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.held, key)
	return nil
}

// fakeTxManager runs the function directly; the in-memory repo supplies
// the atomicity.
type fakeTxManager struct{}

func (fakeTxManager) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type fakeResourceFinder struct {
	exists bool
}

func (f fakeResourceFinder) Exists(context.Context, string, string) (bool, error) {
	return f.exists, nil
}

// capturePublisher records published messages.
type capturePublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (p *capturePublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	types := make([]string, len(p.messages))
	for i, msg := range p.messages {
		types[i] = msg.Headers[kafka.HeaderEventType]
	}
	return types
}

func testConfig(strict bool) *config.Config {
	return &config.Config{
		StrictOverlap:   strict,
		LockTTL:         time.Second,
		MaxConflictScan: 500,
		Log: logger.New(logger.Config{
			Level:  logger.ERROR,
			Format: logger.TEXT,
			Output: io.Discard,
		}),
	}
}

type fixture struct {
	service   *BookingService
	repo      *memoryBookingRepo
	publisher *capturePublisher
}

func newFixture(strict bool) *fixture {
	repo := newMemoryBookingRepo()
	publisher := &capturePublisher{}

	svc := NewBookingService(
		repo,
		newMemoryLockRepo(),
		fakeTxManager{},
		fakeResourceFinder{exists: true},
		publisher,
		bookingvalidator.New(),
		testConfig(strict),
	)

	return &fixture{service: svc, repo: repo, publisher: publisher}
}

func validBooking(from, to string) *model.Booking {
	return &model.Booking{
		ResourceKind: model.KindRoom,
		ResourceCode: "cse-101",
		Date:         "2026-03-14",
		From:         from,
		To:           to,
		Reason:       "team sync",
	}
}

var member = model.Principal{ID: "user-1", Role: model.RoleMember}

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", wantCode)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != wantCode {
		t.Fatalf("error code = %s, want %s (message: %s)", appErr.Code, wantCode, appErr.Message)
	}
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(false)

	created, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Error("created booking has no id")
	}
	if created.CreatedBy != member.ID {
		t.Errorf("CreatedBy = %q, want %q", created.CreatedBy, member.ID)
	}
	if f.repo.count() != 1 {
		t.Errorf("stored bookings = %d, want 1", f.repo.count())
	}

	types := f.publisher.eventTypes()
	if len(types) != 1 || types[0] != "booking.created" {
		t.Errorf("published events = %v, want [booking.created]", types)
	}
}

func TestBookingService_Create_RequiresIdentity(t *testing.T) {
	f := newFixture(false)

	_, err := f.service.Create(context.Background(), model.Principal{}, validBooking("09:00", "10:00"))
	assertCode(t, err, apperrors.CodeUnauthorized)
}

func TestBookingService_Create_InvalidWindow(t *testing.T) {
	f := newFixture(false)

	_, err := f.service.Create(context.Background(), member, validBooking("10:00", "09:00"))
	assertCode(t, err, apperrors.CodeValidation)

	if f.repo.count() != 0 {
		t.Errorf("stored bookings = %d, want 0", f.repo.count())
	}
}

func TestBookingService_Create_UnknownResource(t *testing.T) {
	repo := newMemoryBookingRepo()
	svc := NewBookingService(
		repo,
		newMemoryLockRepo(),
		fakeTxManager{},
		fakeResourceFinder{exists: false},
		nil,
		bookingvalidator.New(),
		testConfig(false),
	)

	_, err := svc.Create(context.Background(), member, validBooking("09:00", "10:00"))
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestBookingService_Create_UnknownResourceReportedBeforeWindow(t *testing.T) {
	svc := NewBookingService(
		newMemoryBookingRepo(),
		newMemoryLockRepo(),
		fakeTxManager{},
		fakeResourceFinder{exists: false},
		nil,
		bookingvalidator.New(),
		testConfig(false),
	)

	// Input that is wrong twice over: the resource does not exist and the
	// window is inverted. The missing resource wins.
	_, err := svc.Create(context.Background(), member, validBooking("10:00", "09:00"))
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestBookingService_Create_KindIsCaseInsensitive(t *testing.T) {
	f := newFixture(false)

	booking := validBooking("09:00", "10:00")
	booking.ResourceKind = "Room"

	created, err := f.service.Create(context.Background(), member, booking)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ResourceKind != model.KindRoom {
		t.Errorf("ResourceKind = %q, want %q", created.ResourceKind, model.KindRoom)
	}

	// The canonicalized kind collides with lowercase bookings of the
	// same slot.
	_, err = f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
	assertCode(t, err, apperrors.CodeConflict)
}

func TestBookingService_Create_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantErr  bool
	}{
		{"identical slot", "09:00", "10:00", true},
		{"overlapping", "09:30", "10:30", true},
		{"same start", "09:00", "09:15", true},
		{"same end", "09:45", "10:00", true},
		{"contained", "09:15", "09:45", true},
		{"containing", "08:00", "12:00", true},
		{"back to back after", "10:00", "11:00", false},
		{"back to back before", "08:00", "09:00", false},
		{"disjoint", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)

			if _, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00")); err != nil {
				t.Fatalf("seed Create() error = %v", err)
			}

			_, err := f.service.Create(context.Background(), member, validBooking(tt.from, tt.to))
			if tt.wantErr {
				assertCode(t, err, apperrors.CodeConflict)
				if f.repo.count() != 1 {
					t.Errorf("stored bookings = %d, want 1", f.repo.count())
				}
			} else if err != nil {
				t.Fatalf("Create() error = %v, want success", err)
			}
		})
	}
}

func TestBookingService_Create_DifferentDateNeverConflicts(t *testing.T) {
	f := newFixture(false)

	if _, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00")); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	other := validBooking("09:00", "10:00")
	other.Date = "2026-03-15"
	if _, err := f.service.Create(context.Background(), member, other); err != nil {
		t.Fatalf("Create() on another date error = %v", err)
	}
}

func TestBookingService_Update_Authorization(t *testing.T) {
	f := newFixture(false)

	created, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	patch := &model.BookingUpdate{Reason: "moved standup"}

	tests := []struct {
		name      string
		principal model.Principal
		wantCode  string
	}{
		{"anonymous", model.Principal{}, apperrors.CodeUnauthorized},
		{"other member", model.Principal{ID: "user-2", Role: model.RoleMember}, apperrors.CodeForbidden},
		{"creator", member, ""},
		{"admin", model.Principal{ID: "admin-1", Role: model.RoleAdmin}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Update(context.Background(), tt.principal, created.ID, patch)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Update() error = %v", err)
				}
			} else {
				assertCode(t, err, tt.wantCode)
			}
		})
	}
}

func TestBookingService_Update_MoveRechecksConflicts(t *testing.T) {
	f := newFixture(false)

	if _, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00")); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	second, err := f.service.Create(context.Background(), member, validBooking("11:00", "12:00"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Moving the second booking onto the first must be rejected.
	_, err = f.service.Update(context.Background(), member, second.ID, &model.BookingUpdate{
		From: "09:30", To: "10:30",
	})
	assertCode(t, err, apperrors.CodeConflict)

	// The stored booking is untouched.
	stored, err := f.service.GetByID(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.From != "11:00" || stored.To != "12:00" {
		t.Errorf("booking window = %s-%s, want 11:00-12:00", stored.From, stored.To)
	}
}

func TestBookingService_Update_DoesNotConflictWithItself(t *testing.T) {
	f := newFixture(false)

	created, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Shrinking a booking overlaps its own stored window; the check must
	// exclude the booking under update.
	updated, err := f.service.Update(context.Background(), member, created.ID, &model.BookingUpdate{
		From: "09:00", To: "09:30",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.To != "09:30" {
		t.Errorf("To = %s, want 09:30", updated.To)
	}
}

func TestBookingService_Update_InvalidMergedWindow(t *testing.T) {
	f := newFixture(false)

	created, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Patching From past the existing To must fail on the merged document.
	_, err = f.service.Update(context.Background(), member, created.ID, &model.BookingUpdate{From: "10:30"})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestBookingService_Update_NotFound(t *testing.T) {
	f := newFixture(false)

	_, err := f.service.Update(context.Background(), member, primitive.NewObjectID().Hex(), &model.BookingUpdate{Reason: "x"})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestBookingService_Delete(t *testing.T) {
	f := newFixture(false)

	created, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A non-creator member cannot delete, and the store is unchanged.
	err = f.service.Delete(context.Background(), model.Principal{ID: "user-2", Role: model.RoleMember}, created.ID)
	assertCode(t, err, apperrors.CodeForbidden)
	if f.repo.count() != 1 {
		t.Fatalf("stored bookings = %d, want 1", f.repo.count())
	}

	if err := f.service.Delete(context.Background(), member, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if f.repo.count() != 0 {
		t.Errorf("stored bookings = %d, want 0", f.repo.count())
	}

	types := f.publisher.eventTypes()
	if len(types) != 2 || types[1] != "booking.deleted" {
		t.Errorf("published events = %v, want [booking.created booking.deleted]", types)
	}
}

func TestBookingService_ConcurrentCreate_OneWinner(t *testing.T) {
	f := newFixture(false)

	const contenders = 8

	var wg sync.WaitGroup
	errs := make([]error, contenders)

	start := make(chan struct{})
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.service.Create(context.Background(), member, validBooking("09:00", "10:00"))
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assertCode(t, err, apperrors.CodeConflict)
	}

	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
	if f.repo.count() != 1 {
		t.Errorf("stored bookings = %d, want 1", f.repo.count())
	}
}

func TestBookingService_StrictOverlapPolicy(t *testing.T) {
	f := newFixture(true)

	if _, err := f.service.Create(context.Background(), member, validBooking("09:00", "10:00")); err != nil {
		t.Fatalf("seed Create() error = %v", err)
	}

	// Touching bookings are still admitted under the strict predicate.
	if _, err := f.service.Create(context.Background(), member, validBooking("10:00", "11:00")); err != nil {
		t.Fatalf("Create() back-to-back error = %v", err)
	}

	_, err := f.service.Create(context.Background(), member, validBooking("09:30", "10:30"))
	assertCode(t, err, apperrors.CodeConflict)
}
