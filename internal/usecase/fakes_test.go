package usecase_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"travel-marketplace/internal/authz"
	"travel-marketplace/internal/data/entity"
	"travel-marketplace/internal/data/repository"

	"github.com/google/uuid"
)

var errDB = errors.New("connection refused")

// --- In-memory repositories ---
// Each fake keeps rows in a map and returns err (when set) from every call.

type fakeAccountRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Account
	err  error
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *entity.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, row := range f.rows {
		if strings.EqualFold(row.Email, a.Email) {
			return repository.ErrDuplicate
		}
	}
	cp := *a
	f.rows[a.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[id], nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, row := range f.rows {
		if strings.EqualFold(row.Email, email) {
			return row, nil
		}
	}
	return nil, nil
}

type fakeProfileRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Profile
	err  error
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[id], nil
}

func (f *fakeProfileRepo) CountByRole(ctx context.Context) (map[authz.Role]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[authz.Role]int64)
	for _, p := range f.rows {
		out[p.Role]++
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Session
	err  error
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *s
	f.rows[s.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.rows[token]
	if !ok || s.RevokedAt != nil {
		return nil, nil
	}
	return s, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if s, ok := f.rows[token]; ok && s.RevokedAt == nil {
		now := s.CreatedAt
		s.RevokedAt = &now
	}
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return 0, f.err
}

type fakePackageRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entity.Package
	err  error
	// listErr fails only the list reads the dashboards depend on.
	listErr error
	// approvedPage, when set, replaces the page FindApproved returns so a
	// test can stand in for store-side matching the entity filter lacks.
	approvedPage []*entity.Package
}

func (f *fakePackageRepo) Create(ctx context.Context, p *entity.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePackageRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePackageRepo) list(keep func(*entity.Package) bool) []*entity.Package {
	var out []*entity.Package
	for _, p := range f.rows {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakePackageRepo) FindApproved(ctx context.Context, filter entity.PackageFilter, limit, offset int) ([]*entity.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.approvedPage != nil {
		return f.approvedPage, nil
	}
	all := f.list(filter.Match)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (f *fakePackageRepo) CountApproved(ctx context.Context, filter entity.PackageFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.list(filter.Match))), nil
}

func (f *fakePackageRepo) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list(func(p *entity.Package) bool { return p.SellerID == sellerID }), nil
}

func (f *fakePackageRepo) FindPending(ctx context.Context) ([]*entity.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.list(func(p *entity.Package) bool { return !p.IsApproved }), nil
}

func (f *fakePackageRepo) FindAll(ctx context.Context) ([]*entity.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list(func(*entity.Package) bool { return true }), nil
}

func (f *fakePackageRepo) CountByApproval(ctx context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	var total, pending int64
	for _, p := range f.rows {
		total++
		if !p.IsApproved {
			pending++
		}
	}
	return total, pending, nil
}

func (f *fakePackageRepo) Update(ctx context.Context, p *entity.Package) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[p.ID]; !ok {
		return repository.ErrNotUpdated
	}
	cp := *p
	cp.IsApproved = false
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePackageRepo) Approve(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	p, ok := f.rows[id]
	if !ok || p.IsApproved {
		return repository.ErrNotUpdated
	}
	p.IsApproved = true
	return nil
}

func (f *fakePackageRepo) DeletePending(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	p, ok := f.rows[id]
	if !ok || p.IsApproved {
		return repository.ErrNotUpdated
	}
	delete(f.rows, id)
	return nil
}

func (f *fakePackageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotUpdated
	}
	delete(f.rows, id)
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Booking
	packages *fakePackageRepo
	err      error
	// beforeTransition runs inside TransitionFromPending to simulate a
	// concurrent writer.
	beforeTransition func(b *entity.Booking)
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) details(keep func(b *entity.Booking, p *entity.Package) bool) []*entity.BookingDetail {
	f.packages.mu.Lock()
	defer f.packages.mu.Unlock()

	var out []*entity.BookingDetail
	for _, b := range f.rows {
		p := f.packages.rows[b.PackageID]
		if !keep(b, p) {
			continue
		}
		d := &entity.BookingDetail{Booking: *b}
		if p != nil {
			d.Package = &entity.PackageSummary{ID: p.ID, SellerID: p.SellerID, Title: p.Title, Price: p.Price, Discount: p.Discount}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeBookingRepo) FindDetailByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.details(func(b *entity.Booking, _ *entity.Package) bool { return b.UserID == userID }), nil
}

func (f *fakeBookingRepo) FindDetailBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.details(func(_ *entity.Booking, p *entity.Package) bool { return p != nil && p.SellerID == sellerID }), nil
}

func (f *fakeBookingRepo) FindDetailAll(ctx context.Context) ([]*entity.BookingDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.details(func(*entity.Booking, *entity.Package) bool { return true }), nil
}

func (f *fakeBookingRepo) FindBySellerID(ctx context.Context, sellerID uuid.UUID) ([]*entity.Booking, error) {
	details, err := f.FindDetailBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Booking, len(details))
	for i, d := range details {
		b := d.Booking
		out[i] = &b
	}
	return out, nil
}

func (f *fakeBookingRepo) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	details, err := f.FindDetailAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Booking, len(details))
	for i, d := range details {
		b := d.Booking
		out[i] = &b
	}
	return out, nil
}

func (f *fakeBookingRepo) TransitionFromPending(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b, ok := f.rows[id]
	if ok && f.beforeTransition != nil {
		f.beforeTransition(b)
	}
	if !ok || b.Status != entity.BookingStatusPending {
		return repository.ErrNotUpdated
	}
	b.Status = status
	return nil
}

type fakeReviewRepo struct {
	mu   sync.Mutex
	rows []*entity.Review
	err  error
}

func (f *fakeReviewRepo) Create(ctx context.Context, r *entity.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, row := range f.rows {
		if row.UserID == r.UserID && row.PackageID == r.PackageID {
			return repository.ErrDuplicate
		}
	}
	cp := *r
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeReviewRepo) FindByPackageID(ctx context.Context, packageID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.ReviewWithAuthor
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].PackageID == packageID {
			out = append(out, &entity.ReviewWithAuthor{Review: *f.rows[i]})
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(offset+limit, len(out))], nil
}

func (f *fakeReviewRepo) FindByUserAndPackage(ctx context.Context, userID, packageID uuid.UUID) (*entity.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, row := range f.rows {
		if row.UserID == userID && row.PackageID == packageID {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) GetPackageReviewStats(ctx context.Context, packageID uuid.UUID) (float64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	var sum, n int64
	for _, row := range f.rows {
		if row.PackageID == packageID {
			sum += int64(row.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// --- Publisher ---

type published struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{key: key, payload: payload})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.key
	}
	return out
}

// --- Fixture ---

type fixture struct {
	accounts *fakeAccountRepo
	profiles *fakeProfileRepo
	sessions *fakeSessionRepo
	packages *fakePackageRepo
	bookings *fakeBookingRepo
	reviews  *fakeReviewRepo
	events   *fakePublisher
	repo     *repository.Repository
}

func newFixture() *fixture {
	f := &fixture{
		accounts: &fakeAccountRepo{rows: map[uuid.UUID]*entity.Account{}},
		profiles: &fakeProfileRepo{rows: map[uuid.UUID]*entity.Profile{}},
		sessions: &fakeSessionRepo{rows: map[uuid.UUID]*entity.Session{}},
		packages: &fakePackageRepo{rows: map[uuid.UUID]*entity.Package{}},
		reviews:  &fakeReviewRepo{},
		events:   &fakePublisher{},
	}
	f.bookings = &fakeBookingRepo{rows: map[uuid.UUID]*entity.Booking{}, packages: f.packages}
	f.repo = &repository.Repository{
		Account: f.accounts,
		Profile: f.profiles,
		Session: f.sessions,
		Package: f.packages,
		Booking: f.bookings,
		Review:  f.reviews,
	}
	return f
}

func newActor(role authz.Role) authz.Actor {
	return authz.Actor{ID: uuid.New(), Role: role}
}

func (f *fixture) addPackage(seller uuid.UUID, approved bool, mutate ...func(*entity.Package)) *entity.Package {
	p := &entity.Package{
		Base:        entity.Base{ID: uuid.New()},
		SellerID:    seller,
		Title:       "Bali Escape",
		Description: "Five days on the island",
		Destination: "Bali, Indonesia",
		Category:    "beach",
		Price:       1000,
		Discount:    15,
		Duration:    5,
		IsApproved:  approved,
	}
	for _, m := range mutate {
		m(p)
	}
	f.packages.rows[p.ID] = p
	return p
}

func (f *fixture) addBooking(pkg *entity.Package, user uuid.UUID, status entity.BookingStatus) *entity.Booking {
	b := &entity.Booking{
		Base:       entity.Base{ID: uuid.New()},
		PackageID:  pkg.ID,
		UserID:     user,
		Travelers:  2,
		TotalPrice: pkg.FinalPrice() * 2,
		Status:     status,
	}
	f.bookings.rows[b.ID] = b
	return b
}
