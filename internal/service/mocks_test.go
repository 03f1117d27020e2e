package service

import (
	"context"
	"sync"

	"go-parts-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) Create(ctx context.Context, tx *gorm.DB, part *model.Part) error {
	args := m.Called(ctx, tx, part)
	return args.Error(0)
}

func (m *MockPartRepository) FindAll(ctx context.Context, filter model.PartFilter) ([]model.Part, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Part), args.Error(1)
}

func (m *MockPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Part), args.Error(1)
}

func (m *MockPartRepository) FindByNXID(ctx context.Context, nxid string) (*model.Part, error) {
	args := m.Called(ctx, nxid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Part), args.Error(1)
}

func (m *MockPartRepository) FindByNXIDs(ctx context.Context, nxids []string) ([]model.Part, error) {
	args := m.Called(ctx, nxids)
	return args.Get(0).([]model.Part), args.Error(1)
}

func (m *MockPartRepository) Search(ctx context.Context, keywords []string, limit, offset int) ([]model.Part, error) {
	args := m.Called(ctx, keywords, limit, offset)
	return args.Get(0).([]model.Part), args.Error(1)
}

func (m *MockPartRepository) Update(ctx context.Context, tx *gorm.DB, part *model.Part) error {
	args := m.Called(ctx, tx, part)
	return args.Error(0)
}

func (m *MockPartRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockPartRepository) Distinct(ctx context.Context, key string) ([]interface{}, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interface{}), args.Error(1)
}

func (m *MockPartRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPartRecordRepository struct {
	mock.Mock
}

func (m *MockPartRecordRepository) CreateRoots(ctx context.Context, tx *gorm.DB, records []*model.PartRecord) error {
	args := m.Called(ctx, tx, records)
	return args.Error(0)
}

func (m *MockPartRecordRepository) Append(ctx context.Context, tx *gorm.DB, prev *model.PartRecord, next *model.PartRecord) error {
	args := m.Called(ctx, tx, prev, next)
	return args.Error(0)
}

func (m *MockPartRecordRepository) LockCurrent(ctx context.Context, tx *gorm.DB, filter model.RecordFilter, limit int) ([]model.PartRecord, error) {
	args := m.Called(ctx, tx, filter, limit)
	return args.Get(0).([]model.PartRecord), args.Error(1)
}

func (m *MockPartRecordRepository) CountCurrent(ctx context.Context, filter model.RecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartRecordRepository) FindCurrent(ctx context.Context, filter model.RecordFilter) ([]model.PartRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.PartRecord), args.Error(1)
}

func (m *MockPartRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PartRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PartRecord), args.Error(1)
}

func (m *MockPartRecordRepository) Distinct(ctx context.Context, key string, filter model.RecordFilter) ([]interface{}, error) {
	args := m.Called(ctx, key, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interface{}), args.Error(1)
}

func (m *MockPartRecordRepository) CountByNXID(ctx context.Context, filter model.RecordFilter) ([]model.PartQuantity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.PartQuantity), args.Error(1)
}

func (m *MockPartRecordRepository) CountByLocation(ctx context.Context) ([]model.LocationQuantity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.LocationQuantity), args.Error(1)
}

func (m *MockPartRecordRepository) RenameNXID(ctx context.Context, tx *gorm.DB, from, to string) error {
	args := m.Called(ctx, tx, from, to)
	return args.Error(0)
}

func (m *MockPartRecordRepository) DeleteByNXID(ctx context.Context, tx *gorm.DB, nxid string) (int64, error) {
	args := m.Called(ctx, tx, nxid)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartRecordRepository) FindUnlinked(ctx context.Context) ([]model.PartRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PartRecord), args.Error(1)
}

func (m *MockPartRecordRepository) StampNext(ctx context.Context, tx *gorm.DB, prevID, nextID uuid.UUID) error {
	args := m.Called(ctx, tx, prevID, nextID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	args := m.Called(ctx, userID, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastSeen(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *model.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) FindByTag(ctx context.Context, tag string) (*model.Asset, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAll(ctx context.Context) ([]model.Asset, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Asset), args.Error(1)
}

// fakeTransactor runs fn without a database. Writes made by fn are not rolled
// back, so tests assert on the calls instead.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

type publishedEvent struct {
	Type    string
	Payload map[string]interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}
