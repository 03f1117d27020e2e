package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-parts-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedRoots(t *testing.T, repo PartRecordRepository, nxid, location string, building int, owner string, n int) []*model.PartRecord {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	records := make([]*model.PartRecord, n)
	for i := range records {
		records[i] = &model.PartRecord{
			NXID:      nxid,
			Location:  location,
			Building:  building,
			Owner:     owner,
			By:        "seed",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, repo.CreateRoots(context.Background(), nil, records))
	return records
}

func TestAppendLinksBothWays(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	root := seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 1)[0]

	next := root.Successor(model.RecordState{Location: model.LocationTechInventory, Building: 1, Owner: "u1"}, "tester")
	err := NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		return repo.Append(ctx, tx, root, next)
	})
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, root.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.NextID)
	assert.Equal(t, next.ID, *stored.NextID)

	head, err := repo.FindByID(ctx, next.ID)
	require.NoError(t, err)
	assert.True(t, head.IsCurrent())
	assert.Equal(t, root.ID, *head.PrevID)
}

func TestAppendToSupersededNodeConflicts(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	root := seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 1)[0]
	stale := *root

	first := root.Successor(model.RecordState{Location: model.LocationTechInventory, Owner: "u1"}, "a")
	require.NoError(t, repo.Append(ctx, nil, root, first))

	second := stale.Successor(model.RecordState{Location: model.LocationTechInventory, Owner: "u2"}, "b")
	err := NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		return repo.Append(ctx, tx, &stale, second)
	})
	assert.ErrorIs(t, err, ErrChainConflict)

	count, err := repo.CountCurrent(ctx, model.RecordFilter{NXID: "PNX0000001"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFailedTransactionLeavesNothing(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	roots := seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 2)

	boom := errors.New("second line short")
	err := NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		next := roots[0].Successor(model.RecordState{Location: model.LocationTechInventory, Owner: "u1"}, "a")
		if err := repo.Append(ctx, tx, roots[0], next); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	current, err := repo.FindCurrent(ctx, model.RecordFilter{NXID: "PNX0000001"})
	require.NoError(t, err)
	assert.Len(t, current, 2)
	for _, rec := range current {
		assert.Equal(t, model.LocationPartsRoom, rec.Location)
	}
}

func TestLockCurrentOldestFirst(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	roots := seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 3)
	seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 2, "", 2)

	var locked []model.PartRecord
	err := NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		locked, err = repo.LockCurrent(ctx, tx, model.RecordFilter{
			NXID: "PNX0000001", Location: model.LocationPartsRoom, Building: 1,
		}, 2)
		return err
	})

	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, roots[0].ID, locked[0].ID)
	assert.Equal(t, roots[1].ID, locked[1].ID)
}

func TestConcurrentLocksDoNotOverlap(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 3)
	filter := model.RecordFilter{NXID: "PNX0000001", Location: model.LocationPartsRoom, Building: 1}
	transactor := NewTransactor(db)

	firstLocked := make(chan struct{})
	secondDone := make(chan struct{})
	var first, second []model.PartRecord
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_ = transactor.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			first, err = repo.LockCurrent(ctx, tx, filter, 2)
			close(firstLocked)
			<-secondDone
			return err
		})
	}()
	go func() {
		defer wg.Done()
		<-firstLocked
		_ = transactor.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			second, err = repo.LockCurrent(ctx, tx, filter, 2)
			return err
		})
		close(secondDone)
	}()
	wg.Wait()

	require.Len(t, first, 2)
	require.Len(t, second, 1)
	for _, a := range first {
		assert.NotEqual(t, a.ID, second[0].ID)
	}
}

func TestCountsAndDistinct(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 3)
	seedRoots(t, repo, "PNX0000002", model.LocationTechInventory, 1, "u1", 2)
	seedRoots(t, repo, "PNX0000001", model.LocationTechInventory, 1, "u1", 1)

	byNXID, err := repo.CountByNXID(ctx, model.RecordFilter{Owner: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []model.PartQuantity{
		{NXID: "PNX0000001", Quantity: 1},
		{NXID: "PNX0000002", Quantity: 2},
	}, byNXID)

	byLocation, err := repo.CountByLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.LocationQuantity{
		{Location: model.LocationPartsRoom, Quantity: 3},
		{Location: model.LocationTechInventory, Quantity: 3},
	}, byLocation)

	owners, err := repo.Distinct(ctx, "location", model.RecordFilter{NXID: "PNX0000001"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{model.LocationPartsRoom, model.LocationTechInventory}, owners)

	_, err = repo.Distinct(ctx, "id; DROP TABLE parts", model.RecordFilter{})
	assert.ErrorIs(t, err, ErrUnknownColumn)

	// a second read without writes is stable
	again, err := repo.CountCurrent(ctx, model.RecordFilter{NXID: "PNX0000001"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), again)
}

func TestRenameAndDeleteByNXID(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 2)

	require.NoError(t, repo.RenameNXID(ctx, nil, "PNX0000001", "PNX0000009"))
	count, err := repo.CountCurrent(ctx, model.RecordFilter{NXID: "PNX0000009"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	removed, err := repo.DeleteByNXID(ctx, nil, "PNX0000009")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestRepairUnlinked(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	root := seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 1)[0]

	// successor written without stamping root.next_id
	orphan := root.Successor(model.RecordState{Location: model.LocationTechInventory, Owner: "u1"}, "legacy")
	require.NoError(t, db.Create(orphan).Error)

	unlinked, err := repo.FindUnlinked(ctx)
	require.NoError(t, err)
	require.Len(t, unlinked, 1)
	assert.Equal(t, orphan.ID, unlinked[0].ID)

	require.NoError(t, repo.StampNext(ctx, nil, root.ID, orphan.ID))
	assert.ErrorIs(t, repo.StampNext(ctx, nil, root.ID, uuid.New()), ErrChainConflict)

	unlinked, err = repo.FindUnlinked(ctx)
	require.NoError(t, err)
	assert.Empty(t, unlinked)
}

func TestDistinctSpansHistory(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRecordRepo(db)
	ctx := context.Background()
	root := seedRoots(t, repo, "PNX0000001", model.LocationPartsRoom, 1, "", 1)[0]

	next := root.Successor(model.RecordState{Location: model.LocationTechInventory, Building: 1, Owner: "u1"}, "tester")
	require.NoError(t, NewTransactor(db).Transaction(ctx, func(tx *gorm.DB) error {
		return repo.Append(ctx, tx, root, next)
	}))

	by, err := repo.Distinct(ctx, "by", model.RecordFilter{NXID: "PNX0000001"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"seed", "tester"}, by)

	locations, err := repo.Distinct(ctx, "location", model.RecordFilter{NXID: "PNX0000001"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{model.LocationPartsRoom, model.LocationTechInventory}, locations)

	locations, err = repo.Distinct(ctx, "location", model.RecordFilter{NXID: "PNX0000001", Current: true})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{model.LocationTechInventory}, locations)
}
