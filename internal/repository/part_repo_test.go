package repository

import (
	"context"
	"testing"

	"go-parts-inventory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedParts(t *testing.T, repo PartRepository, parts ...model.Part) {
	t.Helper()
	for i := range parts {
		require.NoError(t, repo.Create(context.Background(), nil, &parts[i]))
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeLike(tt.in))
	}
}

func TestPartSearch(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRepo(db)
	ctx := context.Background()
	seedParts(t, repo,
		model.Part{NXID: "PNX0000001", Manufacturer: "Samsung", Name: "870 EVO", Type: "Storage", StorageInterface: "SATA"},
		model.Part{NXID: "PNX0000002", Manufacturer: "Kingston", Name: "Fury 16GB", Type: "Memory", MemoryType: "DDR4"},
		model.Part{NXID: "PNX0000003", Manufacturer: "Acme", Name: "100% cable", Type: "Cable", CableEnd1: "USB-C"},
	)

	t.Run("any keyword in any column", func(t *testing.T) {
		parts, err := repo.Search(ctx, []string{"sata", "ddr4"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, parts, 2)
		assert.Equal(t, "PNX0000001", parts[0].NXID)
		assert.Equal(t, "PNX0000002", parts[1].NXID)
	})

	t.Run("metacharacters match literally", func(t *testing.T) {
		parts, err := repo.Search(ctx, []string{"%"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.Equal(t, "PNX0000003", parts[0].NXID)
	})

	t.Run("paging", func(t *testing.T) {
		parts, err := repo.Search(ctx, nil, 2, 1)
		require.NoError(t, err)
		require.Len(t, parts, 2)
		assert.Equal(t, "PNX0000002", parts[0].NXID)
	})
}

func TestPartDuplicateNXID(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRepo(db)
	seedParts(t, repo, model.Part{NXID: "PNX0000001", Manufacturer: "A", Name: "A", Type: "T"})

	err := repo.Create(context.Background(), nil, &model.Part{NXID: "PNX0000001", Manufacturer: "B", Name: "B", Type: "T"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPartFindAllAndDistinct(t *testing.T) {
	db := requireDB(t)
	repo := NewPartRepo(db)
	ctx := context.Background()
	seedParts(t, repo,
		model.Part{NXID: "PNX0000001", Manufacturer: "Samsung", Name: "SSD", Type: "Storage"},
		model.Part{NXID: "PNX0000002", Manufacturer: "Samsung", Name: "RAM", Type: "Memory"},
		model.Part{NXID: "PNX0000003", Manufacturer: "Intel", Name: "NIC", Type: "Network", Chipset: "X710"},
	)

	parts, err := repo.FindAll(ctx, model.PartFilter{Manufacturer: "Samsung"})
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	values, err := repo.Distinct(ctx, "manufacturer")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Intel", "Samsung"}, values)

	chipsets, err := repo.Distinct(ctx, "chipset")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"X710"}, chipsets)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
