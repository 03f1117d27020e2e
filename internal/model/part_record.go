package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Well known locations
const (
	LocationPartsRoom     = "Parts Room"
	LocationTechInventory = "Tech Inventory"
	LocationAsset         = "Asset"
	LocationAllTechs      = "All Techs"
)

// OwnerAll is the shared pool of every tech. It is never resolved to a user.
const OwnerAll = "all"

// PartRecord is one state of one physical unit. A unit's history is the chain
// reached by following PrevID; the node whose NextID is nil is its current
// state. Nodes are never rewritten apart from NextID being stamped once.
type PartRecord struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	NXID     string     `gorm:"column:nxid;type:varchar(10);not null;index:idx_part_records_current,priority:1,where:next_id IS NULL" json:"nxid"`
	Location string     `gorm:"type:varchar(50);not null;index:idx_part_records_current,priority:2" json:"location"`
	Building int        `gorm:"not null;index:idx_part_records_current,priority:3" json:"building"`
	Owner    string     `gorm:"type:varchar(64);index:idx_part_records_current,priority:4" json:"owner,omitempty"`
	AssetTag string     `gorm:"type:varchar(64)" json:"asset_tag,omitempty"`
	PrevID   *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"prev"`
	NextID   *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"next"`
	By       string     `gorm:"type:varchar(64)" json:"by"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *PartRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsCurrent reports whether the node has not been superseded.
func (r *PartRecord) IsCurrent() bool {
	return r.NextID == nil
}

// IsRoot reports whether the node is the first state of its unit.
func (r *PartRecord) IsRoot() bool {
	return r.PrevID == nil
}

// RecordFilter matches chain nodes. Zero valued fields are not filtered on.
// Current only matters to queries that span history; the rest always look at
// current nodes.
type RecordFilter struct {
	NXID     string `json:"nxid" query:"nxid"`
	Location string `json:"location" query:"location"`
	Building int    `json:"building" query:"building"`
	Owner    string `json:"owner" query:"owner"`
	AssetTag string `json:"asset_tag" query:"asset_tag"`
	Current  bool   `json:"current,omitempty" query:"current"`
}

// RecordState is the destination of a transition.
type RecordState struct {
	NXID     string `json:"nxid"`
	Location string `json:"location" validate:"required"`
	Building int    `json:"building"`
	Owner    string `json:"owner,omitempty"`
	AssetTag string `json:"asset_tag,omitempty"`
}

// Successor builds the node that supersedes r with the given state.
func (r *PartRecord) Successor(state RecordState, by string) *PartRecord {
	prev := r.ID
	return &PartRecord{
		NXID:     r.NXID,
		Location: state.Location,
		Building: state.Building,
		Owner:    state.Owner,
		AssetTag: state.AssetTag,
		PrevID:   &prev,
		By:       by,
	}
}

// RecordDistinctColumns maps query keys accepted by the distinct endpoint to
// part_records columns.
var RecordDistinctColumns = map[string]string{
	"nxid":      "nxid",
	"location":  "location",
	"building":  "building",
	"owner":     "owner",
	"asset_tag": "asset_tag",
	"by":        "by",
}

// PartQuantity is a count of current nodes for one part.
type PartQuantity struct {
	NXID     string `json:"nxid"`
	Quantity int64  `json:"quantity"`
}

// LocationQuantity is a count of current nodes at one location.
type LocationQuantity struct {
	Location string `json:"location"`
	Quantity int64  `json:"quantity"`
}

// InventoryItem is one line of a user's inventory.
type InventoryItem struct {
	Part     *Part `json:"part"`
	Quantity int64 `json:"quantity"`
}
