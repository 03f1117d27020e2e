package model

import "gorm.io/datatypes"

// Part is a catalog entry describing one kind of component. Physical units of
// a part live in the part_records chain, keyed by NXID.
type Part struct {
	BaseModel
	NXID         string `gorm:"column:nxid;type:varchar(10);uniqueIndex;not null" json:"nxid" validate:"required,nxid"`
	Manufacturer string `gorm:"type:varchar(255);not null" json:"manufacturer" validate:"required"`
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Type         string `gorm:"type:varchar(50);not null;index" json:"type" validate:"required"`

	// Type specific attributes
	StorageInterface string `gorm:"type:varchar(50)" json:"storage_interface,omitempty"`
	PortType         string `gorm:"type:varchar(50)" json:"port_type,omitempty"`
	PeripheralType   string `gorm:"type:varchar(50)" json:"peripheral_type,omitempty"`
	MemoryType       string `gorm:"type:varchar(50)" json:"memory_type,omitempty"`
	CableEnd1        string `gorm:"column:cable_end1;type:varchar(50)" json:"cable_end1,omitempty"`
	CableEnd2        string `gorm:"column:cable_end2;type:varchar(50)" json:"cable_end2,omitempty"`
	Chipset          string `gorm:"type:varchar(100)" json:"chipset,omitempty"`
	Frequency        string `gorm:"type:varchar(50)" json:"frequency,omitempty"`
	Capacity         string `gorm:"type:varchar(50)" json:"capacity,omitempty"`
	Size             string `gorm:"type:varchar(50)" json:"size,omitempty"`

	// Anything without a dedicated column
	Attributes datatypes.JSONMap `gorm:"type:jsonb" json:"attributes,omitempty"`
}

// PartView is a catalog entry plus its availability, computed from the chain.
type PartView struct {
	Part
	Quantity      int64 `json:"quantity"`
	TotalQuantity int64 `json:"total_quantity"`
}

// SearchableColumns are matched by free text search. Order is irrelevant,
// matches are OR'ed.
var SearchableColumns = []string{
	"nxid",
	"name",
	"manufacturer",
	"type",
	"storage_interface",
	"port_type",
	"peripheral_type",
	"memory_type",
	"cable_end1",
	"cable_end2",
	"chipset",
}

// PartDistinctColumns maps query keys accepted by the distinct endpoint to
// part columns.
var PartDistinctColumns = map[string]string{
	"nxid":              "nxid",
	"manufacturer":      "manufacturer",
	"name":              "name",
	"type":              "type",
	"storage_interface": "storage_interface",
	"port_type":         "port_type",
	"peripheral_type":   "peripheral_type",
	"memory_type":       "memory_type",
	"cable_end1":        "cable_end1",
	"cable_end2":        "cable_end2",
	"chipset":           "chipset",
	"frequency":         "frequency",
	"capacity":          "capacity",
	"size":              "size",
}

// PartFilter selects catalog entries by exact match. Empty fields are ignored.
type PartFilter struct {
	NXID         string `query:"nxid"`
	Manufacturer string `query:"manufacturer"`
	Name         string `query:"name"`
	Type         string `query:"type"`
	MemoryType   string `query:"memory_type"`
	PortType     string `query:"port_type"`
	Chipset      string `query:"chipset"`
}
