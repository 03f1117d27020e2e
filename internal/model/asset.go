package model

// Asset is a deployed machine that parts can be installed into.
type Asset struct {
	BaseModel
	AssetTag     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"asset_tag" validate:"required"`
	Building     int    `gorm:"not null" json:"building"`
	AssetType    string `gorm:"type:varchar(50)" json:"asset_type"`
	Manufacturer string `gorm:"type:varchar(255)" json:"manufacturer"`
	Model        string `gorm:"type:varchar(255)" json:"model"`
}
