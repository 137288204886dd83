package model

import "time"

// Device is a lendable asset registered in the directory.
type Device struct {
	AssetID         string `gorm:"primaryKey;size:64" json:"assetId"`
	Manufacturer    string `gorm:"size:128" json:"manufacturer"`
	OperatingSystem string `gorm:"size:128" json:"os"`
	Memory          string `gorm:"size:64" json:"memory"`
	Storage         string `gorm:"size:64" json:"storage"`
	GraphicsCard    string `gorm:"size:128" json:"graphicsCard"`
	Location        string `gorm:"size:128" json:"location"`
	IsBroken        bool   `gorm:"not null;default:false" json:"isBroken"`
	// Lease window for leased hardware. Both are calendar dates.
	LeaseStart *time.Time `json:"leaseStart,omitempty"`
	LeaseEnd   *time.Time `json:"leaseEnd,omitempty"`
	Remarks    string     `gorm:"size:1024" json:"remarks"`
	IsDeleted  bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Rentable reports whether the device may be lent out at all.
func (d *Device) Rentable() bool {
	return d != nil && !d.IsDeleted && !d.IsBroken
}
