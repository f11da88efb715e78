package types

import "time"

// Platform is a federation software family (one platform, many nodes).
// Names are stored lower-case.
type Platform struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	DisplayName string    `gorm:"column:display_name" json:"displayName"`
	Tagline     string    `gorm:"column:tagline" json:"tagline"`
	Description string    `gorm:"column:description" json:"description"`
	Website     string    `gorm:"column:website" json:"website"`
	Icon        string    `gorm:"column:icon" json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// ActiveNodes carries the correlated active-node count when annotated
	// by the platform query; it is never written to the table.
	ActiveNodes *int64 `gorm:"->;-:migration" json:"activeNodes"`
}

func (Platform) TableName() string {
	return "platforms"
}
