package types

import "time"

// Protocol is a federation communication protocol, many-to-many with nodes.
type Protocol struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	DisplayName string    `gorm:"column:display_name" json:"displayName"`
	Description string    `gorm:"column:description" json:"description"`
	Website     string    `gorm:"column:website" json:"website"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// ActiveNodes carries the correlated active-node count when annotated
	// by the protocol query; it is never written to the table.
	ActiveNodes *int64 `gorm:"->;-:migration" json:"activeNodes"`
}

func (Protocol) TableName() string {
	return "protocols"
}
