package types

import "time"

// Service is an auxiliary service a node exposes (relay, media proxy, ...),
// many-to-many with nodes.
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	DisplayName string    `gorm:"column:display_name" json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Service) TableName() string {
	return "services"
}
