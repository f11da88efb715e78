package types

import (
	"time"

	"gorm.io/datatypes"
)

// Node is a single federated server instance tracked by the crawler. The
// active flag and last_success timestamp are maintained by the external
// ingestion process; this service only reads them.
type Node struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Host        string         `gorm:"uniqueIndex;not null;column:host" json:"host"`
	Name        string         `gorm:"column:name" json:"name"`
	Version     string         `gorm:"column:version" json:"version"`
	OpenSignups bool           `gorm:"column:open_signups" json:"openSignups"`
	Active      bool           `gorm:"index;column:active" json:"active"`
	LastSuccess *time.Time     `gorm:"column:last_success" json:"lastSuccess"`
	Country     string         `gorm:"size:2;column:country" json:"country"`
	RawNodeinfo datatypes.JSON `gorm:"column:raw_nodeinfo" json:"rawNodeinfo"`
	PlatformID  *uint          `gorm:"index;column:platform_id" json:"-"`
	Platform    *Platform      `json:"platform"`
	Protocols   []*Protocol    `gorm:"many2many:node_protocols" json:"protocols"`
	Services    []*Service     `gorm:"many2many:node_services" json:"services"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	// Users carries today's monthly-active-user count when annotated by
	// the node query; it is never written to the table.
	Users *int64 `gorm:"->;-:migration" json:"users"`
}

func (Node) TableName() string {
	return "nodes"
}
