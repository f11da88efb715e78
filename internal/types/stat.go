package types

import "time"

// DateFormat is the canonical layout of the stats date column.
const DateFormat = "2006-01-02"

// Stat is one daily metrics snapshot. Exactly zero or one of the node,
// platform and protocol references is set: a node row is a per-node daily
// snapshot, a platform/protocol row a rollup for that scope, and a row with
// none set is a global rollup. The database enforces the exclusion with a
// CHECK constraint (see db.PostgresService).
type Stat struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          string    `gorm:"type:date;index;not null;column:date" json:"date"`
	UsersTotal    *int64    `gorm:"column:users_total" json:"usersTotal"`
	UsersHalfYear *int64    `gorm:"column:users_half_year" json:"usersHalfYear"`
	UsersMonthly  *int64    `gorm:"column:users_monthly" json:"usersMonthly"`
	UsersWeekly   *int64    `gorm:"column:users_weekly" json:"usersWeekly"`
	LocalPosts    *int64    `gorm:"column:local_posts" json:"localPosts"`
	LocalComments *int64    `gorm:"column:local_comments" json:"localComments"`
	NodeID        *uint     `gorm:"index;column:node_id" json:"-"`
	Node          *Node     `json:"node"`
	PlatformID    *uint     `gorm:"index;column:platform_id" json:"-"`
	Platform      *Platform `json:"platform"`
	ProtocolID    *uint     `gorm:"index;column:protocol_id" json:"-"`
	Protocol      *Protocol `json:"protocol"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Stat) TableName() string {
	return "stats"
}

// Today returns the current UTC date in the stats column layout.
func Today() string {
	return time.Now().UTC().Format(DateFormat)
}

// DateCount is one row of a per-day integer aggregate.
type DateCount struct {
	Date  string `json:"date"`
	Count *int64 `json:"count"`
}

// DateFloatCount is one row of a per-day fractional aggregate.
type DateFloatCount struct {
	Date  string   `json:"date"`
	Count *float64 `json:"count"`
}
