package repos

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "stats.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.Platform{},
		&types.Protocol{},
		&types.Service{},
		&types.Node{},
		&types.Stat{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func i64(v int64) *int64 {
	return &v
}

func seedPlatform(t *testing.T, gdb *gorm.DB, name string) *types.Platform {
	t.Helper()
	platform := &types.Platform{Name: name}
	if err := gdb.Create(platform).Error; err != nil {
		t.Fatalf("seed platform %s: %v", name, err)
	}
	return platform
}

func seedProtocol(t *testing.T, gdb *gorm.DB, name string) *types.Protocol {
	t.Helper()
	protocol := &types.Protocol{Name: name}
	if err := gdb.Create(protocol).Error; err != nil {
		t.Fatalf("seed protocol %s: %v", name, err)
	}
	return protocol
}

func seedNode(t *testing.T, gdb *gorm.DB, host string, active bool, platform *types.Platform, protocols ...*types.Protocol) *types.Node {
	t.Helper()
	node := &types.Node{Host: host, Active: active, Protocols: protocols}
	if platform != nil {
		node.PlatformID = &platform.ID
	}
	if err := gdb.Create(node).Error; err != nil {
		t.Fatalf("seed node %s: %v", host, err)
	}
	return node
}

func seedNodeStat(t *testing.T, gdb *gorm.DB, node *types.Node, stat types.Stat) *types.Stat {
	t.Helper()
	stat.NodeID = &node.ID
	if err := gdb.Create(&stat).Error; err != nil {
		t.Fatalf("seed stat for %s on %s: %v", node.Host, stat.Date, err)
	}
	return &stat
}

func seedStat(t *testing.T, gdb *gorm.DB, stat types.Stat) *types.Stat {
	t.Helper()
	if err := gdb.Create(&stat).Error; err != nil {
		t.Fatalf("seed stat on %s: %v", stat.Date, err)
	}
	return &stat
}
