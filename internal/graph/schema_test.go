package graph

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/graphql-go/graphql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/repos"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

func newTestSchema(t *testing.T) (graphql.Schema, *gorm.DB) {
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

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	resolvers := NewResolvers(
		log,
		repos.NewNodeRepo(gdb, log),
		repos.NewPlatformRepo(gdb, log),
		repos.NewProtocolRepo(gdb, log),
		repos.NewServiceRepo(gdb, log),
		repos.NewStatRepo(gdb, log),
	)
	schema, err := NewSchema(resolvers)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return schema, gdb
}

func execute(t *testing.T, schema graphql.Schema, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

func i64(v int64) *int64 {
	return &v
}

func TestSchemaValidatesAtStartup(t *testing.T) {
	schema, _ := newTestSchema(t)
	if schema.QueryType() == nil {
		t.Fatalf("expected a query type")
	}
}

func TestNodesQueryOrderingAndCountryFields(t *testing.T) {
	schema, gdb := newTestSchema(t)
	today := types.Today()

	platform := &types.Platform{Name: "mastodon"}
	if err := gdb.Create(platform).Error; err != nil {
		t.Fatalf("seed platform: %v", err)
	}
	big := &types.Node{Host: "big.example.com", Active: true, Country: "FI", PlatformID: &platform.ID}
	small := &types.Node{Host: "small.example.com", Active: true, PlatformID: &platform.ID}
	if err := gdb.Create(big).Error; err != nil {
		t.Fatalf("seed node: %v", err)
	}
	if err := gdb.Create(small).Error; err != nil {
		t.Fatalf("seed node: %v", err)
	}
	if err := gdb.Create(&types.Stat{Date: today, UsersMonthly: i64(50), NodeID: &big.ID}).Error; err != nil {
		t.Fatalf("seed stat: %v", err)
	}
	if err := gdb.Create(&types.Stat{Date: today, UsersMonthly: i64(5), NodeID: &small.ID}).Error; err != nil {
		t.Fatalf("seed stat: %v", err)
	}

	result := execute(t, schema, `{
		nodes {
			host
			users
			countryCode
			countryFlag
			countryName
			platform { name }
		}
	}`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	data := result.Data.(map[string]interface{})
	nodes := data["nodes"].([]interface{})
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}

	first := nodes[0].(map[string]interface{})
	if first["host"] != "big.example.com" {
		t.Fatalf("expected highest-users node first, got %v", first["host"])
	}
	if first["users"] != 50 {
		t.Fatalf("expected users 50, got %v", first["users"])
	}
	if first["countryCode"] != "FI" || first["countryName"] != "Finland" {
		t.Fatalf("unexpected country fields: %v / %v", first["countryCode"], first["countryName"])
	}
	if first["countryFlag"] == nil || first["countryFlag"] == "" {
		t.Fatalf("expected a country flag, got %v", first["countryFlag"])
	}
	if first["platform"].(map[string]interface{})["name"] != "mastodon" {
		t.Fatalf("expected eager-loaded platform")
	}

	second := nodes[1].(map[string]interface{})
	if second["countryCode"] != nil || second["countryName"] != nil || second["countryFlag"] != nil {
		t.Fatalf("expected null country fields for node without country: %+v", second)
	}
}

func TestInvalidItemTypeSurfacesAsFieldError(t *testing.T) {
	schema, gdb := newTestSchema(t)

	node := &types.Node{Host: "n1.example.com", Active: true}
	if err := gdb.Create(node).Error; err != nil {
		t.Fatalf("seed node: %v", err)
	}
	if err := gdb.Create(&types.Stat{Date: "2024-01-01", UsersTotal: i64(10), NodeID: &node.ID}).Error; err != nil {
		t.Fatalf("seed stat: %v", err)
	}

	result := execute(t, schema, `{
		bad: statsUsersTotal(itemType: "galaxy", value: "andromeda") { date count }
		good: statsUsersTotal { date count }
	}`)
	if !result.HasErrors() {
		t.Fatalf("expected a field error for the invalid itemType")
	}

	data := result.Data.(map[string]interface{})
	if data["bad"] != nil {
		t.Fatalf("expected null data for the failing field, got %v", data["bad"])
	}
	good, ok := data["good"].([]interface{})
	if !ok || len(good) != 1 {
		t.Fatalf("expected sibling field to resolve, got %v", data["good"])
	}
	row := good[0].(map[string]interface{})
	if row["date"] != "2024-01-01" || row["count"] != 10 {
		t.Fatalf("unexpected sibling row: %+v", row)
	}
}

func TestStatsNodesScopePrecedence(t *testing.T) {
	schema, gdb := newTestSchema(t)
	today := types.Today()

	mastodon := &types.Platform{Name: "mastodon"}
	diaspora := &types.Platform{Name: "diaspora"}
	for _, platform := range []*types.Platform{mastodon, diaspora} {
		if err := gdb.Create(platform).Error; err != nil {
			t.Fatalf("seed platform: %v", err)
		}
	}
	activitypub := &types.Protocol{Name: "activitypub"}
	if err := gdb.Create(activitypub).Error; err != nil {
		t.Fatalf("seed protocol: %v", err)
	}

	mNode := &types.Node{Host: "m.example.com", Active: true, PlatformID: &mastodon.ID, Protocols: []*types.Protocol{activitypub}}
	dNode := &types.Node{Host: "d.example.com", Active: true, PlatformID: &diaspora.ID}
	for _, node := range []*types.Node{mNode, dNode} {
		if err := gdb.Create(node).Error; err != nil {
			t.Fatalf("seed node: %v", err)
		}
		if err := gdb.Create(&types.Stat{Date: today, UsersTotal: i64(10), NodeID: &node.ID}).Error; err != nil {
			t.Fatalf("seed stat: %v", err)
		}
	}

	// An explicit itemType/value pair beats a conflicting platform shorthand.
	hosts := statsNodesHosts(t, schema, `{ statsNodes(itemType: "platform", value: "mastodon", platform: "diaspora") { node { host } } }`)
	if len(hosts) != 1 || hosts[0] != "m.example.com" {
		t.Fatalf("expected explicit itemType to win, got %v", hosts)
	}

	hosts = statsNodesHosts(t, schema, `{ statsNodes(platform: "diaspora") { node { host } } }`)
	if len(hosts) != 1 || hosts[0] != "d.example.com" {
		t.Fatalf("unexpected platform shorthand result: %v", hosts)
	}

	hosts = statsNodesHosts(t, schema, `{ statsNodes(protocol: "activitypub") { node { host } } }`)
	if len(hosts) != 1 || hosts[0] != "m.example.com" {
		t.Fatalf("unexpected protocol shorthand result: %v", hosts)
	}

	// Platform shorthand is considered before protocol.
	hosts = statsNodesHosts(t, schema, `{ statsNodes(platform: "diaspora", protocol: "activitypub") { node { host } } }`)
	if len(hosts) != 1 || hosts[0] != "d.example.com" {
		t.Fatalf("expected platform shorthand to win over protocol, got %v", hosts)
	}
}

func statsNodesHosts(t *testing.T, schema graphql.Schema, query string) []string {
	t.Helper()
	result := execute(t, schema, query)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	rows := result.Data.(map[string]interface{})["statsNodes"].([]interface{})
	hosts := make([]string, 0, len(rows))
	for _, raw := range rows {
		node := raw.(map[string]interface{})["node"].(map[string]interface{})
		hosts = append(hosts, node["host"].(string))
	}
	return hosts
}

func TestStatsPlatformTodayWithoutNameIsNullNotError(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema, `{
		statsPlatformToday { date }
		statsProtocolToday { date }
	}`)
	if result.HasErrors() {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	data := result.Data.(map[string]interface{})
	if data["statsPlatformToday"] != nil || data["statsProtocolToday"] != nil {
		t.Fatalf("expected null rollups without a name argument: %+v", data)
	}
}

func TestStatsUsersTotalAscendingDates(t *testing.T) {
	schema, gdb := newTestSchema(t)

	node := &types.Node{Host: "n1.example.com", Active: true}
	if err := gdb.Create(node).Error; err != nil {
		t.Fatalf("seed node: %v", err)
	}
	for _, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		if err := gdb.Create(&types.Stat{Date: date, UsersTotal: i64(10), NodeID: &node.ID}).Error; err != nil {
			t.Fatalf("seed stat: %v", err)
		}
	}

	result := execute(t, schema, `{ statsUsersTotal { date count } }`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	rows := result.Data.(map[string]interface{})["statsUsersTotal"].([]interface{})
	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if len(rows) != len(wantDates) {
		t.Fatalf("expected %d rows, got %d", len(wantDates), len(rows))
	}
	for i, raw := range rows {
		row := raw.(map[string]interface{})
		if row["date"] != wantDates[i] {
			t.Fatalf("row %d: expected %s, got %v", i, wantDates[i], row["date"])
		}
		if row["count"] != 10 {
			t.Fatalf("row %d: expected count 10, got %v", i, row["count"])
		}
	}
}

func TestStatsGlobalTodayPicksLatestGlobalRow(t *testing.T) {
	schema, gdb := newTestSchema(t)

	if err := gdb.Create(&types.Stat{Date: "2024-01-01", UsersTotal: i64(100)}).Error; err != nil {
		t.Fatalf("seed stat: %v", err)
	}
	if err := gdb.Create(&types.Stat{Date: "2024-01-02", UsersTotal: i64(110)}).Error; err != nil {
		t.Fatalf("seed stat: %v", err)
	}

	result := execute(t, schema, `{ statsGlobalToday { date usersTotal } }`)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	row := result.Data.(map[string]interface{})["statsGlobalToday"].(map[string]interface{})
	if row["date"] != "2024-01-02" || row["usersTotal"] != 110 {
		t.Fatalf("unexpected global row: %+v", row)
	}
}
