package graph

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
	"github.com/fediwatch/fediwatch-backend/internal/repos"
	"github.com/fediwatch/fediwatch-backend/internal/types"
)

// Window covered by the statsCountsNodes trailing count.
const nodeCountWindow = 30 * 24 * time.Hour

// Resolvers holds one typed handler per root query field. The schema
// constructor binds each field to its handler and rejects the whole mapping
// at startup if any binding is invalid.
type Resolvers struct {
	log       *logger.Logger
	nodes     repos.NodeRepo
	platforms repos.PlatformRepo
	protocols repos.ProtocolRepo
	services  repos.ServiceRepo
	stats     repos.StatRepo
}

func NewResolvers(
	baseLog *logger.Logger,
	nodes repos.NodeRepo,
	platforms repos.PlatformRepo,
	protocols repos.ProtocolRepo,
	services repos.ServiceRepo,
	stats repos.StatRepo,
) *Resolvers {
	return &Resolvers{
		log:       baseLog.With("component", "Resolvers"),
		nodes:     nodes,
		platforms: platforms,
		protocols: protocols,
		services:  services,
		stats:     stats,
	}
}

func stringArg(p graphql.ResolveParams, name string) string {
	if val, ok := p.Args[name].(string); ok {
		return val
	}
	return ""
}

// itemScope resolves the generic itemType/value pair shared by the
// aggregate fields.
func itemScope(p graphql.ResolveParams) (string, string) {
	return stringArg(p, "itemType"), stringArg(p, "value")
}

func (r *Resolvers) resolveNodes(p graphql.ResolveParams) (interface{}, error) {
	return r.nodes.Active(
		p.Context,
		stringArg(p, "platform"),
		stringArg(p, "protocol"),
		stringArg(p, "host"),
	)
}

func (r *Resolvers) resolvePlatforms(p graphql.ResolveParams) (interface{}, error) {
	return r.platforms.WithActiveNodes(p.Context, stringArg(p, "name"))
}

func (r *Resolvers) resolveProtocols(p graphql.ResolveParams) (interface{}, error) {
	return r.protocols.WithActiveNodes(p.Context, stringArg(p, "name"))
}

func (r *Resolvers) resolveServices(p graphql.ResolveParams) (interface{}, error) {
	return r.services.List(p.Context, stringArg(p, "name"))
}

func (r *Resolvers) resolveStats(p graphql.ResolveParams) (interface{}, error) {
	return r.stats.All(p.Context)
}

func (r *Resolvers) resolveStatsCountsNodes(p graphql.ResolveParams) (interface{}, error) {
	fromDate := time.Now().UTC().Add(-nodeCountWindow).Format(types.DateFormat)
	itemType, value := itemScope(p)
	return r.stats.NodeCounts(p.Context, fromDate, itemType, value)
}

func (r *Resolvers) resolveStatsGlobalToday(p graphql.ResolveParams) (interface{}, error) {
	stat, err := r.stats.GlobalLatest(p.Context, stringArg(p, "platform"), stringArg(p, "protocol"))
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, nil
	}
	return stat, nil
}

func (r *Resolvers) resolveStatsNodes(p graphql.ResolveParams) (interface{}, error) {
	// An explicit itemType wins over the shorthand arguments; among the
	// shorthands, platform is considered before protocol.
	var itemType, value string
	switch {
	case stringArg(p, "itemType") != "":
		itemType = stringArg(p, "itemType")
		value = stringArg(p, "value")
	case stringArg(p, "platform") != "":
		itemType = repos.ItemTypePlatform
		value = stringArg(p, "platform")
	case stringArg(p, "protocol") != "":
		itemType = repos.ItemTypeProtocol
		value = stringArg(p, "protocol")
	}
	return r.stats.NodesToday(p.Context, itemType, value, stringArg(p, "host"))
}

func (r *Resolvers) resolveStatsPlatformToday(p graphql.ResolveParams) (interface{}, error) {
	name := stringArg(p, "name")
	if name == "" {
		return nil, nil
	}
	stat, err := r.stats.PlatformToday(p.Context, name)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, nil
	}
	return stat, nil
}

func (r *Resolvers) resolveStatsProtocolToday(p graphql.ResolveParams) (interface{}, error) {
	name := stringArg(p, "name")
	if name == "" {
		return nil, nil
	}
	stat, err := r.stats.ProtocolToday(p.Context, name)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		return nil, nil
	}
	return stat, nil
}

func (r *Resolvers) resolveStatsUsersActiveRatio(p graphql.ResolveParams) (interface{}, error) {
	itemType, value := itemScope(p)
	return r.stats.ActiveRatio(p.Context, itemType, value)
}

func (r *Resolvers) resolveStatsUsersPerNode(p graphql.ResolveParams) (interface{}, error) {
	itemType, value := itemScope(p)
	return r.stats.UsersPerNode(p.Context, itemType, value)
}

// dateCountResolver builds the shared per-day metric sum handler.
func (r *Resolvers) dateCountResolver(metric string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		itemType, value := itemScope(p)
		return r.stats.DateCounts(p.Context, metric, itemType, value)
	}
}
