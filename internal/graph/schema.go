package graph

import (
	"github.com/graphql-go/graphql"
)

func itemScopeArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"itemType": &graphql.ArgumentConfig{Type: graphql.String},
		"value":    &graphql.ArgumentConfig{Type: graphql.String},
	}
}

func nameArg() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"name": &graphql.ArgumentConfig{Type: graphql.String},
	}
}

// NewSchema assembles the root query type from the resolver set. Schema
// construction validates every field/handler binding, so a bad mapping
// fails process startup instead of a request.
func NewSchema(r *Resolvers) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Args: graphql.FieldConfigArgument{
					"host":     &graphql.ArgumentConfig{Type: graphql.String},
					"platform": &graphql.ArgumentConfig{Type: graphql.String},
					"protocol": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveNodes,
			},
			"platforms": &graphql.Field{
				Type:    graphql.NewList(platformType),
				Args:    nameArg(),
				Resolve: r.resolvePlatforms,
			},
			"protocols": &graphql.Field{
				Type:    graphql.NewList(protocolType),
				Args:    nameArg(),
				Resolve: r.resolveProtocols,
			},
			"services": &graphql.Field{
				Type:    graphql.NewList(serviceType),
				Args:    nameArg(),
				Resolve: r.resolveServices,
			},
			"stats": &graphql.Field{
				Type:    graphql.NewList(statType),
				Resolve: r.resolveStats,
			},
			"statsCountsNodes": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.resolveStatsCountsNodes,
			},
			"statsGlobalToday": &graphql.Field{
				Type: statType,
				Args: graphql.FieldConfigArgument{
					"platform": &graphql.ArgumentConfig{Type: graphql.String},
					"protocol": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveStatsGlobalToday,
			},
			"statsNodes": &graphql.Field{
				Type: graphql.NewList(statType),
				Args: graphql.FieldConfigArgument{
					"host":     &graphql.ArgumentConfig{Type: graphql.String},
					"itemType": &graphql.ArgumentConfig{Type: graphql.String},
					"platform": &graphql.ArgumentConfig{Type: graphql.String},
					"protocol": &graphql.ArgumentConfig{Type: graphql.String},
					"value":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveStatsNodes,
			},
			"statsPlatformToday": &graphql.Field{
				Type:    statType,
				Args:    nameArg(),
				Resolve: r.resolveStatsPlatformToday,
			},
			"statsProtocolToday": &graphql.Field{
				Type:    statType,
				Args:    nameArg(),
				Resolve: r.resolveStatsProtocolToday,
			},
			"statsUsersActiveRatio": &graphql.Field{
				Type:    graphql.NewList(dateFloatCountType),
				Args:    itemScopeArgs(),
				Resolve: r.resolveStatsUsersActiveRatio,
			},
			"statsUsersHalfYear": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.dateCountResolver("users_half_year"),
			},
			"statsUsersMonthly": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.dateCountResolver("users_monthly"),
			},
			"statsUsersPerNode": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.resolveStatsUsersPerNode,
			},
			"statsUsersTotal": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.dateCountResolver("users_total"),
			},
			"statsUsersWeekly": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.dateCountResolver("users_weekly"),
			},
			"statsLocalPosts": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.dateCountResolver("local_posts"),
			},
			"statsLocalComments": &graphql.Field{
				Type:    graphql.NewList(dateCountType),
				Args:    itemScopeArgs(),
				Resolve: r.dateCountResolver("local_comments"),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
