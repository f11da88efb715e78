package graph

import (
	"github.com/biter777/countries"
	"github.com/graphql-go/graphql"

	"github.com/fediwatch/fediwatch-backend/internal/types"
)

// Object types bind one-to-one to the stored models. Plain fields resolve
// through the default resolver against the models' json tags; only derived
// fields carry explicit resolvers.

var serviceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Service",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"displayName": &graphql.Field{Type: graphql.String},
	},
})

var platformType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Platform",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"displayName": &graphql.Field{Type: graphql.String},
		"tagline":     &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"website":     &graphql.Field{Type: graphql.String},
		"icon":        &graphql.Field{Type: graphql.String},
		"activeNodes": &graphql.Field{Type: graphql.Int},
	},
})

var protocolType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Protocol",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"displayName": &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"website":     &graphql.Field{Type: graphql.String},
		"activeNodes": &graphql.Field{Type: graphql.Int},
	},
})

var nodeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Node",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"host":        &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"version":     &graphql.Field{Type: graphql.String},
		"openSignups": &graphql.Field{Type: graphql.Boolean},
		"active":      &graphql.Field{Type: graphql.Boolean},
		"users":       &graphql.Field{Type: graphql.Int},
		"platform":    &graphql.Field{Type: platformType},
		"protocols":   &graphql.Field{Type: graphql.NewList(protocolType)},
		"services":    &graphql.Field{Type: graphql.NewList(serviceType)},
		"countryCode": &graphql.Field{
			Type:    graphql.String,
			Resolve: resolveCountryField(func(c countries.CountryCode) string { return c.Alpha2() }),
		},
		"countryFlag": &graphql.Field{
			Type:    graphql.String,
			Resolve: resolveCountryField(func(c countries.CountryCode) string { return c.Emoji() }),
		},
		"countryName": &graphql.Field{
			Type:    graphql.String,
			Resolve: resolveCountryField(func(c countries.CountryCode) string { return c.String() }),
		},
	},
})

var statType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stat",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.Int},
		"date":          &graphql.Field{Type: graphql.String},
		"usersTotal":    &graphql.Field{Type: graphql.Int},
		"usersHalfYear": &graphql.Field{Type: graphql.Int},
		"usersMonthly":  &graphql.Field{Type: graphql.Int},
		"usersWeekly":   &graphql.Field{Type: graphql.Int},
		"localPosts":    &graphql.Field{Type: graphql.Int},
		"localComments": &graphql.Field{Type: graphql.Int},
		"node":          &graphql.Field{Type: nodeType},
		"platform":      &graphql.Field{Type: platformType},
		"protocol":      &graphql.Field{Type: protocolType},
	},
})

var dateCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DateCount",
	Fields: graphql.Fields{
		"date":  &graphql.Field{Type: graphql.String},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var dateFloatCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DateFloatCount",
	Fields: graphql.Fields{
		"date":  &graphql.Field{Type: graphql.String},
		"count": &graphql.Field{Type: graphql.Float},
	},
})

// resolveCountryField derives one attribute of a node's country. Nodes with
// no usable country resolve all three derived fields to null.
func resolveCountryField(attr func(countries.CountryCode) string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		node, ok := p.Source.(*types.Node)
		if !ok || node.Country == "" {
			return nil, nil
		}
		country := countries.ByName(node.Country)
		if country == countries.Unknown {
			return nil, nil
		}
		return attr(country), nil
	}
}
