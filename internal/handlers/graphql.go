package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"

	"github.com/fediwatch/fediwatch-backend/internal/cache"
	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

// How long a successful response stays cached. The data changes once a day
// per subject, so a short TTL is plenty.
const responseCacheTTL = 30 * time.Second

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	schema graphql.Schema
	cfg    *config.Config
	cache  cache.Cache
	log    *logger.Logger
}

func NewGraphQLHandler(schema graphql.Schema, cfg *config.Config, responseCache cache.Cache, baseLog *logger.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema: schema,
		cfg:    cfg,
		cache:  responseCache,
		log:    baseLog.With("handler", "GraphQLHandler"),
	}
}

// Query executes a GraphQL request. The schema is query-only, so whole
// responses are cacheable by request body; caching is skipped in debug mode
// and failed executions are never stored.
func (gh *GraphQLHandler) Query(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	cacheKey := ""
	if gh.cacheable() {
		sum := sha256.Sum256(body)
		cacheKey = "graphql:" + hex.EncodeToString(sum[:])
		if cached, ok, cacheErr := gh.cache.Get(c.Request.Context(), cacheKey); cacheErr == nil && ok {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	var req graphqlRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graphql request"})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         gh.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.Request.Context(),
	})

	payload, err := json.Marshal(result)
	if err != nil {
		gh.log.Error("Failed to marshal graphql result", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode response"})
		return
	}

	if cacheKey != "" && !result.HasErrors() {
		if cacheErr := gh.cache.Set(c.Request.Context(), cacheKey, payload, responseCacheTTL); cacheErr != nil {
			gh.log.Warn("Failed to cache graphql response", "error", cacheErr)
		}
	}

	c.Data(http.StatusOK, "application/json", payload)
}

func (gh *GraphQLHandler) cacheable() bool {
	return gh.cache != nil && !gh.cfg.Debug
}

// Playground serves the interactive GraphiQL UI, mounted only when the
// debug toolbar is enabled.
func (gh *GraphQLHandler) Playground() gin.HandlerFunc {
	h := gqlhandler.New(&gqlhandler.Config{
		Schema:   &gh.schema,
		Pretty:   true,
		GraphiQL: true,
	})
	return gin.WrapH(h)
}
