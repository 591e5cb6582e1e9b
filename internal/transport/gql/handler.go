package gql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

// NewHandler serves the schema over HTTP (GET and POST, JSON or form encoded).
func NewHandler(schema *graphql.Schema, graphiQL bool) http.Handler {
	return handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: graphiQL,
	})
}
