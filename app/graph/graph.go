// Package graph exposes a read-only GraphQL view over the stores.
package graph

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/app/store"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/response"
)

// Resolver holds the stores the schema reads from.
type Resolver struct {
	Users    *store.UserStore
	Products *store.ProductStore
	Orders   *store.OrderStore
}

// NewSchema builds the query-only schema.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					switch v := p.Source.(type) {
					case models.Product:
						return v.Name, nil
					case *models.Product:
						return v.Name, nil
					}
					return nil, nil
				},
			},
			"price": &graphql.Field{Type: graphql.Float},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.Int},
			"name":  &graphql.Field{Type: graphql.String},
			"email": &graphql.Field{Type: graphql.String},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.Int},
			"userId": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.Order).UserID, nil
				},
			},
			"orderDate": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.Order).OrderDate.Format(time.RFC3339), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return p.Source.(models.Order).Products, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Products.Get(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"perPage": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					page := p.Args["page"].(int)
					perPage := p.Args["perPage"].(int)
					if page < 1 || perPage < 1 || perPage > 100 {
						return nil, apperr.BadRequest("invalid pagination arguments")
					}
					result, err := r.Products.Paginate(p.Context, page, perPage)
					if err != nil {
						return nil, err
					}
					return result.Items, nil
				},
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Users.Get(p.Context, uint(p.Args["id"].(int)))
				},
			},
			"users": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Users.List(p.Context)
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					order, err := r.Orders.Get(p.Context, uint(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return *order, nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return r.Orders.List(p.Context)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Handler serves POST /graphql.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		response.JSON(w, http.StatusOK, result)
	}
}
