// Package gql exposes the CRM over GraphQL.
package gql

import (
	"log/slog"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/service"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
)

// HelloMessage is returned by the hello query.
const HelloMessage = "Hello, GraphQL!"

type resolver struct {
	svc    service.CRMService
	logger *slog.Logger
}

// NewSchema builds the CRM schema on top of the given service.
func NewSchema(svc service.CRMService, logger *slog.Logger) (graphql.Schema, error) {
	r := &resolver{svc: svc, logger: logger.With("component", "graphql")}
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:      r.queryType(),
		Mutation:   r.mutationType(),
		Extensions: []graphql.Extension{statsScope{}},
	})
}

func (r *resolver) queryType() *graphql.Object {
	customersArgs := withPageArgs(graphql.FieldConfigArgument{
		"name_Icontains":  &graphql.ArgumentConfig{Type: graphql.String},
		"email_Icontains": &graphql.ArgumentConfig{Type: graphql.String},
		"createdAt_Gte":   &graphql.ArgumentConfig{Type: graphql.DateTime},
		"createdAt_Lte":   &graphql.ArgumentConfig{Type: graphql.DateTime},
		"phoneStartsWith": &graphql.ArgumentConfig{Type: graphql.String},
	})
	productsArgs := withPageArgs(graphql.FieldConfigArgument{
		"name_Icontains": &graphql.ArgumentConfig{Type: graphql.String},
		"price_Gte":      &graphql.ArgumentConfig{Type: Decimal},
		"price_Lte":      &graphql.ArgumentConfig{Type: Decimal},
		"stock":          &graphql.ArgumentConfig{Type: graphql.Int},
		"stock_Gte":      &graphql.ArgumentConfig{Type: graphql.Int},
		"stock_Lte":      &graphql.ArgumentConfig{Type: graphql.Int},
		"lowStock":       &graphql.ArgumentConfig{Type: graphql.Boolean, Description: "Only products with stock below 10."},
	})
	ordersArgs := withPageArgs(graphql.FieldConfigArgument{
		"totalAmount_Gte": &graphql.ArgumentConfig{Type: Decimal},
		"totalAmount_Lte": &graphql.ArgumentConfig{Type: Decimal},
		"orderDate_Gte":   &graphql.ArgumentConfig{Type: graphql.DateTime},
		"orderDate_Lte":   &graphql.ArgumentConfig{Type: graphql.DateTime},
		"customerName":    &graphql.ArgumentConfig{Type: graphql.String},
		"productName":     &graphql.ArgumentConfig{Type: graphql.String},
		"hasProductId":    &graphql.ArgumentConfig{Type: graphql.ID},
	})
	idArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}
	ordersField := func() *graphql.Field {
		return &graphql.Field{
			Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(orderType))),
			Args:    ordersArgs,
			Resolve: r.allOrders,
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return HelloMessage, nil
				},
			},
			"allCustomers": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerType))),
				Args:    customersArgs,
				Resolve: r.allCustomers,
			},
			"allProducts": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args:    productsArgs,
				Resolve: r.allProducts,
			},
			"allOrders": ordersField(),
			"orders":    ordersField(),
			"customer": &graphql.Field{
				Type:    customerType,
				Args:    idArgs,
				Resolve: r.customer,
			},
			"product": &graphql.Field{
				Type:    productType,
				Args:    idArgs,
				Resolve: r.product,
			},
			"order": &graphql.Field{
				Type:    orderType,
				Args:    idArgs,
				Resolve: r.order,
			},
			"totalCustomers": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: r.stat(func(s map[string]interface{}) interface{} { return s["totalCustomers"] }),
			},
			"totalOrders": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Int),
				Resolve: r.stat(func(s map[string]interface{}) interface{} { return s["totalOrders"] }),
			},
			"totalRevenue": &graphql.Field{
				Type:    graphql.NewNonNull(Decimal),
				Resolve: r.stat(func(s map[string]interface{}) interface{} { return s["totalRevenue"] }),
			},
		},
	})
}

func (r *resolver) mutationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: createCustomerPayload,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createCustomer,
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkCreateCustomersPayload,
				Args: graphql.FieldConfigArgument{
					"customersData": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInputType))),
					},
				},
				Resolve: r.bulkCreateCustomers,
			},
			"createProduct": &graphql.Field{
				Type: createProductPayload,
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price": &graphql.ArgumentConfig{Type: graphql.NewNonNull(Decimal)},
					"stock": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: r.createProduct,
			},
			"createOrder": &graphql.Field{
				Type: createOrderPayload,
				Args: graphql.FieldConfigArgument{
					"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"productIds": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
					"orderDate":  &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: r.createOrder,
			},
			"updateLowStockProducts": &graphql.Field{
				Type:    updateLowStockProductsPayload,
				Resolve: r.updateLowStockProducts,
			},
		},
	})
}

func (r *resolver) fail(p graphql.ResolveParams, err error) (interface{}, error) {
	return nil, toGraphQLError(p.Context, r.logger, err)
}

func (r *resolver) allCustomers(p graphql.ResolveParams) (interface{}, error) {
	filter, err := customerFilterFromArgs(p.Args)
	if err != nil {
		return r.fail(p, err)
	}
	customers, err := r.svc.ListCustomers(p.Context, filter)
	if err != nil {
		return r.fail(p, err)
	}
	return customerNodes(customers), nil
}

func (r *resolver) allProducts(p graphql.ResolveParams) (interface{}, error) {
	filter, err := productFilterFromArgs(p.Args)
	if err != nil {
		return r.fail(p, err)
	}
	products, err := r.svc.ListProducts(p.Context, filter)
	if err != nil {
		return r.fail(p, err)
	}
	return productNodes(products), nil
}

func (r *resolver) allOrders(p graphql.ResolveParams) (interface{}, error) {
	filter, err := orderFilterFromArgs(p.Args)
	if err != nil {
		return r.fail(p, err)
	}
	orders, err := r.svc.ListOrders(p.Context, filter)
	if err != nil {
		return r.fail(p, err)
	}
	return orderNodes(orders), nil
}

func (r *resolver) customer(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args, "id", apperrors.ErrCustomerNotFound)
	if err != nil {
		return r.fail(p, err)
	}
	c, err := r.svc.FindCustomerByID(p.Context, id)
	if err != nil {
		return r.fail(p, err)
	}
	return customerNode(*c), nil
}

func (r *resolver) product(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args, "id", apperrors.ErrProductNotFound)
	if err != nil {
		return r.fail(p, err)
	}
	product, err := r.svc.FindProductByID(p.Context, id)
	if err != nil {
		return r.fail(p, err)
	}
	return productNode(*product), nil
}

func (r *resolver) order(p graphql.ResolveParams) (interface{}, error) {
	id, err := idArg(p.Args, "id", apperrors.ErrOrderNotFound)
	if err != nil {
		return r.fail(p, err)
	}
	o, err := r.svc.FindOrderByID(p.Context, id)
	if err != nil {
		return r.fail(p, err)
	}
	return orderNode(*o), nil
}

// stat resolves one figure of the aggregate report.
func (r *resolver) stat(pick func(map[string]interface{}) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		stats, err := r.loadStats(p.Context)
		if err != nil {
			return r.fail(p, err)
		}
		return pick(map[string]interface{}{
			"totalCustomers": int(stats.TotalCustomers),
			"totalOrders":    int(stats.TotalOrders),
			"totalRevenue":   stats.TotalRevenue,
		}), nil
	}
}

func (r *resolver) createCustomer(p graphql.ResolveParams) (interface{}, error) {
	result, err := r.svc.CreateCustomer(p.Context, customerInputFromArgs(p.Args))
	if err != nil {
		return r.fail(p, err)
	}
	return map[string]interface{}{
		"customer": customerNode(result.Customer),
		"message":  result.Message,
	}, nil
}

func (r *resolver) bulkCreateCustomers(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["customersData"].([]interface{})
	records := make([]service.CustomerInput, 0, len(raw))
	for _, item := range raw {
		fields, _ := item.(map[string]interface{})
		records = append(records, customerInputFromArgs(fields))
	}

	result, err := r.svc.BulkCreateCustomers(p.Context, records)
	if err != nil {
		return r.fail(p, err)
	}
	errs := make([]interface{}, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, e)
	}
	return map[string]interface{}{
		"customers": customerNodes(result.Customers),
		"errors":    errs,
	}, nil
}

func (r *resolver) createProduct(p graphql.ResolveParams) (interface{}, error) {
	name, _ := p.Args["name"].(string)
	price := decimalArg(p.Args, "price")
	if price == nil {
		return r.fail(p, apperrors.ErrInvalidPrice)
	}
	product, err := r.svc.CreateProduct(p.Context, service.ProductInput{
		Name:  name,
		Price: *price,
		Stock: intArg(p.Args, "stock"),
	})
	if err != nil {
		return r.fail(p, err)
	}
	return map[string]interface{}{"product": productNode(*product)}, nil
}

func (r *resolver) createOrder(p graphql.ResolveParams) (interface{}, error) {
	customerID, err := idArg(p.Args, "customerId", apperrors.ErrInvalidCustomerID)
	if err != nil {
		return r.fail(p, err)
	}
	raw, _ := p.Args["productIds"].([]interface{})
	productIDs := make([]uuid.UUID, 0, len(raw))
	for _, item := range raw {
		s, _ := item.(string)
		// A malformed id never matches a product, so the lookup rejects it after the customer check.
		id, err := uuid.Parse(s)
		if err != nil {
			id = uuid.Nil
		}
		productIDs = append(productIDs, id)
	}

	order, err := r.svc.PlaceOrder(p.Context, service.OrderInput{
		CustomerID: customerID,
		ProductIDs: productIDs,
		OrderDate:  timeArg(p.Args, "orderDate"),
	})
	if err != nil {
		return r.fail(p, err)
	}
	return map[string]interface{}{"order": orderNode(*order)}, nil
}

func (r *resolver) updateLowStockProducts(p graphql.ResolveParams) (interface{}, error) {
	result, err := r.svc.RestockLowStock(p.Context)
	if err != nil {
		return r.fail(p, err)
	}
	return map[string]interface{}{
		"success":         result.Success,
		"message":         result.Message,
		"updatedProducts": productNodes(result.Products),
	}, nil
}
