package gql

import (
	"github.com/abgdnv/gocrm/internal/service"
	"github.com/graphql-go/graphql"
)

var customerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Customer",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"phone":     &graphql.Field{Type: graphql.String},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":     &graphql.Field{Type: graphql.NewNonNull(Decimal)},
		"stock":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"customer":    &graphql.Field{Type: graphql.NewNonNull(customerType)},
		"products":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))},
		"totalAmount": &graphql.Field{Type: graphql.NewNonNull(Decimal)},
		"orderDate":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var customerInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var createCustomerPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateCustomer",
	Fields: graphql.Fields{
		"customer": &graphql.Field{Type: customerType},
		"message":  &graphql.Field{Type: graphql.String},
	},
})

var bulkCreateCustomersPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "BulkCreateCustomers",
	Fields: graphql.Fields{
		"customers": &graphql.Field{Type: graphql.NewList(customerType)},
		"errors":    &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var createProductPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateProduct",
	Fields: graphql.Fields{
		"product": &graphql.Field{Type: productType},
	},
})

var createOrderPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateOrder",
	Fields: graphql.Fields{
		"order": &graphql.Field{Type: orderType},
	},
})

var updateLowStockProductsPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "UpdateLowStockProducts",
	Fields: graphql.Fields{
		"success":         &graphql.Field{Type: graphql.Boolean},
		"message":         &graphql.Field{Type: graphql.String},
		"updatedProducts": &graphql.Field{Type: graphql.NewList(productType)},
	},
})

// The default resolver reads map keys, so DTOs are exposed as maps keyed by field name.

func customerNode(c service.CustomerDto) map[string]interface{} {
	var phone interface{}
	if c.Phone != nil {
		phone = *c.Phone
	}
	return map[string]interface{}{
		"id":        c.ID.String(),
		"name":      c.Name,
		"email":     c.Email,
		"phone":     phone,
		"createdAt": c.CreatedAt,
	}
}

func productNode(p service.ProductDto) map[string]interface{} {
	return map[string]interface{}{
		"id":        p.ID.String(),
		"name":      p.Name,
		"price":     p.Price,
		"stock":     int(p.Stock),
		"createdAt": p.CreatedAt,
		"updatedAt": p.UpdatedAt,
	}
}

func orderNode(o service.OrderDto) map[string]interface{} {
	return map[string]interface{}{
		"id":          o.ID.String(),
		"customer":    customerNode(o.Customer),
		"products":    productNodes(o.Products),
		"totalAmount": o.TotalAmount,
		"orderDate":   o.OrderDate,
		"createdAt":   o.CreatedAt,
	}
}

func customerNodes(customers []service.CustomerDto) []interface{} {
	nodes := make([]interface{}, 0, len(customers))
	for _, c := range customers {
		nodes = append(nodes, customerNode(c))
	}
	return nodes
}

func productNodes(products []service.ProductDto) []interface{} {
	nodes := make([]interface{}, 0, len(products))
	for _, p := range products {
		nodes = append(nodes, productNode(p))
	}
	return nodes
}

func orderNodes(orders []service.OrderDto) []interface{} {
	nodes := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		nodes = append(nodes, orderNode(o))
	}
	return nodes
}
