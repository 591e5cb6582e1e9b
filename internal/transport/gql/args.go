package gql

import (
	"time"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/service"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
)

// pageArgs are accepted by every list field.
var pageArgs = graphql.FieldConfigArgument{
	"orderBy": &graphql.ArgumentConfig{Type: graphql.String, Description: "Field name, prefixed with - for descending order."},
	"first":   &graphql.ArgumentConfig{Type: graphql.Int, Description: "Page size, 1 to 1000. Defaults to 100."},
	"offset":  &graphql.ArgumentConfig{Type: graphql.Int},
}

func withPageArgs(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	for name, arg := range pageArgs {
		args[name] = arg
	}
	return args
}

func stringArg(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func intArg(args map[string]interface{}, name string) *int32 {
	if v, ok := args[name].(int); ok {
		i := int32(v)
		return &i
	}
	return nil
}

func boolArg(args map[string]interface{}, name string) *bool {
	if v, ok := args[name].(bool); ok {
		return &v
	}
	return nil
}

func timeArg(args map[string]interface{}, name string) *time.Time {
	if v, ok := args[name].(time.Time); ok {
		return &v
	}
	return nil
}

func decimalArg(args map[string]interface{}, name string) *decimal.Decimal {
	if v, ok := args[name].(decimal.Decimal); ok {
		return &v
	}
	return nil
}

// idArg parses a required ID argument, returning notValid when it is not a UUID.
func idArg(args map[string]interface{}, name string, notValid error) (uuid.UUID, error) {
	s, _ := args[name].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, notValid
	}
	return id, nil
}

func optionalIDArg(args map[string]interface{}, name string) (*uuid.UUID, error) {
	if _, ok := args[name]; !ok {
		return nil, nil
	}
	id, err := idArg(args, name, apperrors.ErrInvalidID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pageFromArgs(args map[string]interface{}) (store.Page, error) {
	var page store.Page
	if v := stringArg(args, "orderBy"); v != nil {
		page.OrderBy = *v
	}
	if v := intArg(args, "first"); v != nil {
		if *v < 1 || *v > service.MaxPageSize {
			return page, apperrors.ErrInvalidPageLimit
		}
		page.Limit = uint64(*v)
	}
	if v := intArg(args, "offset"); v != nil {
		if *v < 0 {
			return page, apperrors.ErrInvalidOffset
		}
		page.Offset = uint64(*v)
	}
	return page, nil
}

func customerFilterFromArgs(args map[string]interface{}) (store.CustomerFilter, error) {
	page, err := pageFromArgs(args)
	return store.CustomerFilter{
		NameIContains:   stringArg(args, "name_Icontains"),
		EmailIContains:  stringArg(args, "email_Icontains"),
		CreatedAtGte:    timeArg(args, "createdAt_Gte"),
		CreatedAtLte:    timeArg(args, "createdAt_Lte"),
		PhoneStartsWith: stringArg(args, "phoneStartsWith"),
		Page:            page,
	}, err
}

func productFilterFromArgs(args map[string]interface{}) (store.ProductFilter, error) {
	page, err := pageFromArgs(args)
	return store.ProductFilter{
		NameIContains: stringArg(args, "name_Icontains"),
		PriceGte:      decimalArg(args, "price_Gte"),
		PriceLte:      decimalArg(args, "price_Lte"),
		Stock:         intArg(args, "stock"),
		StockGte:      intArg(args, "stock_Gte"),
		StockLte:      intArg(args, "stock_Lte"),
		LowStock:      boolArg(args, "lowStock"),
		Page:          page,
	}, err
}

func orderFilterFromArgs(args map[string]interface{}) (store.OrderFilter, error) {
	page, err := pageFromArgs(args)
	if err != nil {
		return store.OrderFilter{}, err
	}
	productID, err := optionalIDArg(args, "hasProductId")
	if err != nil {
		return store.OrderFilter{}, err
	}
	return store.OrderFilter{
		TotalAmountGte: decimalArg(args, "totalAmount_Gte"),
		TotalAmountLte: decimalArg(args, "totalAmount_Lte"),
		OrderDateGte:   timeArg(args, "orderDate_Gte"),
		OrderDateLte:   timeArg(args, "orderDate_Lte"),
		CustomerName:   stringArg(args, "customerName"),
		ProductName:    stringArg(args, "productName"),
		HasProductID:   productID,
		Page:           page,
	}, nil
}

func customerInputFromArgs(args map[string]interface{}) service.CustomerInput {
	name, _ := args["name"].(string)
	email, _ := args["email"].(string)
	return service.CustomerInput{Name: name, Email: email, Phone: stringArg(args, "phone")}
}
