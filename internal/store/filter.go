package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	apperrors "github.com/abgdnv/gocrm/internal/errors"
)

// LowStockThreshold is the stock level below which a product counts as low on stock.
const LowStockThreshold = 10

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	customerColumns = []string{"c.id", "c.name", "c.email", "c.phone", "c.created_at"}
	productColumns  = []string{"p.id", "p.name", "p.price", "p.stock", "p.created_at", "p.updated_at"}
	orderColumns    = []string{"o.id", "o.customer_id", "o.total_amount", "o.order_date", "o.created_at"}
)

// sortable fields per listing, keyed by the name accepted from clients.
var (
	customerSort = map[string]string{
		"id": "c.id", "name": "c.name", "email": "c.email",
		"createdAt": "c.created_at", "created_at": "c.created_at",
	}
	productSort = map[string]string{
		"id": "p.id", "name": "p.name", "price": "p.price", "stock": "p.stock",
		"createdAt": "p.created_at", "created_at": "p.created_at",
	}
	orderSort = map[string]string{
		"id": "o.id", "totalAmount": "o.total_amount", "total_amount": "o.total_amount",
		"orderDate": "o.order_date", "order_date": "o.order_date",
		"createdAt": "o.created_at", "created_at": "o.created_at",
	}
)

func customersQuery(f CustomerFilter) (sq.SelectBuilder, error) {
	q := psql.Select(customerColumns...).From("customers c")
	if f.NameIContains != nil {
		q = q.Where(sq.ILike{"c.name": contains(*f.NameIContains)})
	}
	if f.EmailIContains != nil {
		q = q.Where(sq.ILike{"c.email": contains(*f.EmailIContains)})
	}
	if f.CreatedAtGte != nil {
		q = q.Where(sq.GtOrEq{"c.created_at": *f.CreatedAtGte})
	}
	if f.CreatedAtLte != nil {
		q = q.Where(sq.LtOrEq{"c.created_at": *f.CreatedAtLte})
	}
	if f.PhoneStartsWith != nil {
		q = q.Where(sq.Like{"c.phone": escapeLike(*f.PhoneStartsWith) + "%"})
	}
	return paginate(q, f.Page, customerSort, "c.created_at", "c.id")
}

func productsQuery(f ProductFilter) (sq.SelectBuilder, error) {
	q := psql.Select(productColumns...).From("products p")
	if f.NameIContains != nil {
		q = q.Where(sq.ILike{"p.name": contains(*f.NameIContains)})
	}
	if f.PriceGte != nil {
		q = q.Where(sq.GtOrEq{"p.price": *f.PriceGte})
	}
	if f.PriceLte != nil {
		q = q.Where(sq.LtOrEq{"p.price": *f.PriceLte})
	}
	if f.Stock != nil {
		q = q.Where(sq.Eq{"p.stock": *f.Stock})
	}
	if f.StockGte != nil {
		q = q.Where(sq.GtOrEq{"p.stock": *f.StockGte})
	}
	if f.StockLte != nil {
		q = q.Where(sq.LtOrEq{"p.stock": *f.StockLte})
	}
	// lowStock=false leaves the listing unfiltered.
	if f.LowStock != nil && *f.LowStock {
		q = q.Where(sq.Lt{"p.stock": LowStockThreshold})
	}
	return paginate(q, f.Page, productSort, "p.created_at", "p.id")
}

func ordersQuery(f OrderFilter) (sq.SelectBuilder, error) {
	q := psql.Select(orderColumns...).From("orders o")
	if f.TotalAmountGte != nil {
		q = q.Where(sq.GtOrEq{"o.total_amount": *f.TotalAmountGte})
	}
	if f.TotalAmountLte != nil {
		q = q.Where(sq.LtOrEq{"o.total_amount": *f.TotalAmountLte})
	}
	if f.OrderDateGte != nil {
		q = q.Where(sq.GtOrEq{"o.order_date": *f.OrderDateGte})
	}
	if f.OrderDateLte != nil {
		q = q.Where(sq.LtOrEq{"o.order_date": *f.OrderDateLte})
	}
	if f.CustomerName != nil {
		q = q.Join("customers c ON c.id = o.customer_id").
			Where(sq.ILike{"c.name": contains(*f.CustomerName)})
	}
	// EXISTS keeps each order once even when several of its products match.
	if f.ProductName != nil {
		q = q.Where(sq.Expr(`EXISTS (SELECT 1 FROM order_products op JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id AND p.name ILIKE ?)`, contains(*f.ProductName)))
	}
	if f.HasProductID != nil {
		q = q.Where(sq.Expr(`EXISTS (SELECT 1 FROM order_products op
			WHERE op.order_id = o.id AND op.product_id = ?)`, *f.HasProductID))
	}
	return paginate(q, f.Page, orderSort, "o.order_date", "o.id")
}

// paginate applies ordering, limit and offset. An unknown order field is a validation error.
func paginate(q sq.SelectBuilder, p Page, sortable map[string]string, defaultSort, tieBreaker string) (sq.SelectBuilder, error) {
	column, direction := defaultSort, "ASC"
	if p.OrderBy != "" {
		field := p.OrderBy
		if strings.HasPrefix(field, "-") {
			field, direction = field[1:], "DESC"
		}
		c, ok := sortable[field]
		if !ok {
			return q, apperrors.ErrInvalidOrderBy
		}
		column = c
	}
	q = q.OrderBy(column+" "+direction, tieBreaker+" "+direction)
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q, nil
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
