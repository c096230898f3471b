package order

import (
	"errors"
	"fmt"
	"strconv"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")
	ErrItemIsNotConstructed    = errors.New("Item must be created via NewItem constructor")
)

// Product is a frozen copy of a catalog entry taken when the order is created.
// Orders never re-resolve products, so later catalog edits do not leak into history.
type Product struct {
	tenantID  string
	productID string
	name      string
	price     string
	imageURL  string

	guard guard.ConstructorGuard
}

// NewProduct validates a catalog snapshot. Price is kept as the decimal text the
// catalog returned so no precision is lost.
func NewProduct(tenantID, productID, name, price, imageURL string) (Product, error) {
	var errList []error
	if tenantID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("product tenant_id"))
	}
	if productID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("product_id"))
	}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("product name"))
	}
	if p, err := strconv.ParseFloat(price, 64); err != nil || p < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%q is not a non-negative decimal", price)))
	}
	if err := errors.Join(errList...); err != nil {
		return Product{}, err
	}

	return Product{
		tenantID:  tenantID,
		productID: productID,
		name:      name,
		price:     price,
		imageURL:  imageURL,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (p Product) Validate() error {
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p Product) TenantID() string  { return p.tenantID }
func (p Product) ProductID() string { return p.productID }
func (p Product) Name() string      { return p.name }
func (p Product) Price() string     { return p.price }
func (p Product) ImageURL() string  { return p.imageURL }

// Item is one order line.
type Item struct {
	product  Product
	quantity int

	guard guard.ConstructorGuard
}

// NewItem requires a constructed product and a positive quantity.
func NewItem(product Product, quantity int) (Item, error) {
	if err := product.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{product: product, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) Product() Product { return i.product }
func (i Item) Quantity() int    { return i.quantity }
