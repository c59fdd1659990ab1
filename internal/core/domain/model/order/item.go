package order

import (
	"errors"
	"fmt"

	"foodorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Item is a line item of an order: a snapshot of a cart line taken at the
// moment of placement. Name and price are denormalized copies so later menu
// edits never change what the customer agreed to pay.
//
// Item is an immutable value object; use NewItem to construct it.
type Item struct {
	menuItemID int64
	name       string
	quantity   int
	price      decimal.Decimal

	isConstructed bool
}

// ErrItemIsNotConstructed is returned when an Item was not created through NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// NewItem creates a validated order line item.
//
// Rules:
//   - menuItemID must be positive
//   - name must not be empty
//   - quantity must be at least 1
//   - price must not be negative
func NewItem(menuItemID int64, name string, quantity int, price decimal.Decimal) (Item, error) {
	if menuItemID <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("menuItemId",
			fmt.Errorf("%d is not a valid menu item id", menuItemID))
	}
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("itemName")
	}
	if quantity < 1 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if price.IsNegative() {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%s is negative", price.String()))
	}

	return Item{
		menuItemID:    menuItemID,
		name:          name,
		quantity:      quantity,
		price:         price,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// MenuItemID returns the id of the menu item this line snapshots.
func (i Item) MenuItemID() int64 {
	return i.menuItemID
}

// Name returns the item name captured at order time.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// Price returns the unit price captured at order time.
func (i Item) Price() decimal.Decimal {
	return i.price
}

// Subtotal returns price multiplied by quantity with exact decimal arithmetic.
func (i Item) Subtotal() decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
}
