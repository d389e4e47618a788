package sales

import (
	"iter"

	"github.com/shopspring/decimal"
)

// CartLine is one product selection in a cart. UnitPrice is the product
// price at the time the line was first added.
type CartLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns UnitPrice × Quantity.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates product selections before a commit. A Cart must be
// confined to a single goroutine.
type Cart struct {
	lines []CartLine
	index map[string]int
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: map[string]int{}}
}

// AddItem adds quantity units of product. Adding a product already in the
// cart merges into its line. The product's stock snapshot must cover the
// merged quantity, otherwise the cart is left unchanged.
func (c *Cart) AddItem(product Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.index == nil {
		c.index = map[string]int{}
	}

	i, ok := c.index[product.ID]
	requested := quantity
	if ok {
		requested += c.lines[i].Quantity
	}
	if err := checkStock(product.ID, requested, product.StockQuantity); err != nil {
		return err
	}

	if ok {
		c.lines[i].Quantity = requested
		return nil
	}
	c.index[product.ID] = len(c.lines)
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Quantity:  quantity,
	})
	return nil
}

// RemoveLine drops the line for productID, if any.
func (c *Cart) RemoveLine(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}

// Total returns the sum of all line totals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Lines yields copies of the lines in insertion order.
func (c *Cart) Lines() iter.Seq[CartLine] {
	return func(yield func(CartLine) bool) {
		for _, l := range c.lines {
			if !yield(l) {
				return
			}
		}
	}
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Quantity returns the quantity held for productID, 0 if absent.
func (c *Cart) Quantity(productID string) int {
	if i, ok := c.index[productID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}
