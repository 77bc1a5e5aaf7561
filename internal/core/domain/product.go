package domain

// Product is a catalog entry. Products live independently of orders:
// orders capture a price snapshot at creation time, so price updates
// here never reach back into existing orders.
type Product struct {
	ID    string
	Name  string
	Price Money
}

// UpdatePrice changes the catalog price. Zero is rejected along with
// negatives: a free product is a data-entry mistake, not a promotion.
func (p *Product) UpdatePrice(newPrice Money) error {
	if !newPrice.Amount().IsPositive() {
		return Validationf("product price must be greater than zero")
	}
	p.Price = newPrice
	return nil
}
