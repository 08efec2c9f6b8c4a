package domain

// SharingPackRef is the reference name of the coin bundle product.
const SharingPackRef = "Sharing_Pack"

// Price is the display price metadata attached to a catalog product.
type Price struct {
	Amount   string
	Currency string
}

// Product is a single in-skill product as reported by the entitlement source
// for the current turn. It is never cached across turns.
type Product struct {
	ProductID              string
	ReferenceName          string
	Name                   string
	Summary                string
	Purchasable            bool
	Entitled               bool
	ActiveEntitlementCount int
	Price                  *Price
}

// Catalog is the per-turn product snapshot.
type Catalog []Product

// FindByReference returns the first product with the given reference name and
// the total number of products that matched.
func (c Catalog) FindByReference(ref string) (Product, int) {
	var (
		found   Product
		matches int
	)
	for _, p := range c {
		if p.ReferenceName != ref {
			continue
		}
		if matches == 0 {
			found = p
		}
		matches++
	}
	return found, matches
}

// FindByID returns the product with the given id.
func (c Catalog) FindByID(productID string) (Product, bool) {
	for _, p := range c {
		if p.ProductID == productID {
			return p, true
		}
	}
	return Product{}, false
}

// Purchasable returns products that can be bought and are not owned yet.
func (c Catalog) Purchasable() []Product {
	out := make([]Product, 0, len(c))
	for _, p := range c {
		if p.Purchasable && !p.Entitled {
			out = append(out, p)
		}
	}
	return out
}

// Entitled returns products the user currently owns.
func (c Catalog) Entitled() []Product {
	out := make([]Product, 0, len(c))
	for _, p := range c {
		if p.Entitled {
			out = append(out, p)
		}
	}
	return out
}
