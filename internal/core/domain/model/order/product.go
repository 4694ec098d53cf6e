package order

// ProductType classifies what is being delivered. Card products get extra
// verification steps (photo capture, post-control with card data callbacks).
type ProductType string

const (
	CardProduct     ProductType = "card"
	DocumentProduct ProductType = "document"
	ParcelProduct   ProductType = "parcel"
)

// IsCard reports whether the product is a physical card.
func (p ProductType) IsCard() bool {
	return p == CardProduct
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// Type distinguishes courier delivery from branch pickup. Pickup orders end in
// the issued checkpoint instead of delivered.
type Type string

const (
	Delivery Type = "delivery"
	Pickup   Type = "pickup"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
