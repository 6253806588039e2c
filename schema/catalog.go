package schema

// DefaultCatalog returns the built-in form options.
func DefaultCatalog() Catalog {
	return Catalog{
		Departments: []int{1, 2, 3},
		Stores:      []int{1, 2, 3},
		Customers: []Customer{
			{ID: 1, Name: "Camilo", LastPurchase: "Solimo Laundry Basket with Lid, 55 Litres, Silver"},
			{ID: 2, Name: "Sofia", LastPurchase: "1 Ton 4 Star Fixed Speed Window AC (Copper, Turbo Cool, Dust Filter, 2022 Model, White)"},
			{ID: 3, Name: "Jose", LastPurchase: "Premium 750 Watt Mixer Grinder with 3 Stainless Steel Jar + 1 Juicer Jar, Black & Grey"},
			{ID: 4, Name: "Mariana", LastPurchase: "- Solimo PVC Front Load Fully Automatic Washing Machine Cover, Polka, Blue"},
			{ID: 5, Name: "Ronaldo", LastPurchase: "Sport Men Sweatshirt"},
			{ID: 6, Name: "Juan Carlos", LastPurchase: "6-Feet DisplayPort (not USB port) to HDMI Cable Black"},
			{ID: 7, Name: "Simon", LastPurchase: "polyester 23 Cms Gym Bag(7572229_Pink_X_Red)"},
			{ID: 8, Name: "Juan Pablo", LastPurchase: "Men's Contaro M Flip Flop & Slipper"},
			{ID: 9, Name: "Valentina", LastPurchase: "- Eden & Ivy Women's Cotton Knee Length Casual Regular Nightgown"},
			{ID: 10, Name: "Daniela", LastPurchase: "Men's Maxico Running Shoes"},
		},
	}
}
