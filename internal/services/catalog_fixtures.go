package services

// ServicePrice is one priced option of a farm service.
type ServicePrice struct {
	ProductName     string `json:"product_name"`
	HoldingCapacity string `json:"holding_capacity,omitempty"`
	UnitPrice       string `json:"unit_price"`
}

type FarmService struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Prices      []ServicePrice `json:"prices"`
}

type GalleryItem struct {
	Title     string `json:"title"`
	MediaType string `json:"media_type"`
}

type ProcessStep struct {
	StepNumber  int    `json:"step_number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IconName    string `json:"icon_name"`
	Image       string `json:"image"`
}

var farmServices = []FarmService{
	{
		ID:          1,
		Name:        "Catfish Sale",
		Description: "Fresh catfish available in various sizes and packaging for both retail and wholesale customers.",
		Prices: []ServicePrice{
			{ProductName: "Hearty Catfish (1kg)", UnitPrice: "25.00"},
			{ProductName: "Hearty Catfish (5kg)", UnitPrice: "115.00"},
		},
	},
	{
		ID:          2,
		Name:        "Tilapia Sale",
		Description: "Premium tilapia, sustainably farmed for superior taste and texture.",
		Prices: []ServicePrice{
			{ProductName: "Premium Tilapia (1kg)", UnitPrice: "30.00"},
			{ProductName: "Premium Tilapia (5kg)", UnitPrice: "140.00"},
		},
	},
	{
		ID:          3,
		Name:        "Tarpaulin Pond Sale",
		Description: "Durable tarpaulin tanks, easy to set up and ideal for small to medium farms.",
		Prices: []ServicePrice{
			{ProductName: "5x5x3 feet", HoldingCapacity: "200 fish", UnitPrice: "2000.00"},
			{ProductName: "10x10x3 feet", HoldingCapacity: "1000 fish", UnitPrice: "3500.00"},
		},
	},
	{
		ID:          4,
		Name:        "Fingerlings Sale",
		Description: "Healthy fingerlings bred for rapid growth and disease resistance.",
		Prices: []ServicePrice{
			{ProductName: "Catfish Fingerlings (100 pcs)", UnitPrice: "150.00"},
			{ProductName: "Tilapia Fingerlings (100 pcs)", UnitPrice: "120.00"},
		},
	},
	{
		ID:          5,
		Name:        "Fish Feed Sale",
		Description: "High-protein, organic feed formulated to promote excellent growth rates.",
		Prices: []ServicePrice{
			{ProductName: "50kg Bag", UnitPrice: "180.00"},
			{ProductName: "25kg Bag", UnitPrice: "95.00"},
		},
	},
	{
		ID:          6,
		Name:        "Fish Farm Training",
		Description: "Hands-on training covering pond setup, feeding, health management, and harvesting.",
		Prices:      []ServicePrice{},
	},
	{
		ID:          7,
		Name:        "Consultation",
		Description: "Expert consultation to optimize your farm for productivity and profitability.",
		Prices:      []ServicePrice{},
	},
}

var galleryItems = []GalleryItem{
	{Title: "Feeding Time", MediaType: "image"},
	{Title: "Harvesting the Catch", MediaType: "image"},
	{Title: "Team Collaboration", MediaType: "image"},
	{Title: "Our Pristine Farm", MediaType: "video"},
	{Title: "Netting Session", MediaType: "image"},
	{Title: "Harvesting Environment", MediaType: "image"},
	{Title: "Eel Immersion", MediaType: "image"},
	{Title: "Tarpaulin Tanks", MediaType: "image"},
	{Title: "Fish Feed", MediaType: "image"},
	{Title: "Setting up a Tarpaulin Tank", MediaType: "video"},
	{Title: "Hatchery", MediaType: "video"},
	{Title: "Catfish Fingerlings", MediaType: "video"},
	{Title: "Tilapia Fingerlings", MediaType: "video"},
}

var processSteps = []ProcessStep{
	{
		StepNumber:  1,
		Title:       "Eco-Friendly Hatchery",
		Description: "Our process begins in a state-of-the-art hatchery where we ensure the highest survival rates and genetic quality, without the use of harmful chemicals.",
		IconName:    "sprout",
		Image:       "assets/eco-frndly-hatchery.jpg",
	},
	{
		StepNumber:  2,
		Title:       "Pure Water Source",
		Description: "Our fish are raised in pristine, earthen ponds fed by natural water sources. We continuously monitor water quality to mimic their natural habitat.",
		IconName:    "droplets",
		Image:       "assets/pure-water-source.jpg",
	},
	{
		StepNumber:  3,
		Title:       "Organic Nutrition",
		Description: "We are committed to providing our fish with high-protein, organic feed, ensuring they are healthy, nutritious, and free from antibiotics.",
		IconName:    "leafy-green",
		Image:       "assets/organic-nutrition.png",
	},
	{
		StepNumber:  4,
		Title:       "Ethical Harvesting",
		Description: "We use humane harvesting techniques to minimize stress on the fish, which preserves the quality, texture, and flavor of the final product.",
		IconName:    "ship-wheel",
		Image:       "assets/ethical-harvesting.png",
	},
}
