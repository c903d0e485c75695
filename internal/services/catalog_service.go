package services

// CatalogService serves the static storefront content.
type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

// Services returns a copy so callers cannot mutate the fixtures.
func (s *CatalogService) Services() []FarmService {
	out := make([]FarmService, len(farmServices))
	for i, svc := range farmServices {
		svc.Prices = append([]ServicePrice{}, svc.Prices...)
		out[i] = svc
	}
	return out
}

func (s *CatalogService) Gallery() []GalleryItem {
	return append([]GalleryItem(nil), galleryItems...)
}

func (s *CatalogService) Process() []ProcessStep {
	return append([]ProcessStep(nil), processSteps...)
}
