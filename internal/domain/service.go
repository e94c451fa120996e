package domain

// Service is a catalog entry describing a deployed service.
type Service struct {
	ID          string
	Description string
}
