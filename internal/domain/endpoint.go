package domain

// EndpointTemplate describes a service endpoint that tenants can be
// associated with.
type EndpointTemplate struct {
	ID          string
	Region      string
	ServiceName string
	PublicURL   string
	AdminURL    string
	InternalURL string
	Enabled     bool
	Global      bool
}

// Endpoint associates an endpoint template with a tenant.
type Endpoint struct {
	ID         string
	TenantID   string
	TemplateID string
}
