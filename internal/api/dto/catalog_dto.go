package dto

// ServiceRequest is the payload for registering a catalog service.
type ServiceRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ServiceResponse describes a catalog service.
type ServiceResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// EndpointTemplateRequest is the payload for registering an endpoint
// template. An empty id gets a generated one.
type EndpointTemplateRequest struct {
	ID          string `json:"id,omitempty"`
	Region      string `json:"region"`
	ServiceName string `json:"serviceName"`
	PublicURL   string `json:"publicUrl"`
	AdminURL    string `json:"adminUrl"`
	InternalURL string `json:"internalUrl"`
	Enabled     bool   `json:"enabled"`
	Global      bool   `json:"global"`
}

// EndpointTemplateResponse describes an endpoint template.
type EndpointTemplateResponse struct {
	ID          string `json:"id"`
	Region      string `json:"region"`
	ServiceName string `json:"serviceName"`
	PublicURL   string `json:"publicUrl"`
	AdminURL    string `json:"adminUrl"`
	InternalURL string `json:"internalUrl"`
	Enabled     bool   `json:"enabled"`
	Global      bool   `json:"global"`
}

// EndpointCreateRequest maps a template onto a tenant.
type EndpointCreateRequest struct {
	TemplateID string `json:"templateId"`
}

// EndpointResponse describes a tenant endpoint mapping.
type EndpointResponse struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	TemplateID string `json:"templateId"`
}
