package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ByProviderIDRequest binds the provider ID path parameter used by the
// availability and booking route groups.
type ByProviderIDRequest struct {
	ProviderID string `uri:"provider_id" binding:"required,uuid"`
}

// Validate performs custom validation for ByProviderIDRequest.
func (r *ByProviderIDRequest) Validate() error {
	return nil
}

// ListParams holds common pagination query parameters.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}
