package models

// TrackpointFilter represents query parameters for listing trackpoints
type TrackpointFilter struct {
	SkipEmpty bool `form:"skip_empty"` // drop samples with every channel absent
}

// ActivityFilter represents query parameters for listing activities
type ActivityFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// ActivitiesResponse represents a paginated response of activities
type ActivitiesResponse struct {
	Data       []Activity `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
