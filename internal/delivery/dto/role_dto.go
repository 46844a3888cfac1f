package dto

// Response DTOs

type RoleResponse struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Dashboard   string   `json:"dashboard"`
	Permissions []string `json:"permissions"`
}

type RoleListResponse struct {
	Roles []RoleResponse `json:"roles"`
	Total int            `json:"total"`
}
