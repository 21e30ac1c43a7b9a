package api

import (
	"github.com/sportexhq/sportex/internal/model"
)

// UserResponse is the DTO for a user record returned to clients. It is the
// stored user minus the password hash; everything else on the record is
// safe to expose.
type UserResponse struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Role      model.Role    `json:"role"`
	AvatarURL string        `json:"avatar_url,omitempty"`
	Location  string        `json:"location,omitempty"`
	IsActive  bool          `json:"is_active"`
	Privacy   model.Privacy `json:"privacy,omitempty"`
}

// toUserResponse converts the internal user model into the public DTO.
// The password hash never leaves this function.
func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Location:  user.Location,
		IsActive:  user.IsActive,
		Privacy:   user.Privacy,
	}
}

// pagedResponse is the common shape for list endpoints with pagination.
type pagedResponse struct {
	Results  any `json:"results"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// paginate slices items for the requested page. Page numbers start at 1;
// out-of-range pages return an empty slice, not an error.
func paginate[T any](items []T, page, pageSize int) pagedResponse {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return pagedResponse{
		Results:  items[start:end],
		Total:    len(items),
		Page:     page,
		PageSize: pageSize,
	}
}
