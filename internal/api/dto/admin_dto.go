package dto

// CreateAdminRequest payload for new admin accounts.
type CreateAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AdminRosterEntry is one roster row.
type AdminRosterEntry struct {
	User           UserResponse `json:"user"`
	RespondedCount int64        `json:"responded_count"`
}
