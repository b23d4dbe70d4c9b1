package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Name         string  `json:"name"          validate:"required,min=2,max=120"`
	Email        string  `json:"email"         validate:"required,email"`
	Password     string  `json:"password"      validate:"required,min=8,max=72"`
	BusinessName string  `json:"business_name" validate:"required,min=2,max=120"`
	// BusinessPrefix defaults to the first 3 letters of the business name.
	BusinessPrefix *string `json:"business_prefix" validate:"omitempty,alphanum,min=2,max=8"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OwnerResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	BusinessName   string  `json:"business_name"`
	BusinessPrefix string  `json:"business_prefix"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	Owner OwnerResponse `json:"owner"`
}
