package handler

import (
	"time"

	"github.com/consitech/event-manager/internal/core/domain"
	"github.com/consitech/event-manager/internal/core/ports"
)

type registerRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=50"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
}

func (r registerRequest) toInput() ports.NewUserInput {
	return ports.NewUserInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// loginRequest accepts either the username or the email as identifier.
type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type updateProfileRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=50"`
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	// Password is optional; an empty value keeps the current one.
	Password  string `json:"password,omitempty"   validate:"omitempty,min=6,max=72"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

func (r updateProfileRequest) toInput() ports.UpdateProfileInput {
	return ports.UpdateProfileInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
		AvatarURL: r.AvatarURL,
	}
}

type managerUpdateRequest struct {
	updateProfileRequest
	Role string `json:"role,omitempty" validate:"omitempty,oneof=USER EVENT_MANAGER"`
}

func (r managerUpdateRequest) toInput() ports.UpdateProfileInput {
	in := r.updateProfileRequest.toInput()
	if r.Role != "" {
		role := domain.Role(r.Role)
		in.Role = &role
	}
	return in
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER EVENT_MANAGER"`
}

type eventRequest struct {
	Name        string    `json:"name"        validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Date        time.Time `json:"date"        validate:"required"`
	Location    string    `json:"location"    validate:"required,max=200"`
	// Pointer so that an explicit 0 passes "required".
	AvailableTickets *int `json:"available_tickets" validate:"required,gte=0"`
}

func (r eventRequest) toInput() ports.EventInput {
	return ports.EventInput{
		Name:             r.Name,
		Description:      r.Description,
		Date:             r.Date,
		Location:         r.Location,
		AvailableTickets: *r.AvailableTickets,
	}
}
