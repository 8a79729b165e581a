package earlyaccess

// SuccessMessage is returned once an early access request passes validation
const SuccessMessage = "Thank you! We'll reach out when early access is available."

// EarlyAccessRequest represents an early access sign-up
type EarlyAccessRequest struct {
	Email string `json:"email" validate:"required,formemail"`
}
