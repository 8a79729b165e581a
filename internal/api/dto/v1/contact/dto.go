package contact

// SuccessMessage is returned once a contact submission passes validation
const SuccessMessage = "Thank you for your message. We'll get back to you soon!"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,formemail"`
	Company string `json:"company"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}
