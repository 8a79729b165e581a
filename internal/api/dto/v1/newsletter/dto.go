package newsletter

// SuccessMessage is returned once a subscription passes validation
const SuccessMessage = "Thanks for subscribing! Check your email to confirm."

// MaxEmailLength bounds the subscribed address
const MaxEmailLength = 254

// SubscribeRequest represents a newsletter subscription. The address is
// normalized before its format is checked.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}
