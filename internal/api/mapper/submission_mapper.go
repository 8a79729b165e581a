package mapper

import (
	"github.com/layer10security/formrelay/internal/api/dto/v1/contact"
	"github.com/layer10security/formrelay/internal/service"
)

// ContactRequestToDetails converts a validated contact request to the
// notification layer's representation
func ContactRequestToDetails(req *contact.ContactRequest) service.ContactDetails {
	return service.ContactDetails{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Subject: req.Subject,
		Message: req.Message,
	}
}
