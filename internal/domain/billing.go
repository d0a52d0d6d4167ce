package domain

// BillingDetails is transient checkout form state. It is never persisted by
// the core unless the customer sets SaveInfo, in which case the contact part
// rides along in the owner's persisted slice.
type BillingDetails struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName"`
	CompanyName   string `json:"companyName"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	Apartment     string `json:"apartment"`
	TownCity      string `json:"townCity" validate:"required"`
	PhoneNumber   string `json:"phoneNumber" validate:"required"`
	EmailAddress  string `json:"emailAddress" validate:"required,email"`
	SaveInfo      bool   `json:"saveInfo"`
}

// FullName joins first and last name for payment customer records.
func (b BillingDetails) FullName() string {
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}
