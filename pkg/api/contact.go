package api

// ContactResponse is the phonebook entry merged with postal-code details. A
// lookup that finds nobody carries only Status
type ContactResponse struct {
	LastName  string `json:"lastname,omitempty"`
	FirstName string `json:"firstname,omitempty"`
	Extension string `json:"extension,omitempty"`
	ZipCode   string `json:"zipcode,omitempty"`
	Country   string `json:"country,omitempty"`
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
	State     string `json:"state,omitempty"`
	City      string `json:"city,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ContactNotFound is the status reported when the phonebook has no entry
const ContactNotFound = "Contact record not found"
