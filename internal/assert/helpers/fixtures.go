package helpers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zosconnect/orchestrate/internal/config"
)

// Upstream paths served by the stub services
const (
	PhonebookPath = "/phonebook/contact/"
	CatalogOrder  = "/product/catalog/order/mobile"
	CatalogItem   = "/product/catalog/mobile"
	OrderLogPath  = "/db2/catalog/order"
)

// NewTestConfig points every upstream at u and enables debug logging
func NewTestConfig(u *Upstream) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Upstreams.PhonebookURL = u.URL
	cfg.Upstreams.PostalURL = u.URL
	cfg.Upstreams.CatalogURL = u.URL
	cfg.Upstreams.OrderLogURL = u.URL
	cfg.Upstreams.Timeout = 5 * time.Second
	return cfg
}

// PhonebookEntry renders an IMS phonebook response
func PhonebookEntry(last, first, ext, zip string) string {
	return fmt.Sprintf(`{"OUTPUT_AREA":{
		"OUT_MESSAGE":"ENTRY WAS DISPLAYED",
		"OUT_LAST_NAME":%q,"OUT_FIRST_NAME":%q,
		"OUT_EXTENSION":%q,"OUT_ZIP_CODE":%q}}`, last, first, ext, zip)
}

// PhonebookNotFound renders the phonebook response for a missing entry
const PhonebookNotFound = `{"OUTPUT_AREA":{
	"OUT_MESSAGE":"SPECIFIED PERSON WAS NOT FOUND",
	"OUT_LAST_NAME":"","OUT_FIRST_NAME":"",
	"OUT_EXTENSION":"","OUT_ZIP_CODE":""}}`

// PostalCode renders a postal-code service response
func PostalCode(zip, city, state, lat, long string) string {
	return fmt.Sprintf(`{"post code":%q,"country":"United States",
		"country abbreviation":"US","places":[{"place name":%q,
		"longitude":%q,"state":%q,"state abbreviation":"NY",
		"latitude":%q}]}`, zip, city, long, state, lat)
}

// CatalogOrderReply renders a CICS order response with msg
func CatalogOrderReply(msg string) string {
	return fmt.Sprintf(`{"DFH0XCP1":{"CA_REQUEST_ID":"01ORDR",
		"CA_RETURN_CODE":0,"CA_RESPONSE_MESSAGE":%q}}`, msg)
}

// CatalogItemReply renders a CICS single item inquiry response
func CatalogItemReply(item, desc string, stock int, cost string) string {
	return fmt.Sprintf(`{"DFH0XCP1":{"CA_INQUIRE_SINGLE":{
		"CA_ITEM_REF_REQ":%q,"CA_SINGLE_ITEM":{
		"CA_SNGL_ITEM_REF":%q,"CA_SNGL_DESCRIPTION":%q,
		"CA_SNGL_DEPARTMENT":10,"CA_SNGL_COST":%q,
		"IN_SNGL_STOCK":%d,"ON_SNGL_ORDER":0}}}}`,
		item, item, desc, cost, stock)
}

// ServeContact wires a found phonebook entry and its postal code
func ServeContact(u *Upstream, last, zip string) {
	u.Handle(http.MethodGet, PhonebookPath+last, http.StatusOK,
		PhonebookEntry(last, "JOHN", "01234567", zip))
	u.Handle(http.MethodGet, "/us/"+zip, http.StatusOK,
		PostalCode(zip, "New York City", "New York", "40.7484", "-73.9967"))
}

// ServeOrder wires a placed order, its item inquiry, and the order log
func ServeOrder(u *Upstream, item string) {
	u.Handle(http.MethodPost, CatalogOrder, http.StatusOK,
		CatalogOrderReply("ORDER SUCCESSFULLY PLACED"))
	u.Handle(http.MethodGet, CatalogItem, http.StatusOK,
		CatalogItemReply(item, "Ball Pens Black 24pk", 133, "002.90"))
	u.Handle(http.MethodPost, OrderLogPath, http.StatusCreated, `{}`)
}
