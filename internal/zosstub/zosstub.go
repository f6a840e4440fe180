// Package zosstub serves simulated z/OS Connect APIs for local runs
//
// The stub answers the phonebook, catalog, order log, and postal code
// routes the orchestrator calls, using seeded in-memory data. Catalog
// stock is decremented by placed orders and order log entries are kept
// until the process exits
package zosstub

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zosconnect/orchestrate/pkg/api"
	"github.com/zosconnect/orchestrate/pkg/log"
)

type (
	// Service holds the simulated mainframe data
	Service struct {
		contacts map[string]Contact
		places   map[string]Place
		items    map[string]*Item
		orders   []api.OrderRecord
		mu       sync.Mutex
	}

	phonebookReply struct {
		Output phonebookArea `json:"OUTPUT_AREA"`
	}

	phonebookArea struct {
		Message   string `json:"OUT_MESSAGE"`
		LastName  string `json:"OUT_LAST_NAME"`
		FirstName string `json:"OUT_FIRST_NAME"`
		Extension string `json:"OUT_EXTENSION"`
		ZipCode   string `json:"OUT_ZIP_CODE"`
	}

	catalogOrder struct {
		Program struct {
			Request struct {
				UserID     string `json:"CA_USERID"`
				ChargeDept string `json:"CA_CHARGE_DEPT"`
				ItemRef    string `json:"CA_ITEM_REF_NUMBER"`
				Quantity   int    `json:"CA_QUANTITY_REQ"`
			} `json:"CA_ORDER_REQUEST"`
		} `json:"DFH0XCP1"`
	}

	catalogReply struct {
		Program catalogArea `json:"DFH0XCP1"`
	}

	catalogArea struct {
		RequestID  string         `json:"CA_REQUEST_ID"`
		ReturnCode int            `json:"CA_RETURN_CODE"`
		Message    string         `json:"CA_RESPONSE_MESSAGE"`
		Inquire    *inquireSingle `json:"CA_INQUIRE_SINGLE,omitempty"`
	}

	inquireSingle struct {
		ItemRef string     `json:"CA_ITEM_REF_REQ"`
		Item    singleItem `json:"CA_SINGLE_ITEM"`
	}

	singleItem struct {
		Ref         string `json:"CA_SNGL_ITEM_REF"`
		Description string `json:"CA_SNGL_DESCRIPTION"`
		Department  int    `json:"CA_SNGL_DEPARTMENT"`
		Cost        string `json:"CA_SNGL_COST"`
		Stock       int    `json:"IN_SNGL_STOCK"`
		OnOrder     int    `json:"ON_SNGL_ORDER"`
	}

	postalReply struct {
		PostCode    string        `json:"post code"`
		Country     string        `json:"country"`
		CountryCode string        `json:"country abbreviation"`
		Places      []postalPlace `json:"places"`
	}

	postalPlace struct {
		Name      string `json:"place name"`
		Longitude string `json:"longitude"`
		State     string `json:"state"`
		StateCode string `json:"state abbreviation"`
		Latitude  string `json:"latitude"`
	}
)

// Messages returned by the simulated programs
const (
	EntryDisplayed    = "ENTRY WAS DISPLAYED"
	PersonNotFound    = "SPECIFIED PERSON WAS NOT FOUND"
	InsufficientStock = "INSUFFICIENT STOCK TO COMPLETE ORDER"
	UnknownItem       = "UNKNOWN ITEM REQUESTED"
	InquireCompleted  = "RETURNED ITEM: REF ="
)

const (
	returnOK       = 0
	returnNotFound = 20
	returnNoStock  = 97
)

// New creates a Service seeded with sample contacts, places, and items
func New() *Service {
	return &Service{
		contacts: seedContacts(),
		places:   seedPlaces(),
		items:    seedItems(),
	}
}

// SetupRoutes configures and returns the router answering the simulated
// upstream APIs
func (s *Service) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default().With(slog.String("component", "zosstub"))
		}),
	))

	router.GET("/phonebook/contact/:lname", s.getContact)
	router.POST("/product/catalog/order/mobile", s.placeOrder)
	router.GET("/product/catalog/mobile", s.inquireItem)
	router.POST("/db2/catalog/order", s.recordOrder)
	router.GET("/db2/catalog/order", s.listOrders)
	router.GET("/us/:zip", s.getPlace)

	return router
}

// Orders returns the order log entries recorded so far
func (s *Service) Orders() []api.OrderRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.OrderRecord(nil), s.orders...)
}

// Stock returns the remaining stock of an item
func (s *Service) Stock(ref string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[ref]
	if !ok {
		return 0, false
	}
	return it.Stock, true
}

func (s *Service) getContact(c *gin.Context) {
	name := strings.ToUpper(strings.TrimSpace(c.Param("lname")))

	s.mu.Lock()
	ct, ok := s.contacts[name]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusOK, phonebookReply{
			Output: phonebookArea{Message: PersonNotFound},
		})
		return
	}
	c.JSON(http.StatusOK, phonebookReply{
		Output: phonebookArea{
			Message:   EntryDisplayed,
			LastName:  ct.LastName,
			FirstName: ct.FirstName,
			Extension: ct.Extension,
			ZipCode:   ct.ZipCode,
		},
	})
}

func (s *Service) placeOrder(c *gin.Context) {
	var req catalogOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusBadRequest,
		})
		return
	}
	order := req.Program.Request

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[order.ItemRef]
	switch {
	case !ok:
		c.JSON(http.StatusOK, orderReply(returnNotFound, UnknownItem))
	case order.Quantity <= 0 || order.Quantity > it.Stock:
		slog.Info("Order exceeds stock",
			slog.String("item", order.ItemRef),
			slog.Int("qty", order.Quantity),
			slog.Int("stock", it.Stock))
		c.JSON(http.StatusOK, orderReply(returnNoStock, InsufficientStock))
	default:
		it.Stock -= order.Quantity
		slog.Info("Order placed",
			slog.String("item", order.ItemRef),
			slog.String("user", order.UserID),
			slog.Int("qty", order.Quantity),
			slog.Int("stock", it.Stock))
		c.JSON(http.StatusOK, orderReply(returnOK, api.OrderPlaced))
	}
}

func (s *Service) inquireItem(c *gin.Context) {
	ref := c.Query("itemID")

	s.mu.Lock()
	it, ok := s.items[ref]
	var item singleItem
	if ok {
		item = singleItem{
			Ref:         it.Ref,
			Description: it.Description,
			Department:  it.Department,
			Cost:        it.Cost,
			Stock:       it.Stock,
			OnOrder:     it.OnOrder,
		}
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusOK, orderReply(returnNotFound, UnknownItem))
		return
	}
	c.JSON(http.StatusOK, catalogReply{
		Program: catalogArea{
			RequestID:  "01INQS",
			ReturnCode: returnOK,
			Message:    InquireCompleted + " " + ref,
			Inquire: &inquireSingle{
				ItemRef: ref,
				Item:    item,
			},
		},
	})
}

func (s *Service) recordOrder(c *gin.Context) {
	var rec api.OrderRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusBadRequest,
		})
		return
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.orders = append(s.orders, rec)
	s.mu.Unlock()

	slog.Info("Order logged", log.OrderID(rec.ID))
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

func (s *Service) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.Orders())
}

func (s *Service) getPlace(c *gin.Context) {
	zip := c.Param("zip")

	s.mu.Lock()
	p, ok := s.places[zip]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, postalReply{
		PostCode:    zip,
		Country:     "United States",
		CountryCode: "US",
		Places: []postalPlace{{
			Name:      p.City,
			Longitude: p.Longitude,
			State:     p.State,
			StateCode: p.StateCode,
			Latitude:  p.Latitude,
		}},
	})
}

func orderReply(code int, msg string) catalogReply {
	return catalogReply{
		Program: catalogArea{
			RequestID:  "01ORDR",
			ReturnCode: code,
			Message:    msg,
		},
	}
}
