package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tailoring-orders-portal/models"
)

// RecordedRequest is one call received by the fake order service
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

type cannedResponse struct {
	status int
	body   string
}

// FakeOrderService is a gin implementation of the external order service
type FakeOrderService struct {
	mu       sync.Mutex
	orders   []models.Order
	requests []RecordedRequest
	next     []cannedResponse

	Server *httptest.Server
}

// NewFakeOrderService starts a fake order service seeded with orders. It is
// closed when the test ends.
func NewFakeOrderService(t interface{ Cleanup(func()) }, orders ...models.Order) *FakeOrderService {
	gin.SetMode(gin.TestMode)

	f := &FakeOrderService{orders: append([]models.Order(nil), orders...)}

	router := gin.New()
	router.Use(f.record, f.canned, f.requireBearer)
	api := router.Group("/api/orders")
	{
		api.GET("/my-orders", f.listOrders)
		api.DELETE("/:id", f.deleteOrder)
		api.PUT("/:id", f.updateOrder)
	}

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake service
func (f *FakeOrderService) URL() string {
	return f.Server.URL
}

// RespondNext makes the next request receive a fixed status and raw body
func (f *FakeOrderService) RespondNext(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = append(f.next, cannedResponse{status: status, body: body})
}

// Requests returns the calls received so far
func (f *FakeOrderService) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// LastRequest returns the most recent call
func (f *FakeOrderService) LastRequest() (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

// Orders returns the orders currently held by the fake
func (f *FakeOrderService) Orders() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...)
}

func (f *FakeOrderService) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
		Body:          body,
	})
	f.mu.Unlock()
	c.Next()
}

func (f *FakeOrderService) canned(c *gin.Context) {
	f.mu.Lock()
	var resp *cannedResponse
	if len(f.next) > 0 {
		resp = &f.next[0]
		f.next = f.next[1:]
	}
	f.mu.Unlock()

	if resp != nil {
		c.Data(resp.status, "application/json; charset=utf-8", []byte(resp.body))
		c.Abort()
		return
	}
	c.Next()
}

func (f *FakeOrderService) requireBearer(c *gin.Context) {
	if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
		c.Abort()
		return
	}
	c.Next()
}

func (f *FakeOrderService) listOrders(c *gin.Context) {
	f.mu.Lock()
	orders := append([]models.Order{}, f.orders...)
	f.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (f *FakeOrderService) deleteOrder(c *gin.Context) {
	id := c.Param("id")

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
}

func (f *FakeOrderService) updateOrder(c *gin.Context) {
	id := c.Param("id")

	var incoming models.Order
	body, _ := io.ReadAll(c.Request.Body)
	if err := json.Unmarshal(body, &incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order data"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.orders {
		if o.ID != id {
			continue
		}
		incoming.ID = o.ID
		incoming.Status = o.Status
		incoming.OrderDate = o.OrderDate
		f.orders[i] = incoming
		c.JSON(http.StatusOK, gin.H{"success": true, "order": incoming})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
}
