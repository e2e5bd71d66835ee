package acceptance

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tailoring-orders-portal/config"
	"github.com/kendall-kelly/tailoring-orders-portal/controllers"
	"github.com/kendall-kelly/tailoring-orders-portal/middleware"
	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/services"
	"github.com/kendall-kelly/tailoring-orders-portal/templates"
	"github.com/kendall-kelly/tailoring-orders-portal/tests/testutil"
	"github.com/kendall-kelly/tailoring-orders-portal/views"
	"github.com/stretchr/testify/suite"
)

// PortalAcceptanceTestSuite runs the portal against a fake order service and
// drives it the way a browser would
type PortalAcceptanceTestSuite struct {
	suite.Suite
	service  *testutil.FakeOrderService
	sessions *controllers.Sessions
	server   *httptest.Server
	client   *http.Client
	cfg      *config.Config
}

func pendingFemaleOrder(id string) models.Order {
	return models.Order{
		ID:               id,
		Status:           models.StatusPending,
		Gender:           models.GenderFemale,
		OrderDate:        time.Date(2024, time.June, 3, 15, 30, 0, 0, time.UTC),
		Customer:         models.Customer{Name: "Lin", Email: "lin@example.com", Contact: "555-0199"},
		DeliveryLocation: "4 Lake Road",
		Garment: models.Garment{
			FabricType: "silk",
			Color:      "maroon",
			Fit:        "regular",
			Sizing:     models.StandardSizing(models.SizeS),
		},
		Style: models.FemaleStyle{SleeveStyle: "long", Neckline: "v-neck", Hemline: "flared", DressLength: "midi", Closure: "zipper"},
	}
}

func readyOrder(id string) models.Order {
	o := pendingFemaleOrder(id)
	o.Status = models.StatusReadyForDelivery
	return o
}

// SetupTest starts a fresh fake service and portal for every test
func (suite *PortalAcceptanceTestSuite) SetupTest() {
	testutil.RequireTestEnvironment(suite.T())
	gin.SetMode(gin.TestMode)

	suite.service = testutil.NewFakeOrderService(suite.T(), pendingFemaleOrder("o-1"), readyOrder("o-2"))
	suite.cfg = &config.Config{
		OrderAPIURL:     suite.service.URL(),
		GoEnv:           "test",
		RequestTimeout:  2 * time.Second,
		NoticeTTL:       time.Minute,
		FormCloseDelay:  time.Minute,
		DisplayTimezone: "UTC",
	}

	suite.server = httptest.NewServer(suite.createRouter())
	suite.T().Cleanup(suite.server.Close)

	jar, err := cookiejar.New(nil)
	suite.Require().NoError(err)
	serverURL, _ := url.Parse(suite.server.URL)
	jar.SetCookies(serverURL, []*http.Cookie{{Name: middleware.TokenCookie, Value: testutil.NewTestToken("auth0|lin"), Path: "/"}})
	suite.client = &http.Client{Jar: jar}
}

// TearDownTest tears down every open orders modal
func (suite *PortalAcceptanceTestSuite) TearDownTest() {
	suite.sessions.CloseAll()
}

// createRouter creates the full portal router for acceptance testing
func (suite *PortalAcceptanceTestSuite) createRouter() *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	api, err := services.NewHTTPOrderAPI(suite.cfg.OrderAPIURL, suite.cfg.RequestTimeout, logger)
	suite.Require().NoError(err)
	suite.sessions = controllers.NewSessions(views.ListOptions{
		API:            api,
		NoticeTTL:      suite.cfg.NoticeTTL,
		FormCloseDelay: suite.cfg.FormCloseDelay,
		Location:       suite.cfg.Location(),
		Logger:         logger,
	}, suite.cfg.SessionIdleTimeout)

	tmpl, err := templates.Parse()
	suite.Require().NoError(err)
	auth, err := middleware.Authenticate(suite.cfg, logger)
	suite.Require().NoError(err)

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	oc := controllers.NewOrderController(suite.sessions, logger)
	orders := router.Group("/orders", auth)
	{
		orders.GET("", oc.ShowOrders)
		orders.POST("/close", oc.CloseOrders)
		orders.GET("/:id", oc.ViewOrder)
		orders.GET("/:id/edit", oc.EditOrder)
		orders.POST("/:id/edit", oc.SubmitOrder)
		orders.GET("/:id/delete", oc.ConfirmDelete)
		orders.POST("/:id/delete", oc.DeleteOrder)
	}
	return router
}

func (suite *PortalAcceptanceTestSuite) get(path string) (int, string) {
	resp, err := suite.client.Get(suite.server.URL + path)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func (suite *PortalAcceptanceTestSuite) post(path string, form url.Values) (int, string) {
	resp, err := suite.client.PostForm(suite.server.URL+path, form)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp.StatusCode, string(body)
}

func (suite *PortalAcceptanceTestSuite) TestAnonymousVisitorIsRejected() {
	resp, err := http.Get(suite.server.URL + "/orders")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	suite.Empty(suite.service.Requests())
}

func (suite *PortalAcceptanceTestSuite) TestBrowseOrders() {
	status, body := suite.get("/orders")

	suite.Equal(http.StatusOK, status)
	suite.Contains(body, "June 3, 2024 at 3:30 PM")
	suite.Contains(body, "Ready for Delivery")
	suite.Contains(body, "bg-indigo-100 text-indigo-800")
	suite.Contains(body, `href="/orders/o-1/delete"`)
	suite.NotContains(body, `href="/orders/o-2/delete"`)

	req, _ := suite.service.LastRequest()
	suite.True(strings.HasPrefix(req.Authorization, "Bearer "), "the cookie token is forwarded as a bearer token")

	status, body = suite.get("/orders/o-2")
	suite.Equal(http.StatusOK, status)
	suite.Contains(body, "Dress/Skirt Length")
	suite.Len(suite.service.Requests(), 1, "viewing details uses the cached list")
}

func (suite *PortalAcceptanceTestSuite) TestEditOrder() {
	suite.get("/orders")

	status, body := suite.get("/orders/o-1/edit")
	suite.Require().Equal(http.StatusOK, status)
	suite.Contains(body, `data-group="female"`)

	status, body = suite.post("/orders/o-1/edit", url.Values{"gender": {"unisex"}, "sizingType": {"custom"}, "_action": {"refresh"}})
	suite.Equal(http.StatusOK, status)
	suite.Contains(body, `data-group="measurements"`)
	suite.NotContains(body, `data-group="female"`)

	status, body = suite.post("/orders/o-1/edit", url.Values{
		"customMeasurements.chest":    {"38"},
		"customMeasurements.waist":    {"30"},
		"customMeasurements.length":   {"41.5"},
		"customMeasurements.shoulder": {"16"},
		"description":                 {"<em>Summer</em> dress"},
		"_action":                     {"save"},
	})
	suite.Equal(http.StatusOK, status)
	suite.Contains(body, views.MsgOrderUpdated)

	stored := suite.service.Orders()[0]
	suite.Equal(models.GenderUnisex, stored.Gender)
	suite.Equal(models.UnisexStyle{}, stored.Style)
	suite.Equal(models.CustomSizing(models.Measurements{Chest: 38, Waist: 30, Length: 41.5, Shoulder: 16}), stored.Garment.Sizing)
	suite.Equal("Summer dress", stored.Description)
	suite.Equal(models.StatusPending, stored.Status)
}

func (suite *PortalAcceptanceTestSuite) TestDeleteOrder() {
	suite.get("/orders")

	status, body := suite.get("/orders/o-1/delete")
	suite.Require().Equal(http.StatusOK, status)
	suite.Contains(body, `id="confirm-delete"`)
	suite.Len(suite.service.Orders(), 2)

	status, _ = suite.post("/orders/o-1/delete", url.Values{"confirm": {"no"}})
	suite.Equal(http.StatusOK, status)
	suite.Len(suite.service.Orders(), 2, "declining keeps the order")

	status, body = suite.post("/orders/o-1/delete", url.Values{"confirm": {"yes"}})
	suite.Equal(http.StatusOK, status)
	suite.Contains(body, views.MsgOrderDeleted)
	suite.NotContains(body, `data-order-id="o-1"`)
	suite.Len(suite.service.Orders(), 1)

	status, _ = suite.post("/orders/o-2/delete", url.Values{"confirm": {"yes"}})
	suite.Equal(http.StatusConflict, status)
	suite.Len(suite.service.Orders(), 1)
}

func (suite *PortalAcceptanceTestSuite) TestServiceFailureIsShown() {
	suite.service.RespondNext(http.StatusInternalServerError, `{"success":false}`)

	status, body := suite.get("/orders")

	suite.Equal(http.StatusOK, status)
	suite.Contains(body, views.MsgLoadFailed)
}

func (suite *PortalAcceptanceTestSuite) TestCloseOrders() {
	suite.get("/orders")
	suite.Equal(1, suite.sessions.Len())

	status, _ := suite.post("/orders/close", url.Values{})

	suite.Equal(http.StatusOK, status)
	suite.Equal(0, suite.sessions.Len())
}

func TestPortalAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(PortalAcceptanceTestSuite))
}
