package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tailoring-orders-portal/middleware"
	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/views"
)

// actionField carries the submit button pressed on the edit form
const actionField = "_action"

const actionRefresh = "refresh"

// OrderController serves the orders modal pages
type OrderController struct {
	sessions *Sessions
	logger   *slog.Logger
}

// NewOrderController creates the controller over a session registry
func NewOrderController(sessions *Sessions, logger *slog.Logger) *OrderController {
	return &OrderController{sessions: sessions, logger: logger}
}

// page is the data handed to every order template
type page struct {
	views.ListView
	Confirm *views.OrderRow
}

// ShowOrders handles GET /orders - opens the modal and fetches the user's orders
func (oc *OrderController) ShowOrders(c *gin.Context) {
	userID, token, ok := oc.identity(c)
	if !ok {
		return
	}

	list := oc.sessions.Open(userID, token)
	if err := list.Load(c.Request.Context()); err != nil {
		oc.logger.Warn("orders modal opened with a failed fetch", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
	oc.render(c, http.StatusOK, "orders.html", list.Snapshot())
}

// CloseOrders handles POST /orders/close - tears the modal down
func (oc *OrderController) CloseOrders(c *gin.Context) {
	userID, token, ok := oc.identity(c)
	if !ok {
		return
	}
	oc.sessions.Close(userID, token)
	c.HTML(http.StatusOK, "closed.html", page{})
}

// ViewOrder handles GET /orders/:id - shows one order's details
func (oc *OrderController) ViewOrder(c *gin.Context) {
	list, ok := oc.session(c)
	if !ok {
		return
	}
	order, found := list.Find(c.Param("id"))
	if !found {
		oc.notFound(c, list)
		return
	}
	list.SelectForView(order)
	oc.render(c, http.StatusOK, "orders.html", list.Snapshot())
}

// EditOrder handles GET /orders/:id/edit - opens the edit form
func (oc *OrderController) EditOrder(c *gin.Context) {
	list, ok := oc.session(c)
	if !ok {
		return
	}
	order, found := list.Find(c.Param("id"))
	if !found {
		oc.notFound(c, list)
		return
	}
	if _, err := list.SelectForEdit(order); err != nil {
		oc.render(c, http.StatusConflict, "orders.html", list.Snapshot())
		return
	}
	oc.render(c, http.StatusOK, "orders.html", list.Snapshot())
}

// SubmitOrder handles POST /orders/:id/edit - applies the posted fields and,
// unless only a refresh was asked for, sends the update
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	list, ok := oc.session(c)
	if !ok {
		return
	}
	id := c.Param("id")

	form := list.Form()
	if form == nil || form.OrderID() != id || form.Closed() {
		order, found := list.Find(id)
		if !found {
			oc.notFound(c, list)
			return
		}
		var err error
		if form, err = list.SelectForEdit(order); err != nil {
			oc.render(c, http.StatusConflict, "orders.html", list.Snapshot())
			return
		}
	}

	if err := c.Request.ParseForm(); err != nil {
		oc.badRequest(c, list, "Invalid form data")
		return
	}
	names := make([]string, 0, len(c.Request.PostForm))
	for name := range c.Request.PostForm {
		if name != actionField {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := form.SetField(name, c.Request.PostForm.Get(name)); err != nil {
			oc.badRequest(c, list, "Unknown field: "+name)
			return
		}
	}

	if c.PostForm(actionField) == actionRefresh {
		oc.render(c, http.StatusOK, "orders.html", list.Snapshot())
		return
	}

	_, err := form.Submit(c.Request.Context())
	oc.render(c, submitStatus(err), "orders.html", list.Snapshot())
}

func submitStatus(err error) int {
	var verr *views.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, views.ErrSubmitInProgress), errors.Is(err, views.ErrFormClosed):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// ConfirmDelete handles GET /orders/:id/delete - asks before deleting
func (oc *OrderController) ConfirmDelete(c *gin.Context) {
	list, ok := oc.session(c)
	if !ok {
		return
	}
	order, found := list.Find(c.Param("id"))
	if !found {
		oc.notFound(c, list)
		return
	}

	view := list.Snapshot()
	if !order.Editable() {
		view.Error = views.MsgNotEditable
		oc.render(c, http.StatusConflict, "orders.html", view)
		return
	}
	row := rowFor(view, order.ID)
	c.HTML(http.StatusOK, "delete.html", page{ListView: view, Confirm: row})
}

// DeleteOrder handles POST /orders/:id/delete - the posted form is the
// user's answer to the confirmation page
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	list, ok := oc.session(c)
	if !ok {
		return
	}
	confirmed := c.PostForm("confirm") == "yes"
	confirm := views.ConfirmFunc(func(context.Context, models.Order) (bool, error) {
		return confirmed, nil
	})

	_, err := list.Delete(c.Request.Context(), c.Param("id"), confirm)
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, views.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, views.ErrNotEditable):
		status = http.StatusConflict
	default:
		status = http.StatusBadGateway
	}
	oc.render(c, status, "orders.html", list.Snapshot())
}

// identity reads the caller from the auth middleware, answering 401 when
// it is missing
func (oc *OrderController) identity(c *gin.Context) (string, string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return "", "", false
	}
	token, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return "", "", false
	}
	return userID, token, true
}

// session returns the caller's open list, opening and loading one when the
// modal was not opened first
func (oc *OrderController) session(c *gin.Context) (*views.OrderList, bool) {
	userID, token, ok := oc.identity(c)
	if !ok {
		return nil, false
	}
	if list, found := oc.sessions.Get(userID, token); found {
		return list, true
	}
	list := oc.sessions.Open(userID, token)
	if err := list.Load(c.Request.Context()); err != nil {
		oc.logger.Warn("failed to load orders for a new session", slog.String("user_id", userID), slog.String("error", err.Error()))
	}
	return list, true
}

func (oc *OrderController) render(c *gin.Context, status int, name string, view views.ListView) {
	c.HTML(status, name, page{ListView: view})
}

func (oc *OrderController) notFound(c *gin.Context, list *views.OrderList) {
	view := list.Snapshot()
	view.Error = views.MsgOrderNotFound
	oc.render(c, http.StatusNotFound, "orders.html", view)
}

func (oc *OrderController) badRequest(c *gin.Context, list *views.OrderList, message string) {
	view := list.Snapshot()
	view.Error = message
	oc.render(c, http.StatusBadRequest, "orders.html", view)
}

func rowFor(view views.ListView, id string) *views.OrderRow {
	for i := range view.Rows {
		if view.Rows[i].ID == id {
			return &view.Rows[i]
		}
	}
	return nil
}
