package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/services"
)

var (
	// ErrOrderNotFound is returned for ids missing from the local cache
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotEditable is returned when updating or deleting a non-pending order
	ErrNotEditable = errors.New("order is not pending")
)

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, order models.Order) (bool, error)
}

// ConfirmFunc adapts a function into a Confirmer
type ConfirmFunc func(ctx context.Context, order models.Order) (bool, error)

// Confirm calls fn
func (fn ConfirmFunc) Confirm(ctx context.Context, order models.Order) (bool, error) {
	return fn(ctx, order)
}

// Mode is what the list modal is currently showing
type Mode string

const (
	ModeList Mode = "list"
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Action is a per-row control
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ListOptions configures an OrderList
type ListOptions struct {
	API            services.OrderAPI
	Token          string
	NoticeTTL      time.Duration
	FormCloseDelay time.Duration
	Location       *time.Location
	Catalog        *models.Catalog
	Logger         *slog.Logger
}

// OrderList fetches a user's orders and tracks the state of the orders modal
type OrderList struct {
	mu sync.Mutex

	opts   ListOptions
	logger *slog.Logger
	store  *services.OrderStore
	notice Notice

	loading  bool
	errMsg   string
	mode     Mode
	selected *models.Order
	form     *OrderForm
	closed   bool
}

// NewOrderList creates the controller for one opening of the orders modal
func NewOrderList(opts ListOptions) *OrderList {
	if opts.Catalog == nil {
		opts.Catalog = models.DefaultCatalog()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &OrderList{
		opts:   opts,
		logger: opts.Logger,
		store:  services.NewOrderStore(),
		mode:   ModeList,
	}
}

// Load fetches the user's orders, replacing the local cache on success
func (l *OrderList) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.errMsg = ""
	l.mu.Unlock()

	orders, err := l.opts.API.ListMyOrders(ctx, l.opts.Token)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.errMsg = userMessage(err, MsgLoadFailed)
		l.logger.Warn("failed to load orders", slog.String("error", err.Error()))
		return fmt.Errorf("load orders: %w", err)
	}
	l.store.Replace(orders)
	l.logger.Debug("orders loaded", slog.Int("count", len(orders)))
	return nil
}

// Find returns the cached order with the given id
func (l *OrderList) Find(id string) (models.Order, bool) {
	return l.store.Get(id)
}

// Orders returns the cached orders in display order
func (l *OrderList) Orders() []models.Order {
	return l.store.All()
}

// Delete removes an order after the user confirms. It reports whether the
// order was deleted; a declined confirmation sends no request.
func (l *OrderList) Delete(ctx context.Context, id string, confirmer Confirmer) (bool, error) {
	order, ok := l.store.Get(id)
	if !ok {
		l.setError(MsgOrderNotFound)
		return false, ErrOrderNotFound
	}
	if !order.Editable() {
		l.setError(MsgNotEditable)
		return false, ErrNotEditable
	}

	confirmed, err := confirmer.Confirm(ctx, order)
	if err != nil {
		return false, fmt.Errorf("confirm delete: %w", err)
	}
	if !confirmed {
		return false, nil
	}

	if err := l.opts.API.DeleteOrder(ctx, l.opts.Token, id); err != nil {
		l.setError(userMessage(err, MsgDeleteFailed))
		l.logger.Warn("failed to delete order", slog.String("order_id", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("delete order %s: %w", id, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Remove(id)
	l.errMsg = ""
	if l.selected != nil && l.selected.ID == id {
		l.clearSelectionLocked()
	}
	l.showNoticeLocked(MsgOrderDeleted)
	l.logger.Info("order deleted", slog.String("order_id", id))
	return true, nil
}

// SelectForView opens the detail view for order
func (l *OrderList) SelectForView(order models.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearSelectionLocked()
	l.selected = &order
	l.mode = ModeView
}

// SelectForEdit opens the edit form for order
func (l *OrderList) SelectForEdit(order models.Order) (*OrderForm, error) {
	if !order.Editable() {
		l.setError(MsgNotEditable)
		return nil, ErrNotEditable
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearSelectionLocked()

	var form *OrderForm
	form = NewOrderForm(order, FormOptions{
		API:        l.opts.API,
		Token:      l.opts.Token,
		CloseDelay: l.opts.FormCloseDelay,
		Catalog:    l.opts.Catalog,
		Logger:     l.logger,
		OnUpdated:  l.ApplyUpdate,
		OnClose:    func() { l.formClosed(form) },
	})
	l.selected = &order
	l.form = form
	l.mode = ModeEdit
	return form, nil
}

// Form returns the open edit form, if any
func (l *OrderList) Form() *OrderForm {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.form
}

// ClearSelection returns the modal to the order table
func (l *OrderList) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearSelectionLocked()
}

func (l *OrderList) clearSelectionLocked() {
	if l.form != nil {
		l.form.Close()
		l.form = nil
	}
	l.selected = nil
	l.mode = ModeList
}

func (l *OrderList) formClosed(form *OrderForm) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.form == form {
		l.form = nil
		l.selected = nil
		l.mode = ModeList
	}
}

// ApplyUpdate replaces the cached order with the same id and shows a notice
func (l *OrderList) ApplyUpdate(order models.Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.store.Patch(order) {
		l.logger.Warn("updated order is not cached", slog.String("order_id", order.ID))
	}
	if l.selected != nil && l.selected.ID == order.ID {
		updated := order
		l.selected = &updated
	}
	l.showNoticeLocked(MsgOrderUpdated)
}

func (l *OrderList) showNoticeLocked(text string) {
	if l.closed {
		return
	}
	l.notice.Show(text, l.opts.NoticeTTL)
}

func (l *OrderList) setError(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errMsg = msg
}

// Notice returns the transient success message, if still showing
func (l *OrderList) Notice() string {
	return l.notice.Text()
}

// ErrorMessage returns the current error message
func (l *OrderList) ErrorMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}

// Loading reports whether a fetch is outstanding
func (l *OrderList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Close tears the modal down, cancelling pending timers
func (l *OrderList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.clearSelectionLocked()
	l.notice.Stop()
}

// RowActions returns the controls offered for an order row
func RowActions(o models.Order) []Action {
	if o.Editable() {
		return []Action{ActionView, ActionUpdate, ActionDelete}
	}
	return []Action{ActionView}
}

// OrderRow is the render model of one table row
type OrderRow struct {
	ID           string
	CustomerName string
	OrderDate    string
	StatusLabel  string
	StatusClass  string
	GenderLabel  string
	Color        string
	ColorSwatch  string
	Actions      []Action
}

// Has reports whether the row offers action a
func (r OrderRow) Has(a Action) bool {
	return slices.Contains(r.Actions, a)
}

// Attribute is one labelled value in the order detail view
type Attribute struct {
	Label string
	Value string
}

// OrderDetail is the render model of the detail view
type OrderDetail struct {
	Row        OrderRow
	Order      models.Order
	Attributes []Attribute
}

// ListView is the render model of the orders modal
type ListView struct {
	Loading  bool
	Error    string
	Notice   string
	Mode     Mode
	Rows     []OrderRow
	Selected *OrderDetail
	Form     *FormView
}

// Snapshot returns the current state of the modal for rendering
func (l *OrderList) Snapshot() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()

	view := ListView{
		Loading: l.loading,
		Error:   l.errMsg,
		Notice:  l.notice.Text(),
		Mode:    l.mode,
	}
	for _, o := range l.store.All() {
		view.Rows = append(view.Rows, l.row(o))
	}
	if l.selected != nil {
		view.Selected = &OrderDetail{
			Row:        l.row(*l.selected),
			Order:      *l.selected,
			Attributes: l.attributes(*l.selected),
		}
	}
	if l.form != nil {
		fv := l.form.Snapshot()
		view.Form = &fv
	}
	return view
}

func (l *OrderList) row(o models.Order) OrderRow {
	label, class := models.StatusBadge(o.Status)
	return OrderRow{
		ID:           o.ID,
		CustomerName: o.Customer.Name,
		OrderDate:    models.FormatOrderDate(o.OrderDate, l.opts.Location),
		StatusLabel:  label,
		StatusClass:  class,
		GenderLabel:  models.GenderLabel(o.Gender),
		Color:        string(o.Garment.Color),
		ColorSwatch:  models.ColorSwatch(o.Garment.Color),
		Actions:      RowActions(o),
	}
}

func (l *OrderList) attributes(o models.Order) []Attribute {
	attrs := []Attribute{
		{"Customer Email", o.Customer.Email},
		{"Contact Number", o.Customer.Contact},
		{"Delivery Address", o.DeliveryLocation},
	}
	if o.Location != nil {
		attrs = append(attrs, Attribute{"Coordinates", fmt.Sprintf("%.5f, %.5f", o.Location.Latitude, o.Location.Longitude)})
	}
	if o.Description != "" {
		attrs = append(attrs, Attribute{"Description", o.Description})
	}

	g := o.Garment
	attrs = append(attrs,
		Attribute{"Fabric Type", g.FabricType},
		Attribute{"Color", string(g.Color)},
		Attribute{"Fit", g.Fit},
	)
	switch g.Sizing.Type {
	case models.SizingStandard:
		attrs = append(attrs, Attribute{"Standard Size", string(g.Sizing.Size)})
	case models.SizingCustom:
		m := g.Sizing.Measurements
		attrs = append(attrs, Attribute{"Measurements", fmt.Sprintf("chest %s, waist %s, length %s, shoulder %s",
			formatMeasurement(m.Chest), formatMeasurement(m.Waist), formatMeasurement(m.Length), formatMeasurement(m.Shoulder))})
	}

	switch s := o.Style.(type) {
	case models.MaleStyle:
		attrs = append(attrs,
			Attribute{"Collar Style", s.CollarStyle},
			Attribute{"Cuff Type", s.CuffType},
			Attribute{"Pocket Style", s.PocketStyle},
			Attribute{"Trouser Fit", s.TrouserFit},
			Attribute{"Jacket Style", s.JacketStyle},
			Attribute{"Button Count", fmt.Sprint(s.ButtonCount)},
		)
	case models.FemaleStyle:
		attrs = append(attrs,
			Attribute{"Sleeve Style", s.SleeveStyle},
			Attribute{"Neckline", s.Neckline},
			Attribute{"Hemline", s.Hemline},
			Attribute{"Dress/Skirt Length", s.DressLength},
			Attribute{"Closure", s.Closure},
		)
	}
	return attrs
}
