package views

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/services"
	"github.com/microcosm-cc/bluemonday"
)

var (
	// ErrUnknownField is returned by SetField for names the form does not have
	ErrUnknownField = errors.New("unknown form field")
	// ErrSubmitInProgress is returned while an update request is outstanding
	ErrSubmitInProgress = errors.New("order update already in progress")
	// ErrFormClosed is returned once the form has been closed
	ErrFormClosed = errors.New("order form is closed")
)

// ValidationError lists the fields that failed validation, keyed by name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid order form: " + strings.Join(names, ", ")
}

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

// sanitizeText strips markup from free text; entities are decoded again so
// plain characters such as '&' reach the order service unchanged.
func sanitizeText(raw string) string {
	sanitizerOnce.Do(func() {
		sanitizer = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(raw)))
}

// FormOptions configures an OrderForm
type FormOptions struct {
	API        services.OrderAPI
	Token      string
	CloseDelay time.Duration
	Catalog    *models.Catalog
	Logger     *slog.Logger
	// OnUpdated receives the order returned by the service after a
	// successful submit.
	OnUpdated func(models.Order)
	// OnClose runs when the form closes itself after a successful submit.
	OnClose func()
}

// OrderForm holds an editable copy of one order's fields
type OrderForm struct {
	mu sync.Mutex

	api        services.OrderAPI
	token      string
	closeDelay time.Duration
	logger     *slog.Logger
	onUpdated  func(models.Order)
	onClose    func()

	original     models.Order
	defs         []FieldDef
	byName       map[string]FieldDef
	values       map[string]string
	measurements map[string]string

	fieldErrors map[string]string
	message     string
	success     string
	submitting  bool
	closed      bool
	closeTimer  *time.Timer
}

var measurementParts = []string{"chest", "waist", "length", "shoulder"}

// NewOrderForm seeds a form from order. Every field gets a value, empty
// when the order does not carry it.
func NewOrderForm(order models.Order, opts FormOptions) *OrderForm {
	if opts.Catalog == nil {
		opts.Catalog = models.DefaultCatalog()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	f := &OrderForm{
		api:          opts.API,
		token:        opts.Token,
		closeDelay:   opts.CloseDelay,
		logger:       opts.Logger.With(slog.String("order_id", order.ID)),
		onUpdated:    opts.OnUpdated,
		onClose:      opts.OnClose,
		original:     order,
		defs:         FieldDefinitions(opts.Catalog),
		byName:       make(map[string]FieldDef),
		values:       make(map[string]string),
		measurements: make(map[string]string),
		fieldErrors:  make(map[string]string),
	}
	for _, def := range f.defs {
		f.byName[def.Name] = def
		if !strings.HasPrefix(def.Name, MeasurementsPrefix) {
			f.values[def.Name] = ""
		}
	}
	for _, part := range measurementParts {
		f.measurements[part] = ""
	}
	f.seed(order)
	return f
}

func (f *OrderForm) seed(o models.Order) {
	f.values[FieldGender] = string(o.Gender)
	f.values[FieldCustomerName] = o.Customer.Name
	f.values[FieldCustomerEmail] = o.Customer.Email
	f.values[FieldCustomerContact] = o.Customer.Contact
	f.values[FieldDeliveryLocation] = o.DeliveryLocation
	f.values[FieldDescription] = o.Description

	f.values[FieldFabricType] = o.Garment.FabricType
	f.values[FieldColor] = string(o.Garment.Color)
	f.values[FieldFit] = o.Garment.Fit
	f.values[FieldSizingType] = string(o.Garment.Sizing.Type)
	switch o.Garment.Sizing.Type {
	case models.SizingStandard:
		f.values[FieldStandardSize] = string(o.Garment.Sizing.Size)
	case models.SizingCustom:
		m := o.Garment.Sizing.Measurements
		f.measurements["chest"] = formatMeasurement(m.Chest)
		f.measurements["waist"] = formatMeasurement(m.Waist)
		f.measurements["length"] = formatMeasurement(m.Length)
		f.measurements["shoulder"] = formatMeasurement(m.Shoulder)
	}

	switch s := o.Style.(type) {
	case models.MaleStyle:
		f.values[FieldCollarStyle] = s.CollarStyle
		f.values[FieldCuffType] = s.CuffType
		f.values[FieldPocketStyle] = s.PocketStyle
		f.values[FieldTrouserFit] = s.TrouserFit
		f.values[FieldJacketStyle] = s.JacketStyle
		if s.ButtonCount > 0 {
			f.values[FieldButtonCount] = strconv.Itoa(s.ButtonCount)
		}
	case models.FemaleStyle:
		f.values[FieldSleeveStyle] = s.SleeveStyle
		f.values[FieldNeckline] = s.Neckline
		f.values[FieldHemline] = s.Hemline
		f.values[FieldDressLength] = s.DressLength
		f.values[FieldClosure] = s.Closure
	}
}

func formatMeasurement(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OrderID returns the identifier of the order being edited
func (f *OrderForm) OrderID() string {
	return f.original.ID
}

// SetField stores a value. Names under customMeasurements. go into the
// nested measurement group.
func (f *OrderForm) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	def, ok := f.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if def.FreeText {
		value = sanitizeText(value)
	} else {
		value = strings.TrimSpace(value)
	}

	if part, nested := strings.CutPrefix(name, MeasurementsPrefix); nested {
		f.measurements[part] = value
	} else {
		f.values[name] = value
	}
	delete(f.fieldErrors, name)
	return nil
}

// Value returns the current value of a field
func (f *OrderForm) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valueLocked(name)
}

func (f *OrderForm) valueLocked(name string) string {
	if part, nested := strings.CutPrefix(name, MeasurementsPrefix); nested {
		return f.measurements[part]
	}
	return f.values[name]
}

// Values returns every flat field value
func (f *OrderForm) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Measurements returns the nested custom measurement values
func (f *OrderForm) Measurements() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.measurements))
	for k, v := range f.measurements {
		out[k] = v
	}
	return out
}

// VisibleGroups returns the groups shown for the current gender and sizing
func (f *OrderForm) VisibleGroups() []Group {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visibleGroupsLocked()
}

func (f *OrderForm) visibleGroupsLocked() []Group {
	return VisibleGroups(models.ParseGender(f.values[FieldGender]), models.SizingType(f.values[FieldSizingType]))
}

// VisibleFields returns the definitions of the fields currently shown
func (f *OrderForm) VisibleFields() []FieldDef {
	f.mu.Lock()
	defer f.mu.Unlock()
	groups := f.visibleGroupsLocked()
	var out []FieldDef
	for _, def := range f.defs {
		if slices.Contains(groups, def.Group) {
			out = append(out, def)
		}
	}
	return out
}

// Validate checks the visible fields and returns their errors keyed by name
func (f *OrderForm) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	errs := f.validateLocked()
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}

func (f *OrderForm) validateLocked() map[string]string {
	groups := f.visibleGroupsLocked()
	errs := make(map[string]string)
	for _, def := range f.defs {
		if !slices.Contains(groups, def.Group) {
			continue
		}
		if msg := checkField(def, f.valueLocked(def.Name)); msg != "" {
			errs[def.Name] = msg
		}
	}
	f.fieldErrors = errs
	return errs
}

var validate = validator.New()

// checkField returns the message for the first rule value breaks, or ""
func checkField(def FieldDef, value string) string {
	if def.Rules != "" {
		if err := validate.Var(value, def.Rules); err != nil {
			return ruleMessage(err)
		}
	}
	if def.NumberRules == "" || value == "" {
		return ""
	}

	var err error
	if def.Integer {
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			return "Enter a whole number"
		}
		err = validate.Var(n, def.NumberRules)
	} else {
		n, convErr := strconv.ParseFloat(value, 64)
		if convErr != nil {
			return "Enter a number"
		}
		err = validate.Var(n, def.NumberRules)
	}
	if err != nil {
		return ruleMessage(err)
	}
	return ""
}

func ruleMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Enter a valid value"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "numeric":
		return "Enter a number"
	case "number":
		return "Enter a whole number"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "min", "gte":
		return "Must be at least " + fe.Param()
	case "oneof":
		return "Select a valid option"
	default:
		return "Enter a valid value"
	}
}

// Payload builds the update request from the current values. Identifier and
// coordinates come from the order the form was opened with.
func (f *OrderForm) Payload() models.OrderUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payloadLocked()
}

func (f *OrderForm) payloadLocked() models.OrderUpdate {
	v := f.values
	gender := models.ParseGender(v[FieldGender])

	u := models.OrderUpdate{
		ID:     f.original.ID,
		Gender: gender,
		Customer: models.Customer{
			Name:    v[FieldCustomerName],
			Email:   v[FieldCustomerEmail],
			Contact: v[FieldCustomerContact],
		},
		Location:         f.original.Location,
		DeliveryLocation: v[FieldDeliveryLocation],
		Description:      v[FieldDescription],
		Garment: models.Garment{
			FabricType: v[FieldFabricType],
			Color:      models.Color(v[FieldColor]),
			Fit:        v[FieldFit],
		},
	}

	switch models.SizingType(v[FieldSizingType]) {
	case models.SizingStandard:
		u.Garment.Sizing = models.StandardSizing(models.StandardSize(v[FieldStandardSize]))
	case models.SizingCustom:
		u.Garment.Sizing = models.CustomSizing(models.Measurements{
			Chest:    parseFloat(f.measurements["chest"]),
			Waist:    parseFloat(f.measurements["waist"]),
			Length:   parseFloat(f.measurements["length"]),
			Shoulder: parseFloat(f.measurements["shoulder"]),
		})
	}

	switch gender {
	case models.GenderMale:
		buttons, _ := strconv.Atoi(v[FieldButtonCount])
		u.Style = models.MaleStyle{
			CollarStyle: v[FieldCollarStyle],
			CuffType:    v[FieldCuffType],
			PocketStyle: v[FieldPocketStyle],
			TrouserFit:  v[FieldTrouserFit],
			JacketStyle: v[FieldJacketStyle],
			ButtonCount: buttons,
		}
	case models.GenderFemale:
		u.Style = models.FemaleStyle{
			SleeveStyle: v[FieldSleeveStyle],
			Neckline:    v[FieldNeckline],
			Hemline:     v[FieldHemline],
			DressLength: v[FieldDressLength],
			Closure:     v[FieldClosure],
		}
	case models.GenderUnisex:
		u.Style = models.UnisexStyle{}
	}
	return u
}

func parseFloat(s string) float64 {
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

// Submit validates the form and sends the full update. On success the
// OnUpdated callback receives the stored order and the form closes itself
// after the close delay.
func (f *OrderForm) Submit(ctx context.Context) (*models.Order, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFormClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if errs := f.validateLocked(); len(errs) > 0 {
		f.message = MsgInvalidForm
		fields := make(map[string]string, len(errs))
		for k, v := range errs {
			fields[k] = v
		}
		f.mu.Unlock()
		return nil, &ValidationError{Fields: fields}
	}
	update := f.payloadLocked()
	f.submitting = true
	f.message = ""
	f.success = ""
	f.mu.Unlock()

	updated, err := f.api.UpdateOrder(ctx, f.token, update)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.message = userMessage(err, MsgUpdateFailed)
		f.mu.Unlock()
		f.logger.Warn("order update failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("update order %s: %w", update.ID, err)
	}
	f.success = MsgOrderUpdated
	if !f.closed {
		f.closeTimer = time.AfterFunc(f.closeDelay, f.expire)
	}
	onUpdated := f.onUpdated
	f.mu.Unlock()

	f.logger.Info("order updated")
	if onUpdated != nil {
		onUpdated(*updated)
	}
	return updated, nil
}

// expire closes the form after a successful submit
func (f *OrderForm) expire() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.closeTimer = nil
	onClose := f.onClose
	f.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// Close cancels a pending self-close and marks the form closed without
// running OnClose.
func (f *OrderForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
	f.closed = true
}

// Closed reports whether the form has closed
func (f *OrderForm) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Submitting reports whether an update request is outstanding
func (f *OrderForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Message returns the current error message
func (f *OrderForm) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// FieldView is the render model of one form field
type FieldView struct {
	FieldDef
	Value string
	Error string
}

// FormView is the render model of the edit form
type FormView struct {
	OrderID    string
	Groups     []Group
	Fields     []FieldView
	Message    string
	Success    string
	Submitting bool
	Closed     bool
}

// Snapshot returns the visible fields with their values and errors
func (f *OrderForm) Snapshot() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	groups := f.visibleGroupsLocked()
	view := FormView{
		OrderID:    f.original.ID,
		Groups:     groups,
		Message:    f.message,
		Success:    f.success,
		Submitting: f.submitting,
		Closed:     f.closed,
	}
	for _, def := range f.defs {
		if !slices.Contains(groups, def.Group) {
			continue
		}
		view.Fields = append(view.Fields, FieldView{
			FieldDef: def,
			Value:    f.valueLocked(def.Name),
			Error:    f.fieldErrors[def.Name],
		})
	}
	return view
}

// HasGroup reports whether g is visible in the snapshot
func (v FormView) HasGroup(g Group) bool {
	return slices.Contains(v.Groups, g)
}
