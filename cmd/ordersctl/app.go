package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/views"
)

const (
	menuRefresh = "Refresh"
	menuQuit    = "Quit"
	menuBack    = "Back"
)

var actionLabels = map[views.Action]string{
	views.ActionView:   "View Details",
	views.ActionUpdate: "Update",
	views.ActionDelete: "Delete",
}

// app is one interactive session over a user's orders
type app struct {
	list   *views.OrderList
	driver PromptDriver
	out    io.Writer
}

func newApp(list *views.OrderList, driver PromptDriver, out io.Writer) *app {
	return &app{list: list, driver: driver, out: out}
}

// Run loads the orders and loops until the user quits. Aborting a prompt
// ends the session without an error.
func (a *app) Run(ctx context.Context) error {
	defer a.list.Close()

	if err := a.load(ctx); err != nil {
		return err
	}
	for {
		err := a.step(ctx)
		if errors.Is(err, errQuit) || errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("quit")

// load fetches the orders. A failed fetch is not fatal; its message is
// shown above the next menu.
func (a *app) load(ctx context.Context) error {
	if err := a.list.Load(ctx); err != nil && errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *app) step(ctx context.Context) error {
	view := a.list.Snapshot()
	a.printTable(view)
	if view.Notice != "" {
		if err := a.driver.Info(ctx, view.Notice); err != nil {
			return err
		}
	}
	if err := a.showErrors(ctx); err != nil {
		return err
	}

	options := make([]string, 0, len(view.Rows)+2)
	for _, row := range view.Rows {
		options = append(options, fmt.Sprintf("%s  %s (%s)", row.ID, row.CustomerName, row.StatusLabel))
	}
	options = append(options, menuRefresh, menuQuit)

	idx, err := a.driver.Select(ctx, SelectConfig{Message: "Select an order", Options: options, DefaultIndex: -1, PageSize: 15})
	if err != nil {
		return err
	}
	switch {
	case idx < 0:
		return nil
	case options[idx] == menuQuit:
		return errQuit
	case options[idx] == menuRefresh:
		return a.load(ctx)
	}
	return a.orderMenu(ctx, view.Rows[idx])
}

func (a *app) orderMenu(ctx context.Context, row views.OrderRow) error {
	order, ok := a.list.Find(row.ID)
	if !ok {
		return a.driver.Info(ctx, views.MsgOrderNotFound)
	}

	options := make([]string, 0, len(row.Actions)+1)
	for _, action := range row.Actions {
		options = append(options, actionLabels[action])
	}
	options = append(options, menuBack)

	idx, err := a.driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("Choose an action for order %s", row.ID),
		Options:      options,
		DefaultIndex: 0,
	})
	if err != nil || idx < 0 || idx >= len(row.Actions) {
		return err
	}

	switch row.Actions[idx] {
	case views.ActionView:
		return a.showOrder(ctx, order)
	case views.ActionDelete:
		return a.deleteOrder(ctx, order)
	case views.ActionUpdate:
		return a.editOrder(ctx, order)
	}
	return nil
}

func (a *app) showOrder(ctx context.Context, order models.Order) error {
	a.list.SelectForView(order)
	defer a.list.ClearSelection()

	selected := a.list.Snapshot().Selected
	if selected == nil {
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Order\t%s\n", selected.Row.ID)
	fmt.Fprintf(w, "Status\t%s\n", selected.Row.StatusLabel)
	fmt.Fprintf(w, "Date\t%s\n", selected.Row.OrderDate)
	fmt.Fprintf(w, "Customer\t%s\n", selected.Row.CustomerName)
	fmt.Fprintf(w, "Gender\t%s\n", selected.Row.GenderLabel)
	for _, attr := range selected.Attributes {
		fmt.Fprintf(w, "%s\t%s\n", attr.Label, attr.Value)
	}
	return w.Flush()
}

func (a *app) deleteOrder(ctx context.Context, order models.Order) error {
	confirm := views.ConfirmFunc(func(ctx context.Context, o models.Order) (bool, error) {
		return a.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Delete order %s for %s? This cannot be undone.", o.ID, o.Customer.Name),
		})
	})

	_, err := a.list.Delete(ctx, order.ID, confirm)
	if errors.Is(err, ErrAborted) {
		return err
	}
	// service failures are reported through the list's error message
	return nil
}

func (a *app) editOrder(ctx context.Context, order models.Order) error {
	form, err := a.list.SelectForEdit(order)
	if err != nil {
		// shown as the list error on the next step
		return nil
	}
	defer a.list.ClearSelection()

	var only map[string]bool
	for {
		if err := a.editFields(ctx, form, only); err != nil {
			return err
		}

		_, err := form.Submit(ctx)
		if err == nil {
			return nil
		}

		var verr *views.ValidationError
		if errors.As(err, &verr) {
			if err := a.driver.Info(ctx, describeErrors(form, verr)); err != nil {
				return err
			}
			only = make(map[string]bool, len(verr.Fields))
			for name := range verr.Fields {
				only[name] = true
			}
		} else if err := a.driver.Info(ctx, form.Message()); err != nil {
			return err
		}

		retry, err := a.driver.Confirm(ctx, ConfirmConfig{Message: "Edit the order again?", Default: true})
		if err != nil || !retry {
			return err
		}
	}
}

// editFields prompts for every visible field, or only the named ones. The
// visible set is re-read after each answer so a new gender or sizing type
// brings its own fields into the walk.
func (a *app) editFields(ctx context.Context, form *views.OrderForm, only map[string]bool) error {
	for i := 0; ; i++ {
		fields := form.VisibleFields()
		if i >= len(fields) {
			return nil
		}
		def := fields[i]
		if only != nil && !only[def.Name] {
			continue
		}

		value, err := a.ask(ctx, def, form.Value(def.Name))
		if err != nil {
			return err
		}
		if err := form.SetField(def.Name, value); err != nil {
			return err
		}
	}
}

func (a *app) ask(ctx context.Context, def views.FieldDef, current string) (string, error) {
	message := def.Label
	if def.Required {
		message += " *"
	}

	switch def.Kind {
	case views.KindSelect:
		options := def.Options
		if current != "" && !slices.Contains(options, current) {
			options = append(slices.Clone(options), current)
		}
		idx, err := a.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, current),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 {
			return current, nil
		}
		return options[idx], nil
	case views.KindTextArea:
		return a.driver.TextArea(ctx, InputConfig{Message: message, Default: current})
	default:
		return a.driver.Input(ctx, InputConfig{Message: message, Default: current})
	}
}

func (a *app) showErrors(ctx context.Context) error {
	if msg := a.list.ErrorMessage(); msg != "" {
		return a.driver.Info(ctx, "Error: "+msg)
	}
	return nil
}

func (a *app) printTable(view views.ListView) {
	if len(view.Rows) == 0 {
		fmt.Fprintln(a.out, "You have no orders yet.")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCUSTOMER\tDATE\tSTATUS\tGENDER\tCOLOR")
	for _, row := range view.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.CustomerName, row.OrderDate, row.StatusLabel, row.GenderLabel, row.Color)
	}
	w.Flush()
}

func describeErrors(form *views.OrderForm, verr *views.ValidationError) string {
	labels := make(map[string]string)
	for _, def := range form.VisibleFields() {
		labels[def.Name] = def.Label
	}
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(views.MsgInvalidForm)
	for _, name := range names {
		label := labels[name]
		if label == "" {
			label = name
		}
		fmt.Fprintf(&b, "\n  %s: %s", label, verr.Fields[name])
	}
	return b.String()
}
