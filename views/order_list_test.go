package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
	"github.com/kendall-kelly/tailoring-orders-portal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alwaysConfirm = ConfirmFunc(func(context.Context, models.Order) (bool, error) { return true, nil })
	neverConfirm  = ConfirmFunc(func(context.Context, models.Order) (bool, error) { return false, nil })
)

func newTestList(t *testing.T, api services.OrderAPI, ttl time.Duration) *OrderList {
	t.Helper()
	list := NewOrderList(ListOptions{
		API:            api,
		Token:          testToken,
		NoticeTTL:      ttl,
		FormCloseDelay: time.Hour,
	})
	t.Cleanup(list.Close)
	return list
}

func TestLoadReplacesOrders(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("o1"), deliveredFemaleOrder("o2"))
	list := newTestList(t, api, time.Second)

	require.NoError(t, list.Load(context.Background()))

	orders := list.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "o2", orders[1].ID)
	assert.Empty(t, list.ErrorMessage())
	assert.False(t, list.Loading())
	assert.Equal(t, []string{testToken}, api.Tokens)
}

func TestLoadFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &services.APIError{StatusCode: 200, Message: "X"}, "X"},
		{"no message", &services.APIError{StatusCode: 500}, MsgLoadFailed},
		{"network", &services.TransportError{Err: errors.New("dial tcp: refused")}, MsgNetworkError},
		{"missing token", services.ErrMissingToken, MsgSessionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := services.NewMockOrderAPI(pendingMaleOrder("o1"))
			api.ListErr = tt.err
			list := newTestList(t, api, time.Second)

			err := list.Load(context.Background())
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, list.Orders())
			assert.Equal(t, tt.want, list.ErrorMessage())
			assert.False(t, list.Loading())
		})
	}
}

func TestLoadKeepsPreviousOrdersOnFailure(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("o1"))
	list := newTestList(t, api, time.Second)
	require.NoError(t, list.Load(context.Background()))

	api.ListErr = &services.APIError{StatusCode: 502}
	require.Error(t, list.Load(context.Background()))
	assert.Len(t, list.Orders(), 1)
	assert.Equal(t, MsgLoadFailed, list.ErrorMessage())

	api.ListErr = nil
	require.NoError(t, list.Load(context.Background()))
	assert.Empty(t, list.ErrorMessage(), "a successful load clears the error")
}

func TestDeleteAfterConfirmation(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("abc"), pendingUnisexOrder("def"))
	list := newTestList(t, api, 50*time.Millisecond)
	require.NoError(t, list.Load(context.Background()))

	var asked []string
	confirm := ConfirmFunc(func(_ context.Context, o models.Order) (bool, error) {
		asked = append(asked, o.ID)
		return true, nil
	})

	deleted, err := list.Delete(context.Background(), "abc", confirm)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"abc"}, asked)
	assert.Equal(t, []string{"abc"}, api.DeletedIDs())

	orders := list.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "def", orders[0].ID)

	assert.Equal(t, MsgOrderDeleted, list.Notice())
	assert.Eventually(t, func() bool { return list.Notice() == "" }, time.Second, 10*time.Millisecond)
}

func TestDeleteDeclinedSendsNothing(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("abc"))
	list := newTestList(t, api, time.Second)
	require.NoError(t, list.Load(context.Background()))

	deleted, err := list.Delete(context.Background(), "abc", neverConfirm)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, api.DeletedIDs())
	assert.Len(t, list.Orders(), 1)
	assert.Empty(t, list.Notice())
}

func TestDeleteRefusesNonPending(t *testing.T) {
	api := services.NewMockOrderAPI(deliveredFemaleOrder("d1"))
	list := newTestList(t, api, time.Second)
	require.NoError(t, list.Load(context.Background()))

	deleted, err := list.Delete(context.Background(), "d1", alwaysConfirm)
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.False(t, deleted)
	assert.Empty(t, api.DeletedIDs())
	assert.Equal(t, MsgNotEditable, list.ErrorMessage())

	_, err = list.Delete(context.Background(), "missing", alwaysConfirm)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteFailureKeepsOrder(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("abc"))
	list := newTestList(t, api, time.Second)
	require.NoError(t, list.Load(context.Background()))

	api.DeleteErr = &services.APIError{StatusCode: 403, Message: "Not your order"}
	deleted, err := list.Delete(context.Background(), "abc", alwaysConfirm)
	require.Error(t, err)
	assert.False(t, deleted)
	assert.Len(t, list.Orders(), 1)
	assert.Equal(t, "Not your order", list.ErrorMessage())
	assert.Empty(t, list.Notice())
}

func TestRowActions(t *testing.T) {
	statuses := []models.Status{
		models.StatusPending, models.StatusConfirmed, models.StatusInProduction,
		models.StatusReadyForDelivery, models.StatusDelivered, models.StatusCancelled,
	}
	for _, s := range statuses {
		t.Run(string(s), func(t *testing.T) {
			actions := RowActions(models.Order{Status: s})
			if s == models.StatusPending {
				assert.Equal(t, []Action{ActionView, ActionUpdate, ActionDelete}, actions)
			} else {
				assert.Equal(t, []Action{ActionView}, actions)
			}
		})
	}
}

func TestSelectForEditRejectsNonPending(t *testing.T) {
	list := newTestList(t, services.NewMockOrderAPI(), time.Second)

	form, err := list.SelectForEdit(deliveredFemaleOrder("d1"))
	assert.ErrorIs(t, err, ErrNotEditable)
	assert.Nil(t, form)
	assert.Equal(t, ModeList, list.Snapshot().Mode)
}

func TestEditSubmitPatchesList(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("abc"), pendingUnisexOrder("def"))
	list := NewOrderList(ListOptions{
		API:            api,
		Token:          testToken,
		NoticeTTL:      time.Second,
		FormCloseDelay: 20 * time.Millisecond,
	})
	defer list.Close()
	require.NoError(t, list.Load(context.Background()))

	order, ok := list.Find("abc")
	require.True(t, ok)
	form, err := list.SelectForEdit(order)
	require.NoError(t, err)
	assert.Same(t, form, list.Form())
	assert.Equal(t, ModeEdit, list.Snapshot().Mode)

	require.NoError(t, form.SetField(FieldCustomerName, "Ada Lovelace"))
	_, err = form.Submit(context.Background())
	require.NoError(t, err)

	got, _ := list.Find("abc")
	assert.Equal(t, "Ada Lovelace", got.Customer.Name)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, MsgOrderUpdated, list.Notice())
	assert.Equal(t, []string{"abc", "def"}, []string{list.Orders()[0].ID, list.Orders()[1].ID}, "order position is unchanged")

	assert.Eventually(t, func() bool { return list.Form() == nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, ModeList, list.Snapshot().Mode)
}

func TestApplyUpdateUnknownOrder(t *testing.T) {
	list := newTestList(t, services.NewMockOrderAPI(pendingMaleOrder("abc")), time.Second)
	require.NoError(t, list.Load(context.Background()))

	list.ApplyUpdate(pendingMaleOrder("zzz"))
	assert.Len(t, list.Orders(), 1, "unknown ids are not inserted")
	assert.Equal(t, MsgOrderUpdated, list.Notice())
}

func TestSelectForViewReplacesForm(t *testing.T) {
	list := newTestList(t, services.NewMockOrderAPI(), time.Second)

	form, err := list.SelectForEdit(pendingMaleOrder("abc"))
	require.NoError(t, err)

	list.SelectForView(deliveredFemaleOrder("d1"))
	assert.True(t, form.Closed(), "switching selection closes the open form")
	assert.Nil(t, list.Form())

	view := list.Snapshot()
	assert.Equal(t, ModeView, view.Mode)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "d1", view.Selected.Row.ID)
	assert.Contains(t, view.Selected.Attributes, Attribute{"Neckline", "round"})

	list.ClearSelection()
	assert.Nil(t, list.Snapshot().Selected)
}

func TestCloseStopsTimers(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("abc"))
	list := NewOrderList(ListOptions{API: api, Token: testToken, NoticeTTL: time.Hour, FormCloseDelay: time.Hour})
	require.NoError(t, list.Load(context.Background()))

	form, err := list.SelectForEdit(pendingMaleOrder("abc"))
	require.NoError(t, err)
	_, err = form.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, MsgOrderUpdated, list.Notice())

	list.Close()
	assert.Empty(t, list.Notice())
	assert.True(t, form.Closed())

	list.ApplyUpdate(pendingMaleOrder("abc"))
	assert.Empty(t, list.Notice(), "no notices after teardown")
}

func TestSnapshotRows(t *testing.T) {
	api := services.NewMockOrderAPI(pendingMaleOrder("abc"), deliveredFemaleOrder("d1"))
	list := newTestList(t, api, time.Second)
	require.NoError(t, list.Load(context.Background()))

	view := list.Snapshot()
	require.Len(t, view.Rows, 2)

	pending := view.Rows[0]
	assert.Equal(t, "Ada", pending.CustomerName)
	assert.Equal(t, "May 1, 2024 at 10:00 AM", pending.OrderDate)
	assert.Equal(t, "Pending", pending.StatusLabel)
	assert.Equal(t, "bg-yellow-100 text-yellow-800", pending.StatusClass)
	assert.Equal(t, "Male", pending.GenderLabel)
	assert.Equal(t, "navy", pending.Color)
	assert.Equal(t, "#000080", pending.ColorSwatch)
	assert.True(t, pending.Has(ActionDelete))

	delivered := view.Rows[1]
	assert.Equal(t, "N/A", delivered.OrderDate)
	assert.Equal(t, "Delivered", delivered.StatusLabel)
	assert.Equal(t, "Female", delivered.GenderLabel)
	assert.Equal(t, models.DefaultSwatch, delivered.ColorSwatch)
	assert.False(t, delivered.Has(ActionUpdate))
}
