package changefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_DispatchRoutesByTableAndFilter(t *testing.T) {
	feed := NewFeed(nil)

	var orderEvents, walletEvents []Event
	feed.Subscribe("orders", Filter{"id": "o-1"}, func(ev Event) { orderEvents = append(orderEvents, ev) })
	feed.Subscribe("customer_wallet_transactions", Filter{"customer_id": "c-1"}, func(ev Event) { walletEvents = append(walletEvents, ev) })

	require.NoError(t, feed.Dispatch(`{"table":"orders","op":"UPDATE","id":"o-1"}`))
	require.NoError(t, feed.Dispatch(`{"table":"orders","op":"UPDATE","id":"o-2"}`))
	require.NoError(t, feed.Dispatch(`{"table":"customer_wallet_transactions","op":"INSERT","id":"t-1","order_id":"o-1","customer_id":"c-1"}`))

	require.Len(t, orderEvents, 1)
	assert.Equal(t, "UPDATE", orderEvents[0].Op)
	require.Len(t, walletEvents, 1)
	assert.Equal(t, "o-1", walletEvents[0].OrderID)
}

func TestFeed_DispatchRejectsBadPayload(t *testing.T) {
	feed := NewFeed(nil)
	assert.Error(t, feed.Dispatch("not json"))
	assert.Error(t, feed.Dispatch(`{"op":"INSERT"}`))
}

func TestFeed_UnsubscribeIsIdempotent(t *testing.T) {
	feed := NewFeed(nil)
	calls := 0
	unsubscribe := feed.Subscribe("orders", nil, func(Event) { calls++ })
	other := feed.Subscribe("orders", nil, func(Event) {})
	assert.Equal(t, 2, feed.SubscriberCount())

	feed.Publish(Event{Table: "orders", ID: "o-1"})
	unsubscribe()
	unsubscribe()
	feed.Publish(Event{Table: "orders", ID: "o-1"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, feed.SubscriberCount())
	other()
	assert.Zero(t, feed.SubscriberCount())
}

func TestFeed_ResyncReachesEverySubscriber(t *testing.T) {
	feed := NewFeed(nil)
	var got []Event
	feed.Subscribe("orders", Filter{"id": "o-1"}, func(ev Event) { got = append(got, ev) })
	feed.Subscribe("payment_confirmations", Filter{"order_id": "o-9"}, func(ev Event) { got = append(got, ev) })

	feed.Resync()

	require.Len(t, got, 2)
	for _, ev := range got {
		assert.True(t, ev.Resync)
	}
}

func TestEventField(t *testing.T) {
	ev := Event{ID: "a", OrderID: "b", CustomerID: "c"}
	assert.Equal(t, "a", ev.Field("id"))
	assert.Equal(t, "b", ev.Field("order_id"))
	assert.Equal(t, "c", ev.Field("customer_id"))
	assert.Empty(t, ev.Field("specialist_id"))
}
