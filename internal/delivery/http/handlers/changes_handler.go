package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres/changefeed"
	"github.com/gin-gonic/gin"
)

const sseKeepAlive = 25 * time.Second

// orderTables - таблицы, изменения которых касаются одного заказа.
var orderTables = []struct {
	table  string
	column string
}{
	{"orders", "id"},
	{"order_specialists", "order_id"},
	{"payment_confirmations", "order_id"},
	{"customer_wallet_transactions", "order_id"},
}

// StreamOrderChanges streams "changed" cues for one order as server-sent
// events. The payload only names what changed; clients re-fetch the order.
func (h *Handler) StreamOrderChanges(c *gin.Context) {
	orderID := c.Param("id")
	if _, err := h.Orders.GetOrderByID(c.Request.Context(), orderID); err != nil {
		respondDomainError(c, err)
		return
	}

	events := make(chan changefeed.Event, 16)
	push := func(ev changefeed.Event) {
		select {
		case events <- ev:
		default:
			// клиент не успевает читать, сигнал "перечитай" уже в очереди
		}
	}
	for _, t := range orderTables {
		unsubscribe := h.Feed.Subscribe(t.table, changefeed.Filter{t.column: orderID}, push)
		defer unsubscribe()
	}

	c.Header("Content-Type", "text/event-stream;charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev := <-events:
			if ev.Resync {
				c.SSEvent("resync", gin.H{"order_id": orderID})
			} else {
				c.SSEvent("changed", gin.H{"order_id": orderID, "table": ev.Table, "op": ev.Op})
			}
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
