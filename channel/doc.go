// Package channel provides non-blocking broadcast distribution of items to
// multiple receivers.
//
// Channel implements a fan-out pattern where every item sent is delivered to
// every currently subscribed Receiver. Each receiver owns a bounded FIFO
// buffer; when a receiver falls behind, the oldest buffered item is evicted
// rather than blocking the sender.
//
// # Core Philosophy
//
// "Drop the oldest, never block the sender."
//
// The channel prioritizes sender progress over guaranteed delivery. This is
// intentional for event pipelines where acting on recent events is more
// valuable than working through a backlog of stale ones.
//
// # Basic Usage
//
//	ch := channel.New[string](64)
//	defer ch.Close()
//
//	rcv, err := ch.Subscribe()
//	if err != nil {
//	    return err
//	}
//
//	go func() {
//	    for {
//	        item, err := rcv.Next(ctx)
//	        if err != nil {
//	            return // channel.ErrClosed, *channel.LagError or ctx error
//	        }
//	        handle(item)
//	    }
//	}()
//
//	_ = ch.Send("hello")
//
// # Thread Safety
//
// All methods are safe for concurrent use. Multiple goroutines may call Send
// simultaneously, and Subscribe/Close can be called while sending.
//
// # Ordering
//
// Within one receiver, delivery order equals send order; eviction only ever
// removes the oldest buffered items. A receiver never observes items sent
// before it subscribed. No ordering relationship exists between distinct
// receivers' consumption rates.
package channel
