package bus

import (
	"runtime/debug"
	"time"

	"github.com/dshills/enginebus/internal/message"
)

// result is the outcome of one listener invocation.
type result struct {
	err        error
	panicked   bool
	panicValue any
	stack      []byte
	duration   time.Duration
}

// invoke runs l with msg, recovering from panics and timing the call.
func invoke(l Listener, msg message.Message) (res result) {
	start := time.Now()

	defer func() {
		res.duration = time.Since(start)

		if r := recover(); r != nil {
			res.panicked = true
			res.panicValue = r
			res.stack = debug.Stack()
			res.err = panicAsError(r)
		}
	}()

	res.err = l.HandleMessage(msg)
	return res
}
