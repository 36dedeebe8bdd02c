package assert

import "github.com/bloeys/nrender/logging"

// T panics with the formatted message if check is false.
// Only use for conditions valid input can never trigger.
func T(check bool, msg string, args ...any) {
	if !check {
		logging.ErrLog.Panicf("Assert failed: "+msg, args...)
	}
}
