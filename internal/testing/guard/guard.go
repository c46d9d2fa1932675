// Package guard switches the process into test mode when imported, so
// binaries under test skip runtime startup.
package guard

import (
	"os"
	"sync"
)

// Env is the variable the runtime consults for test mode.
const Env = "ODYSSEY_TEST_MODE"

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv(Env) == "" {
			_ = os.Setenv(Env, "1")
		}
	})
}
