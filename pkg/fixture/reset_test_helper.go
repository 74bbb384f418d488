package fixture

// NOTE: This helper is intended ONLY for test code to allow resetting
// the singleton state between tests. It should not be used in production code.
import "sync"

// ResetForTest closes and forgets the shared context so the next Shared
// call initializes again.
func ResetForTest() {
	if shared != nil {
		_ = shared.Close()
	}
	shared = nil
	sharedErr = nil
	sharedOnce = sync.Once{}
}
