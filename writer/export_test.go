package writer

// SetLockCheck replaces the destination lock check until restore is called.
func SetLockCheck(fn func(path string) bool) (restore func()) {
	prev := isLocked
	isLocked = fn
	return func() { isLocked = prev }
}
