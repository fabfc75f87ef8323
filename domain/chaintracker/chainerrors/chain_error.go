package chainerrors

// These constants are used to identify a specific ChainError.
var (
	// ErrOutOfRange indicates that an index outside of [0, length) was
	// requested, after negative indices have been normalized.
	ErrOutOfRange = newChainError("ErrOutOfRange")

	// ErrUnknownHash indicates that a hash was never ingested. Lookups by hash
	// report absence with a boolean, this error is only used when absence must
	// be surfaced as a failure.
	ErrUnknownHash = newChainError("ErrUnknownHash")

	// ErrInconsistentDivergence indicates that two chains sharing the same
	// anchor have no common ancestor in the fork forest. This means the forest
	// is corrupted and nothing derived from it can be trusted.
	ErrInconsistentDivergence = newChainError("ErrInconsistentDivergence")

	// ErrFinalizationHookFailed indicates that the finalization hook rejected
	// the records of a lock. The lock is not applied.
	ErrFinalizationHookFailed = newChainError("ErrFinalizationHookFailed")

	// ErrInvalidLockedChain indicates that a locked chain given at
	// construction time isn't parent-chained to its anchor.
	ErrInvalidLockedChain = newChainError("ErrInvalidLockedChain")
)

// ChainError identifies an error raised by the chain tracker.
type ChainError struct {
	message string
	inner   error
}

func (e ChainError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap returns the error wrapped by e, if any
func (e ChainError) Unwrap() error {
	return e.inner
}

// Cause returns the error wrapped by e, if any
func (e ChainError) Cause() error {
	return e.inner
}

func newChainError(message string) ChainError {
	return ChainError{message: message, inner: nil}
}
