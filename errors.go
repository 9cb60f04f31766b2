package clay

import "fmt"

// ErrInvalidParameters is returned when code parameters, chunk indices, or
// the available/erasures arguments to Decode are malformed.
type ErrInvalidParameters struct {
	Msg string
}

func (e *ErrInvalidParameters) Error() string {
	return fmt.Sprintf("clay: invalid parameters: %s", e.Msg)
}

// ErrOverflow is returned when deriving α = q^t, or a repair stride
// q^(t-1-y), would overflow the platform integer.
type ErrOverflow struct {
	Msg string
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("clay: arithmetic overflow: %s", e.Msg)
}

// ErrInsufficientHelpers is returned when repair planning cannot assemble d
// helpers from the caller-supplied available set.
type ErrInsufficientHelpers struct {
	Needed, Provided int
}

func (e *ErrInsufficientHelpers) Error() string {
	return fmt.Sprintf("clay: insufficient helpers: need %d, got %d", e.Needed, e.Provided)
}

// ErrInvalidChunkSize is returned when a chunk size is zero or not a
// multiple of α.
type ErrInvalidChunkSize struct {
	Expected, Actual int
}

func (e *ErrInvalidChunkSize) Error() string {
	return fmt.Sprintf("clay: invalid chunk size: expected a multiple of %d, got %d", e.Expected, e.Actual)
}

// ErrInsufficientHelperData is returned when a helper's buffer length does
// not equal β·S.
type ErrInsufficientHelperData struct {
	Helper, Expected, Actual int
}

func (e *ErrInsufficientHelperData) Error() string {
	return fmt.Sprintf("clay: helper %d provided %d bytes, expected %d", e.Helper, e.Actual, e.Expected)
}

// ErrInconsistentChunkSizes is returned when chunks in the available set
// disagree on size.
type ErrInconsistentChunkSizes struct {
	FirstSize, MismatchedIdx, MismatchedSize int
}

func (e *ErrInconsistentChunkSizes) Error() string {
	return fmt.Sprintf("clay: chunk %d has size %d but expected %d (same as first chunk)",
		e.MismatchedIdx, e.MismatchedSize, e.FirstSize)
}

// ErrTooManyErasures is returned when the erasure count exceeds m, either
// for the whole decode or for a single plane.
type ErrTooManyErasures struct {
	Max, Actual int
}

func (e *ErrTooManyErasures) Error() string {
	return fmt.Sprintf("clay: too many erasures: max %d supported, got %d", e.Max, e.Actual)
}

// ErrReconstructionFailed wraps a failure reported by the underlying MDS
// codec's Encode or Reconstruct.
type ErrReconstructionFailed struct {
	Msg string
	Err error
}

func (e *ErrReconstructionFailed) Error() string {
	return fmt.Sprintf("clay: reconstruction failed: %s: %v", e.Msg, e.Err)
}

func (e *ErrReconstructionFailed) Unwrap() error {
	return e.Err
}

// ErrMissingYSectionHelper is returned when repair lacks a required sibling
// of the lost node's y-section among the provided helpers.
type ErrMissingYSectionHelper struct {
	LostNode, MissingHelper int
}

func (e *ErrMissingYSectionHelper) Error() string {
	return fmt.Sprintf("clay: missing required y-section helper %d for repairing node %d",
		e.MissingHelper, e.LostNode)
}
