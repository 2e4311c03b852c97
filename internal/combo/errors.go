package combo

import "errors"

// Construction errors. Callers can test for them with errors.Is.
var (
	ErrEmptyCatalog    = errors.New("move list is empty")
	ErrInvalidCapacity = errors.New("buffer capacity must be positive")
	ErrEmptySequence   = errors.New("move sequence is empty")
	ErrEmptySymbol     = errors.New("move sequence contains an empty chord")
	ErrImpossibleChord = errors.New("move sequence holds opposite directions at once")
	ErrMoveTooLong     = errors.New("move sequence is longer than buffer capacity")
	ErrDuplicateMove   = errors.New("duplicate move name")
	ErrInvalidTiming   = errors.New("invalid buffer timing")
	ErrInvalidPlayers  = errors.New("player count must be positive")
	ErrInvalidBinding  = errors.New("invalid button binding")
)
