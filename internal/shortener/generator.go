package shortener

import "github.com/jaevor/go-nanoid"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 8

// CodeGenerator produces candidate short codes. Candidates are independent
// random draws; uniqueness is probed against the repository by the service.
type CodeGenerator func() string

// NewCodeGenerator creates a nanoid-backed generator over the URL-safe
// standard alphabet (A-Za-z0-9_-).
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}
