package severity

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxID is the largest alarm identifier accepted in a specification.
	MaxID = 65535

	// rangeSeparator joins the two bounds of a range token.
	rangeSeparator = ".."
	// tokenSeparator joins tokens of a specification.
	tokenSeparator = ","

	wordBits  = 64
	wordCount = (MaxID + 1) / wordBits
)

var (
	// ErrInvalidSpecFormat is returned when the text does not match the grammar.
	ErrInvalidSpecFormat = errors.New("invalid severity specification format")
	// ErrInvalidSpecRange is returned when a range has its lower bound above the upper one.
	ErrInvalidSpecRange = errors.New("invalid severity range: lower bound is greater than upper bound")
	// ErrInvalidSpecValue is returned when an identifier is outside 0..65535.
	ErrInvalidSpecValue = errors.New("invalid alarm identifier: must be within 0..65535")
)

// specPattern is the full grammar: token (',' token)*, token := INT | INT '..' INT.
var specPattern = regexp.MustCompile(`^(\d+|\d+\.\.\d+)(,(\d+|\d+\.\.\d+))*$`)

// Spec is an immutable set of alarm identifiers for one severity tier.
// The zero value is an empty set.
type Spec struct {
	words [wordCount]uint64
	size  int
}

// Empty returns a specification that matches no alarm.
func Empty() *Spec {
	return new(Spec)
}

// Parse converts raw text such as "1..4,11" into a Spec.
// Ranges include both bounds.
func Parse(raw string) (*Spec, error) {
	if !specPattern.MatchString(raw) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSpecFormat, raw)
	}

	spec := new(Spec)

	for _, token := range strings.Split(raw, tokenSeparator) {
		lower, upper, err := parseToken(token)
		if err != nil {
			return nil, err
		}

		for id := lower; id <= upper; id++ {
			spec.add(int(id))
		}
	}

	return spec, nil
}

// MustParse is like Parse but panics on error.
// It is intended for package-level defaults and tests.
func MustParse(raw string) *Spec {
	spec, err := Parse(raw)
	if err != nil {
		panic(err)
	}

	return spec
}

// parseToken validates one grammar-conforming token and returns its bounds.
func parseToken(token string) (uint64, uint64, error) {
	lowerText, upperText, isRange := strings.Cut(token, rangeSeparator)
	if !isRange {
		upperText = lowerText
	}

	lower := parseNumber(lowerText)
	upper := parseNumber(upperText)

	if lower > upper {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSpecRange, token)
	}

	if upper > MaxID {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSpecValue, token)
	}

	return lower, upper, nil
}

// parseNumber converts a digit-only string, saturating values that overflow uint64
// so they still fail the bounds check instead of the format check.
func parseNumber(text string) uint64 {
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return math.MaxUint64
	}

	return value
}

func (s *Spec) add(id int) {
	word, bit := id/wordBits, uint(id%wordBits)
	if s.words[word]&(1<<bit) != 0 {
		return
	}

	s.words[word] |= 1 << bit
	s.size++
}

// Contains reports whether id is a member of the specification.
// A nil Spec contains nothing.
func (s *Spec) Contains(id int) bool {
	if s == nil || id < 0 || id > MaxID {
		return false
	}

	return s.words[id/wordBits]&(1<<uint(id%wordBits)) != 0
}

// Len returns the number of identifiers in the specification.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}

	return s.size
}

// Members returns the identifiers in ascending order.
func (s *Spec) Members() []int {
	if s == nil || s.size == 0 {
		return nil
	}

	members := make([]int, 0, s.size)

	for word, value := range s.words {
		for value != 0 {
			bit := bits.TrailingZeros64(value)
			members = append(members, word*wordBits+bit)
			value &= value - 1
		}
	}

	return members
}

// String renders the canonical form: ascending, with consecutive runs
// collapsed into ranges. Parsing the result yields the same set.
// An empty specification renders as the empty string.
func (s *Spec) String() string {
	members := s.Members()
	if len(members) == 0 {
		return ""
	}

	var (
		builder strings.Builder
		start   = members[0]
		prev    = members[0]
	)

	flush := func() {
		if builder.Len() > 0 {
			builder.WriteString(tokenSeparator)
		}

		builder.WriteString(strconv.Itoa(start))

		if prev != start {
			builder.WriteString(rangeSeparator)
			builder.WriteString(strconv.Itoa(prev))
		}
	}

	for _, id := range members[1:] {
		if id == prev+1 {
			prev = id
			continue
		}

		flush()

		start, prev = id, id
	}

	flush()

	return builder.String()
}
