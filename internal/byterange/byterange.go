// Package byterange negotiates a client Range header against a resource size.
package byterange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ChunkSize caps the number of bytes served by a single partial response.
const ChunkSize int64 = 1_000_000

const unit = "bytes"

var (
	// ErrMalformed reports a Range header that is not a valid byte-range expression.
	ErrMalformed = fiber.ErrRangeMalformed
	// ErrUnsatisfiable reports a Range header that cannot be served for the resource size.
	ErrUnsatisfiable = fiber.ErrRangeUnsatisfiable
)

// Kind classifies the result of a negotiation.
type Kind int

const (
	Absent Kind = iota
	Satisfiable
	Unsatisfiable
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// Spec is a resolved inclusive byte span of a resource.
type Spec struct {
	Unit  string
	Start int64
	End   int64
	Total int64
}

// Length is the number of bytes in the span.
func (s Spec) Length() int64 {
	return s.End - s.Start + 1
}

// ContentRange formats the span as a Content-Range header value.
func (s Spec) ContentRange() string {
	return fmt.Sprintf("%s %d-%d/%d", s.Unit, s.Start, s.End, s.Total)
}

// Outcome is the result of Negotiate. Spec is set only when Kind is Satisfiable;
// Err is set for Malformed and Unsatisfiable.
type Outcome struct {
	Kind Kind
	Spec Spec
	Err  error
}

// UnsatisfiedRange formats the Content-Range value sent with a 416 response.
func UnsatisfiedRange(total int64) string {
	return fmt.Sprintf("%s */%d", unit, total)
}

// Negotiate parses header against a resource of size bytes. Only the first range of a
// multi-range request is honored, and the span is never longer than ChunkSize.
func Negotiate(header string, size int64) Outcome {
	header = strings.TrimSpace(header)
	if header == "" {
		return Outcome{Kind: Absent}
	}

	u, ranges, ok := strings.Cut(header, "=")
	if !ok || strings.TrimSpace(u) != unit {
		return malformed()
	}
	first, _, _ := strings.Cut(ranges, ",")
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(first), "-")
	if !ok {
		return malformed()
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return malformed()
	case startStr == "":
		// suffix range: the last n bytes
		n, err := parseOffset(endStr)
		if errors.Is(err, strconv.ErrRange) {
			n = size
		} else if err != nil {
			return malformed()
		}
		if n == 0 || size == 0 {
			return unsatisfiable()
		}
		start = max(size-n, 0)
		end = size - 1
	default:
		var err error
		start, err = parseOffset(startStr)
		if errors.Is(err, strconv.ErrRange) {
			return unsatisfiable()
		} else if err != nil {
			return malformed()
		}
		end = size - 1
		if endStr != "" {
			// an end past int64 is still a valid request for the rest of the resource
			if end, err = parseOffset(endStr); errors.Is(err, strconv.ErrRange) {
				end = size - 1
			} else if err != nil {
				return malformed()
			}
		}
		if start >= size || start > end {
			return unsatisfiable()
		}
	}

	end = min(end, start+ChunkSize-1, size-1)
	return Outcome{
		Kind: Satisfiable,
		Spec: Spec{Unit: unit, Start: start, End: end, Total: size},
	}
}

func parseOffset(s string) (int64, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

func malformed() Outcome {
	return Outcome{Kind: Malformed, Err: ErrMalformed}
}

func unsatisfiable() Outcome {
	return Outcome{Kind: Unsatisfiable, Err: ErrUnsatisfiable}
}
