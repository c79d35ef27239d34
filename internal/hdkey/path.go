package hdkey

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrPathSyntax reports a keypath failing the m/<digits>[marker]/... grammar.
var ErrPathSyntax = errors.New("malformed keypath")

// hardenedMarkers are the characters accepted as a segment's hardened
// suffix.
const hardenedMarkers = "'phH"

// Keypath is an ordered sequence of child numbers, hardened bit included.
// The empty path denotes the master key itself.
type Keypath []uint32

// String renders the path in m/i[']/... form.
func (p Keypath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, childNum := range p {
		b.WriteByte('/')
		if childNum >= HardenedOffset {
			b.WriteString(strconv.FormatUint(uint64(childNum-HardenedOffset), 10))
			b.WriteByte('\'')
		} else {
			b.WriteString(strconv.FormatUint(uint64(childNum), 10))
		}
	}
	return b.String()
}

// ParsePath parses a keypath string. The path must start with "m/" (bare
// "m" and "m/" denote the empty path); each segment is one or more digits
// with at most one hardened marker as its final character. A malformed
// segment or an index above 2^32-1 fails the whole parse.
func ParsePath(text string) (Keypath, error) {
	if text == "m" || text == "m/" {
		return Keypath{}, nil
	}
	if !strings.HasPrefix(text, "m/") {
		return nil, fmt.Errorf("%w: must start with m/", ErrPathSyntax)
	}

	segments := strings.Split(text[2:], "/")
	path := make(Keypath, 0, len(segments))
	for _, seg := range segments {
		childNum, err := parseSegment(seg)
		if err != nil {
			return nil, err
		}
		path = append(path, childNum)
	}
	return path, nil
}

func parseSegment(seg string) (uint32, error) {
	if seg == "" {
		return 0, fmt.Errorf("%w: empty segment", ErrPathSyntax)
	}

	hardened := false
	if strings.ContainsRune(hardenedMarkers, rune(seg[len(seg)-1])) {
		hardened = true
		seg = seg[:len(seg)-1]
	}
	if seg == "" {
		return 0, fmt.Errorf("%w: segment has no digits", ErrPathSyntax)
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: segment %q is not numeric", ErrPathSyntax, seg)
		}
	}

	idx, err := strconv.ParseUint(seg, 10, 64)
	if err != nil || idx > math.MaxUint32 {
		return 0, fmt.Errorf("%w: index %q out of range", ErrPathSyntax, seg)
	}

	childNum := uint32(idx)
	if hardened {
		childNum |= HardenedOffset
	}
	return childNum, nil
}
