package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxFix is the highest fixup counter a timestamp can carry.
const MaxFix = 99

// MaxStamp is the largest timestamp that fits the ten digit name.
const MaxStamp int64 = 9999999999

// ValidateStamp rejects timestamps whose names would not sort by width.
func ValidateStamp(stamp int64) error {
	if stamp < 0 || stamp > MaxStamp {
		return fmt.Errorf("%w: timestamp %d out of range 0..%d", ErrValidation, stamp, MaxStamp)
	}
	return nil
}

// Key identifies a mark permanently: the creation timestamp plus the
// fixup counter that disambiguates marks created within the same second.
type Key struct {
	Stamp int64
	Fix   int
}

// String returns the URL form "<stamp>.<fix:02>", e.g. "1348242433.00".
func (k Key) String() string {
	return fmt.Sprintf("%d.%02d", k.Stamp, k.Fix)
}

// Record returns the zero-padded form written on the first line of a record.
func (k Key) Record() string {
	return FormatKey(k.Stamp, k.Fix)
}

// Name returns the file name of the record under marks/.
func (k Key) Name() string {
	return FormatName(k.Stamp, k.Fix)
}

// FormatKey renders "%010d.%02d".
func FormatKey(stamp int64, fix int) string {
	return fmt.Sprintf("%010d.%02d", stamp, fix)
}

// FormatName renders the record file name. Fix 0 has no suffix.
func FormatName(stamp int64, fix int) string {
	if fix == 0 {
		return fmt.Sprintf("%010d", stamp)
	}
	return FormatKey(stamp, fix)
}

// ParseName parses a record file name. A bare stamp means fix 0.
func ParseName(name string) (Key, error) {
	stampPart, fixPart, hasFix := strings.Cut(name, ".")
	stamp, err := parseDigits(stampPart)
	if err != nil {
		return Key{}, fmt.Errorf("mark name %q: %w", name, err)
	}
	if !hasFix {
		return Key{Stamp: stamp}, nil
	}
	fix, err := parseDigits(fixPart)
	if err != nil {
		return Key{}, fmt.Errorf("mark name %q: %w", name, err)
	}
	return Key{Stamp: stamp, Fix: int(fix)}, nil
}

// ParseKey parses the "<stamp>.<fix>" form used in URLs and forms.
// Both parts are required.
func ParseKey(s string) (Key, error) {
	stampPart, fixPart, ok := strings.Cut(s, ".")
	if !ok {
		return Key{}, fmt.Errorf("%w: mark key %q has no fix part", ErrValidation, s)
	}
	stamp, err := parseDigits(stampPart)
	if err != nil {
		return Key{}, fmt.Errorf("%w: mark key %q: %v", ErrValidation, s, err)
	}
	fix, err := parseDigits(fixPart)
	if err != nil {
		return Key{}, fmt.Errorf("%w: mark key %q: %v", ErrValidation, s, err)
	}
	if fix > MaxFix {
		return Key{}, fmt.Errorf("%w: mark key %q: fix out of range", ErrValidation, s)
	}
	if err := ValidateStamp(stamp); err != nil {
		return Key{}, err
	}
	return Key{Stamp: stamp, Fix: int(fix)}, nil
}

func parseDigits(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit %q", s)
		}
	}
	return strconv.ParseInt(s, 10, 64)
}
