package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/slasti/internal/domain"
)

// Damage tells why a record could not be fully decoded.
type Damage int

const (
	DamageNone        Damage = iota
	DamageUnreadable         // file could not be opened or read
	DamageNoKey              // empty file
	DamageBadKey             // first word is not "<stamp>.<fix>"
	DamageBadKeyParts        // key parts are not integers
	DamageTruncated          // record ends before the tags line
)

func (d Damage) String() string {
	switch d {
	case DamageNone:
		return ""
	case DamageUnreadable:
		return "unreadable"
	case DamageNoKey:
		return "no key line"
	case DamageBadKey:
		return "malformed key"
	case DamageBadKeyParts:
		return "non-integer key"
	case DamageTruncated:
		return "truncated"
	default:
		return "damage " + strconv.Itoa(int(d))
	}
}

// Encode serializes a mark into the five line record format:
//
//	<key> <mtime>
//	<title>
//	<url>
//	<note>
//	 <tag> <tag> ...
func Encode(m domain.Mark) []byte {
	var b bytes.Buffer
	b.WriteString(domain.FormatKey(m.Stamp, m.Fix))
	if m.ModTime > 0 {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(m.ModTime, 'f', -1, 64))
	}
	b.WriteByte('\n')
	b.WriteString(m.Title)
	b.WriteByte('\n')
	b.WriteString(m.URL)
	b.WriteByte('\n')
	b.WriteString(m.Note)
	b.WriteByte('\n')
	for _, t := range m.Tags {
		b.WriteByte(' ')
		b.WriteString(t)
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// Decoded is the outcome of reading one record.
type Decoded struct {
	Mark       domain.Mark
	Damage     Damage
	HasModTime bool // false for legacy records without an mtime word
}

// Decode reads a record positionally. It never fails: problems are
// reported through Damage and the fields read so far are kept.
func Decode(r io.Reader) Decoded {
	br := bufio.NewReader(r)
	var d Decoded

	line, ok, err := readLine(br)
	if err != nil {
		d.Damage = DamageUnreadable
		return d
	}
	if !ok {
		d.Damage = DamageNoKey
		return d
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		d.Damage = DamageBadKey
		return d
	}
	if len(words) > 1 {
		if mt, err := strconv.ParseFloat(words[1], 64); err == nil {
			d.Mark.ModTime = mt
			d.HasModTime = true
		}
	}
	stampPart, fixPart, found := strings.Cut(words[0], ".")
	if !found || strings.Contains(fixPart, ".") {
		d.Damage = DamageBadKey
		return d
	}
	stamp, err1 := strconv.ParseInt(stampPart, 10, 64)
	fix, err2 := strconv.Atoi(fixPart)
	if err1 != nil || err2 != nil {
		d.Damage = DamageBadKeyParts
		return d
	}
	d.Mark.Stamp = stamp
	d.Mark.Fix = fix

	fields := []*string{&d.Mark.Title, &d.Mark.URL, &d.Mark.Note}
	for _, f := range fields {
		line, ok, err = readLine(br)
		if err != nil {
			d.Damage = DamageUnreadable
			return d
		}
		if !ok {
			d.Damage = DamageTruncated
			return d
		}
		*f = line
	}

	line, ok, err = readLine(br)
	if err != nil {
		d.Damage = DamageUnreadable
		return d
	}
	if !ok {
		d.Damage = DamageTruncated
		return d
	}
	d.Mark.Tags = splitList(line)
	return d
}

// readLine returns the next line without its terminator. ok is false at
// end of input. Invalid UTF-8 is replaced rather than rejected.
func readLine(br *bufio.Reader) (string, bool, error) {
	s, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if s == "" {
		return "", false, nil
	}
	s = strings.TrimRight(s, "\r\n")
	return strings.ToValidUTF8(s, "\uFFFD"), true, nil
}

// splitList splits a space separated list, dropping empty items.
func splitList(s string) []string {
	parts := strings.Split(s, " ")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
