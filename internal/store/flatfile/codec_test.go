package flatfile

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/MrSnakeDoc/slasti/internal/domain"
)

func TestEncodeLayout(t *testing.T) {
	m := domain.Mark{
		Stamp:   1348242433,
		ModTime: 1348242440.5,
		Title:   "moo",
		URL:     "http://xxxx",
		Tags:    []string{"a", "b", "c"},
	}
	want := "1348242433.00 1348242440.5\nmoo\nhttp://xxxx\n\n a b c\n"
	if got := string(Encode(m)); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	m.ModTime = 0
	m.Fix = 3
	want = "1348242433.03\nmoo\nhttp://xxxx\n\n a b c\n"
	if got := string(Encode(m)); got != want {
		t.Errorf("Encode() without mtime = %q, want %q", got, want)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	marks := []domain.Mark{
		{Stamp: 1, Fix: 0, ModTime: 2, Title: "t", URL: "http://a", Note: "n", Tags: []string{"x"}},
		{Stamp: 1348242431, Fix: 99, ModTime: 1348242431.25, Title: "проверка", URL: "http://pant.su", Tags: []string{"pantsu", "日本語"}},
		{Stamp: 42, Fix: 1, ModTime: 43, Title: "", URL: "u", Note: "", Tags: []string{"a", "b"}},
	}

	for _, m := range marks {
		d := Decode(strings.NewReader(string(Encode(m))))
		if d.Damage != DamageNone {
			t.Fatalf("Decode() damage = %v", d.Damage)
		}
		if !d.HasModTime {
			t.Error("Decode() lost the mtime word")
		}
		got := d.Mark
		if got.Stamp != m.Stamp || got.Fix != m.Fix || got.ModTime != m.ModTime {
			t.Errorf("key/mtime = %d.%d %v, want %d.%d %v", got.Stamp, got.Fix, got.ModTime, m.Stamp, m.Fix, m.ModTime)
		}
		if got.Title != m.Title || got.URL != m.URL || got.Note != m.Note {
			t.Errorf("fields = %+v, want %+v", got, m)
		}
		if !slices.Equal(got.Tags, m.Tags) {
			t.Errorf("tags = %v, want %v", got.Tags, m.Tags)
		}
	}
}

func TestDecodeDamage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Damage
	}{
		{"empty", "", DamageNoKey},
		{"blank key line", "\nt\nu\nn\n a\n", DamageBadKey},
		{"no dot", "1348242433\nt\nu\nn\n a\n", DamageBadKey},
		{"two dots", "1.2.3\nt\nu\nn\n a\n", DamageBadKey},
		{"letters", "abc.de\nt\nu\nn\n a\n", DamageBadKeyParts},
		{"stops after url", "0000000001.00\nt\nu\n", DamageTruncated},
		{"stops before tags", "0000000001.00\nt\nu\nn\n", DamageTruncated},
		{"healthy legacy", "0000000001.00\nt\nu\nn\n a\n", DamageNone},
		{"crlf", "0000000001.00 5\r\nt\r\nu\r\nn\r\n a\r\n", DamageNone},
		{"no final newline", "0000000001.00\nt\nu\nn\n a", DamageNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode(strings.NewReader(tt.in))
			if d.Damage != tt.want {
				t.Errorf("Decode() damage = %v, want %v", d.Damage, tt.want)
			}
		})
	}
}

func TestDecodeKeepsPartialFields(t *testing.T) {
	d := Decode(strings.NewReader("0000000007.02\ntitle\nhttp://u\n"))
	if d.Damage != DamageTruncated {
		t.Fatalf("damage = %v", d.Damage)
	}
	if d.Mark.Stamp != 7 || d.Mark.Fix != 2 || d.Mark.Title != "title" || d.Mark.URL != "http://u" {
		t.Errorf("partial mark = %+v", d.Mark)
	}
}

func TestDecodeLegacyAndBadMtime(t *testing.T) {
	d := Decode(strings.NewReader("0000000001.00 notafloat\nt\nu\nn\n a b\n"))
	if d.Damage != DamageNone || d.HasModTime {
		t.Errorf("Decode() = %+v", d)
	}
	if !slices.Equal(d.Mark.Tags, []string{"a", "b"}) {
		t.Errorf("tags = %v", d.Mark.Tags)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	d := Decode(strings.NewReader("0000000001.00\n\xff\xfe\nu\nn\n a\n"))
	if d.Damage != DamageNone {
		t.Fatalf("damage = %v", d.Damage)
	}
	// a run of invalid bytes collapses into one replacement rune
	if d.Mark.Title != "\uFFFD" {
		t.Errorf("title = %q", d.Mark.Title)
	}
}

func TestDecodeReadError(t *testing.T) {
	d := Decode(iotest.ErrReader(errors.New("boom")))
	if d.Damage != DamageUnreadable {
		t.Errorf("damage = %v, want %v", d.Damage, DamageUnreadable)
	}
}
