package domain

import "testing"

func TestQuoteAttr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`a"b`, `'a"b'`},
		{`a"b'c`, `"a&quot;b'c"`},
		{"it's", `"it's"`},
		{"x<y&z\n\t", `"x&lt;y&amp;z&#10;&#9;"`},
		{"", `""`},
	}

	for _, tt := range tests {
		if got := QuoteAttr(tt.in); got != tt.want {
			t.Errorf("QuoteAttr(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMarkXML(t *testing.T) {
	m := Mark{
		Stamp: 1348242433,
		Title: "moo",
		URL:   "http://xxxx",
		Tags:  []string{"a", "b", "c"},
	}
	want := `  <post href="http://xxxx" description="moo" tag="a b c" time="2012-09-21T15:47:13Z" extended="" />` + "\n"
	if got := m.XML(); got != want {
		t.Errorf("XML() =\n%q\nwant\n%q", got, want)
	}

	m = Mark{
		Stamp: 1348242431,
		Title: "проверка",
		URL:   "http://pant.su",
		Note:  `say "hi" & go`,
		Tags:  []string{"pantsu"},
	}
	want = `  <post href="http://pant.su" description="проверка" tag="pantsu" time="2012-09-21T15:47:11Z" extended='say "hi" &amp; go' />` + "\n"
	if got := m.XML(); got != want {
		t.Errorf("XML() =\n%q\nwant\n%q", got, want)
	}
}
