package xmledit

import (
	"strings"
	"testing"
)

func serialize(e *XmlElement) string {
	var sb strings.Builder
	serializeElement(&sb, e)
	return sb.String()
}

func TestSerializeElement(t *testing.T) {
	root := NewElement("a")
	root.Attributes["x"] = "1"
	root.Text = "body"
	root.AddChild(NewElement("b")).Text = "inner"

	got := serialize(root)
	want := `<a x="1">body<b>inner</b></a>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSerializeTextBeforeChildren(t *testing.T) {
	root := NewElement("a")
	root.AddChild(NewElement("b"))
	root.Text = "after the child was added"

	got := serialize(root)
	if !strings.HasPrefix(got, "<a>after the child was added<b>") {
		t.Errorf("body text must precede child elements, got %q", got)
	}
}

func TestSerializeAttributesSorted(t *testing.T) {
	root := NewElement("e")
	root.Attributes["zeta"] = "3"
	root.Attributes["alpha"] = "1"
	root.Attributes["mid"] = "2"

	got := serialize(root)
	want := `<e alpha="1" mid="2" zeta="3"></e>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"a < b > c", "a &lt; b &gt; c"},
		{"fish &amp; chips", "fish &amp; chips"},
		{"&#60; &#x3C; &quot;", "&#60; &#x3C; &quot;"},
		{"&; &#; &#x; &nope", "&amp;; &amp;#; &amp;#x; &amp;nope"},
		{"it's \"quoted\"", "it's \"quoted\""},
	}

	for _, tt := range tests {
		if got := escapeText(tt.in); got != tt.want {
			t.Errorf("escapeText(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestEscapeTextIdempotent(t *testing.T) {
	inputs := []string{"a & b", "x < y", "fish &amp; chips", "&#60;tag&#62;"}
	for _, in := range inputs {
		once := escapeText(in)
		twice := escapeText(once)
		if once != twice {
			t.Errorf("escaping %q is not idempotent: %q != %q", in, once, twice)
		}
	}
}

func TestEscapeAttribute(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&#39;s"},
		{"a & b < c", "a &amp; b &lt; c"},
		{"&lt;kept&gt;", "&lt;kept&gt;"},
	}

	for _, tt := range tests {
		if got := escapeAttribute(tt.in); got != tt.want {
			t.Errorf("escapeAttribute(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
