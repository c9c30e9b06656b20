package xmledit

import "testing"

func TestIsValidXmlName(t *testing.T) {
	valid := []string{"a", "foo", "foo-bar", "foo.bar", "_x", "A1", "ns:tag", "élément", "日本語"}
	for _, name := range valid {
		if !IsValidXmlName(name) {
			t.Errorf("expected %q to be a valid name", name)
		}
	}

	invalid := []string{"", "1a", "-a", ".a", "a b", "a<b", "a&b", "a/b", "a\x00b"}
	for _, name := range invalid {
		if IsValidXmlName(name) {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}
