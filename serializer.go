// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xmledit

import (
	"sort"
	"strings"
)

// serializeElement renders an element subtree as XML text: open tag with
// attributes, escaped text, children in document order, close tag.
func serializeElement(sb *strings.Builder, e *XmlElement) {
	writeOpenTag(sb, e.Name, e.Attributes)
	if e.Text != "" {
		sb.WriteString(escapeText(e.Text))
	}
	for _, child := range e.Children {
		serializeElement(sb, child)
	}
	writeCloseTag(sb, e.Name)
}

// writeOpenTag writes <name attr="value"...> with attributes sorted by name
// so output is deterministic regardless of map iteration order.
func writeOpenTag(sb *strings.Builder, name string, attrs map[string]string) {
	sb.WriteByte('<')
	sb.WriteString(name)

	if len(attrs) > 0 {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			sb.WriteByte(' ')
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(escapeAttribute(attrs[k]))
			sb.WriteByte('"')
		}
	}

	sb.WriteByte('>')
}

func writeCloseTag(sb *strings.Builder, name string) {
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
}

// escapeText escapes text body content. An ampersand that already begins a
// character or entity reference is left alone, so escaping is idempotent and
// unedited passthrough text round-trips unchanged.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if isReferenceStart(s[i+1:]) {
				sb.WriteByte('&')
			} else {
				sb.WriteString("&amp;")
			}
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// escapeAttribute escapes an attribute value; quotes are escaped in addition
// to the text escapes since values are emitted double-quoted.
func escapeAttribute(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if isReferenceStart(s[i+1:]) {
				sb.WriteByte('&')
			} else {
				sb.WriteString("&amp;")
			}
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&#39;")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// isReferenceStart reports whether rest looks like the remainder of a
// character or entity reference: name; | #digits; | #xhex;
func isReferenceStart(rest string) bool {
	end := strings.IndexByte(rest, ';')
	if end <= 0 {
		return false
	}
	ref := rest[:end]

	if ref[0] == '#' {
		digits := ref[1:]
		hex := false
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			hex = true
			digits = digits[1:]
		}
		if len(digits) == 0 {
			return false
		}
		for i := 0; i < len(digits); i++ {
			c := digits[i]
			isDigit := c >= '0' && c <= '9'
			isHexLetter := (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
			if !isDigit && !(hex && isHexLetter) {
				return false
			}
		}
		return true
	}

	for i := 0; i < len(ref); i++ {
		c := ref[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}
