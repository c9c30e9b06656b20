package xmledit

import (
	"strings"
	"unicode"
)

type EventType int

const (
	EventText        EventType = iota // character data
	EventOpenTag                      // <name attr="value">
	EventCloseTag                     // </name>
	EventDeclaration                  // <?xml version="1.0"?>
)

// XmlEvent is one tokenizer notification. Fields are populated according to
// Type: Name/Attributes/SelfClosing for open tags, Name for close tags, Text
// for character data, Version/Encoding/Standalone for the XML declaration.
type XmlEvent struct {
	Type        EventType
	Name        string
	Attributes  map[string]string
	SelfClosing bool
	Text        string
	Version     string
	Encoding    string
	Standalone  string
}

// maxEntityRefLen bounds how many trailing bytes may be held back waiting
// for the ';' of a character or entity reference split across chunks.
const maxEntityRefLen = 16

// StreamXmlTokenizer converts an incrementally appended character stream
// into tag-level events. Input may be split at any byte boundary, including
// inside tag names, attribute values and entity references; an event is only
// produced once its markup is complete in the buffer.
type StreamXmlTokenizer struct {
	buffer   string
	position int
	consumed int
	closed   bool

	// Markup reconstruction state
	inMarkup    bool
	markupStart int
	textStart   int

	// Pending events from markup already parsed
	pendingEvents []*XmlEvent
	pendingIndex  int

	maxBufferSize    int
	cleanupThreshold int
}

func NewStreamXmlTokenizer() *StreamXmlTokenizer {
	config := DefaultEditorConfig()
	return NewStreamXmlTokenizerWithLimits(config.MaxBufferSize, config.BufferCleanupThreshold)
}

// NewStreamXmlTokenizerWithLimits creates a tokenizer with explicit buffer
// limits. maxBufferSize caps the total buffered bytes; cleanupThreshold
// controls when the consumed prefix of the buffer is compacted away.
func NewStreamXmlTokenizerWithLimits(maxBufferSize, cleanupThreshold int) *StreamXmlTokenizer {
	return &StreamXmlTokenizer{
		pendingEvents:    make([]*XmlEvent, 0),
		maxBufferSize:    maxBufferSize,
		cleanupThreshold: cleanupThreshold,
	}
}

// Append adds more data to the tokenizer
func (t *StreamXmlTokenizer) Append(data string) error {
	if t.closed {
		return ErrEditorClosed
	}

	if t.consumed >= t.cleanupThreshold && t.consumed > 0 {
		t.compact()
	}

	if len(t.buffer)+len(data) > t.maxBufferSize {
		return ErrMaxBufferSizeExceeded
	}

	t.buffer += data
	return nil
}

// Close stops the tokenizer and releases its buffer. Subsequent Append calls
// fail and NextEvent returns no further events.
func (t *StreamXmlTokenizer) Close() {
	t.closed = true
	t.buffer = ""
	t.position = 0
	t.consumed = 0
	t.textStart = 0
	t.inMarkup = false
	t.pendingEvents = t.pendingEvents[:0]
	t.pendingIndex = 0
}

// compact drops the already consumed buffer prefix
func (t *StreamXmlTokenizer) compact() {
	t.buffer = t.buffer[t.consumed:]
	t.position -= t.consumed
	t.textStart -= t.consumed
	if t.inMarkup {
		t.markupStart -= t.consumed
	}
	t.consumed = 0
}

// NextEvent returns the next event from the buffer.
// Returns nil when no complete event is available yet.
func (t *StreamXmlTokenizer) NextEvent() *XmlEvent {
	if t.closed {
		return nil
	}

	if ev := t.takePending(); ev != nil {
		return ev
	}

	for t.position < len(t.buffer) {
		if t.inMarkup {
			if !t.tryCompleteMarkup() {
				// Markup incomplete, wait for more data
				return nil
			}
			if ev := t.takePending(); ev != nil {
				return ev
			}
			continue
		}

		if ev := t.scanText(); ev != nil {
			return ev
		}
	}

	// Flush text at end of buffer so passthrough content streams promptly,
	// holding back a trailing partial entity reference.
	if !t.inMarkup && t.position > t.textStart {
		return t.flushText(t.position)
	}

	return nil
}

func (t *StreamXmlTokenizer) takePending() *XmlEvent {
	if t.pendingIndex >= len(t.pendingEvents) {
		return nil
	}

	ev := t.pendingEvents[t.pendingIndex]
	t.pendingIndex++

	if t.pendingIndex >= len(t.pendingEvents) {
		t.pendingEvents = t.pendingEvents[:0]
		t.pendingIndex = 0
	}

	return ev
}

// scanText advances through character data until markup starts, emitting the
// accumulated span when it hits a '<'.
func (t *StreamXmlTokenizer) scanText() *XmlEvent {
	for t.position < len(t.buffer) {
		if t.buffer[t.position] == '<' {
			textEnd := t.position

			t.inMarkup = true
			t.markupStart = textEnd

			if textEnd > t.textStart {
				ev := &XmlEvent{
					Type: EventText,
					Text: t.buffer[t.textStart:textEnd],
				}
				t.textStart = textEnd
				t.consumed = textEnd
				return ev
			}
			return nil
		}
		t.position++
	}
	return nil
}

// flushText emits buffered text up to end. A trailing '&' that may still
// grow into a complete reference is kept in the buffer so escaping on the
// consumer side never sees a split reference.
func (t *StreamXmlTokenizer) flushText(end int) *XmlEvent {
	span := t.buffer[t.textStart:end]

	if amp := strings.LastIndexByte(span, '&'); amp >= 0 {
		tail := span[amp:]
		if !strings.Contains(tail, ";") && len(tail) <= maxEntityRefLen {
			end = t.textStart + amp
			span = span[:amp]
		}
	}

	if len(span) == 0 {
		return nil
	}

	ev := &XmlEvent{
		Type: EventText,
		Text: span,
	}
	t.textStart = end
	t.consumed = end
	return ev
}

// tryCompleteMarkup parses the markup starting at markupStart if its
// terminator has arrived. Returns false when more data is needed.
func (t *StreamXmlTokenizer) tryCompleteMarkup() bool {
	rest := t.buffer[t.markupStart:]
	if len(rest) < 2 {
		return false
	}

	var end int // position just past the markup
	switch {
	case rest[1] == '?':
		idx := strings.Index(rest, "?>")
		if idx < 0 {
			return false
		}
		t.parseProcessingInstruction(rest[2:idx])
		end = t.markupStart + idx + 2

	case rest[1] == '!':
		switch {
		case strings.HasPrefix(rest, "<!--"):
			idx := strings.Index(rest[4:], "-->")
			if idx < 0 {
				return false
			}
			// Comments are dropped
			end = t.markupStart + 4 + idx + 3

		case strings.HasPrefix(rest, "<![CDATA["):
			idx := strings.Index(rest[9:], "]]>")
			if idx < 0 {
				return false
			}
			t.pendingEvents = append(t.pendingEvents, &XmlEvent{
				Type: EventText,
				Text: rest[9 : 9+idx],
			})
			end = t.markupStart + 9 + idx + 3

		case strings.HasPrefix("<!--", rest) || strings.HasPrefix("<![CDATA[", rest):
			// Not enough data yet to tell comment, CDATA and DOCTYPE apart
			return false

		default:
			idx := strings.IndexByte(rest, '>')
			if idx < 0 {
				return false
			}
			// DOCTYPE and other declarations are dropped
			end = t.markupStart + idx + 1
		}

	default:
		idx := strings.IndexByte(rest, '>')
		if idx < 0 {
			return false
		}
		t.parseTag(rest[1:idx])
		end = t.markupStart + idx + 1
	}

	t.position = end
	t.consumed = end
	t.textStart = end
	t.inMarkup = false
	return true
}

// parseProcessingInstruction handles <?...?> content. Only the XML
// declaration produces an event; other targets are dropped.
func (t *StreamXmlTokenizer) parseProcessingInstruction(content string) {
	name, rest := splitTagName(content)
	if name != "xml" {
		return
	}

	attrs := parseAttributes(rest)
	t.pendingEvents = append(t.pendingEvents, &XmlEvent{
		Type:       EventDeclaration,
		Version:    attrs["version"],
		Encoding:   attrs["encoding"],
		Standalone: attrs["standalone"],
	})
}

// parseTag handles the content between < and > of a regular tag.
func (t *StreamXmlTokenizer) parseTag(content string) {
	raw := content

	isClosing := len(content) > 0 && content[0] == '/'
	if isClosing {
		content = content[1:]
	}

	isSelfClosing := len(content) > 0 && content[len(content)-1] == '/'
	if isSelfClosing {
		content = content[:len(content)-1]
	}

	name, rest := splitTagName(content)
	if name == "" {
		// Malformed tag, fall back to text like the rest of the stream
		t.pendingEvents = append(t.pendingEvents, &XmlEvent{
			Type: EventText,
			Text: "<" + raw + ">",
		})
		return
	}

	if isClosing {
		t.pendingEvents = append(t.pendingEvents, &XmlEvent{
			Type: EventCloseTag,
			Name: name,
		})
		return
	}

	t.pendingEvents = append(t.pendingEvents, &XmlEvent{
		Type:        EventOpenTag,
		Name:        name,
		Attributes:  parseAttributes(rest),
		SelfClosing: isSelfClosing,
	})
}

// splitTagName splits tag content into the element name and the remainder
// holding attributes.
func splitTagName(content string) (string, string) {
	content = strings.TrimSpace(content)

	for i, ch := range content {
		if unicode.IsSpace(ch) {
			return content[:i], strings.TrimSpace(content[i+1:])
		}
	}
	return content, ""
}

// parseAttributes scans name="value" pairs. Values may be single quoted,
// double quoted or bare; entities inside values are not decoded.
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	i := 0

	for i < len(attrStr) {
		// Skip whitespace
		for i < len(attrStr) && unicode.IsSpace(rune(attrStr[i])) {
			i++
		}
		if i >= len(attrStr) {
			break
		}

		// Attribute name
		nameStart := i
		for i < len(attrStr) && attrStr[i] != '=' && !unicode.IsSpace(rune(attrStr[i])) {
			i++
		}
		name := attrStr[nameStart:i]

		// Skip whitespace before =
		for i < len(attrStr) && unicode.IsSpace(rune(attrStr[i])) {
			i++
		}
		if i >= len(attrStr) || attrStr[i] != '=' {
			continue
		}
		i++

		// Skip whitespace after =
		for i < len(attrStr) && unicode.IsSpace(rune(attrStr[i])) {
			i++
		}
		if i >= len(attrStr) {
			break
		}

		if attrStr[i] == '"' || attrStr[i] == '\'' {
			quote := attrStr[i]
			i++
			valueStart := i
			for i < len(attrStr) && attrStr[i] != quote {
				i++
			}
			attrs[name] = attrStr[valueStart:i]
			if i < len(attrStr) {
				i++ // Skip closing quote
			}
		} else {
			valueStart := i
			for i < len(attrStr) && !unicode.IsSpace(rune(attrStr[i])) {
				i++
			}
			attrs[name] = attrStr[valueStart:i]
		}
	}

	return attrs
}
