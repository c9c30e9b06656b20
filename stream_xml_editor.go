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
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// EditFunc edits one buffered region. It receives a deep copy of the matched
// subtree and returns the subtree to emit in its place. Returning (nil, nil)
// drops the region from the output; returning an error terminates the stream.
type EditFunc func(elm *XmlElement) (*XmlElement, error)

// EditRule binds a selector to its edit callback. A selector is a
// whitespace-separated ancestor chain whose last element is the edit target,
// e.g. "main character". Rules earlier in the slice win ties.
type EditRule struct {
	Selector string
	Edit     EditFunc
}

// pathEntry is one frame of the open-element stack: the live element and its
// sentinel-delimited path from the document root.
type pathEntry struct {
	elem *XmlElement
	path string
}

// activeRegion tracks the single subtree currently being buffered for
// editing. While it exists the matcher is never consulted, so descendant
// opens are absorbed into the buffered tree rather than separately matched.
type activeRegion struct {
	root *XmlElement
	rule *selectorRule
}

// StreamXmlEditor edits an XML document while it streams through. Elements
// matched by a selector are buffered as a subtree, handed to the rule's edit
// callback at their close tag, optionally validated and re-serialized;
// everything else is re-emitted immediately.
type StreamXmlEditor struct {
	mu        sync.Mutex
	config    EditorConfig
	tokenizer *StreamXmlTokenizer
	rules     []*selectorRule
	out       io.Writer
	logger    hclog.Logger

	stack  []pathEntry
	region *activeRegion

	declarationEmitted bool
	textContinues      bool
	err                error
}

// NewStreamXmlEditor creates an editor writing to out with the default
// configuration. Rules are applied in declaration order.
func NewStreamXmlEditor(out io.Writer, rules []EditRule) (*StreamXmlEditor, error) {
	return NewStreamXmlEditorWithConfig(out, rules, DefaultEditorConfig())
}

// NewStreamXmlEditorWithConfig creates an editor with custom configuration.
// It fails if the configuration is invalid or any selector contains a token
// that is not a valid element name.
func NewStreamXmlEditorWithConfig(out io.Writer, rules []EditRule, config EditorConfig) (*StreamXmlEditor, error) {
	if err := config.check(); err != nil {
		return nil, err
	}

	compiled := make([]*selectorRule, 0, len(rules))
	for _, rule := range rules {
		parsed, err := parseSelector(rule.Selector, rule.Edit)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, parsed)
	}

	logger := config.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &StreamXmlEditor{
		config:    config,
		tokenizer: NewStreamXmlTokenizerWithLimits(config.MaxBufferSize, config.BufferCleanupThreshold),
		rules:     compiled,
		out:       out,
		logger:    logger,
		stack:     make([]pathEntry, 0),
	}, nil
}

// Append adds a chunk of input and processes every event it completes.
// Once a terminal error has been recorded every subsequent call returns the
// same error without processing. This method is thread-safe.
func (e *StreamXmlEditor) Append(data string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return e.err
	}

	if err := e.tokenizer.Append(data); err != nil {
		return e.fail(err)
	}
	if err := e.processEvents(); err != nil {
		return e.fail(err)
	}
	return nil
}

// Write implements io.Writer over Append.
func (e *StreamXmlEditor) Write(p []byte) (int, error) {
	if err := e.Append(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Err returns the recorded terminal error, if any.
// This method is thread-safe.
func (e *StreamXmlEditor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// fail records err as the terminal error and stops the tokenizer
func (e *StreamXmlEditor) fail(err error) error {
	e.err = err
	e.tokenizer.Close()
	return err
}

// processEvents drains the tokenizer and dispatches each event
func (e *StreamXmlEditor) processEvents() error {
	for {
		ev := e.tokenizer.NextEvent()
		if ev == nil {
			return nil
		}

		if err := e.processEvent(ev); err != nil {
			return err
		}
	}
}

func (e *StreamXmlEditor) processEvent(ev *XmlEvent) error {
	switch ev.Type {
	case EventOpenTag:
		if err := e.handleOpen(ev); err != nil {
			return err
		}
		if ev.SelfClosing {
			return e.handleClose(&XmlEvent{Type: EventCloseTag, Name: ev.Name})
		}
		return nil
	case EventText:
		return e.handleText(ev.Text)
	case EventCloseTag:
		return e.handleClose(ev)
	case EventDeclaration:
		return e.handleDeclaration(ev)
	}
	return nil
}

func (e *StreamXmlEditor) handleOpen(ev *XmlEvent) error {
	e.textContinues = false

	if len(e.stack) >= e.config.MaxDepth {
		return ErrMaxDepthExceeded
	}

	elem := NewElement(ev.Name)
	if len(ev.Attributes) > 0 {
		elem.Attributes = ev.Attributes
	}

	parentPath := ""
	if len(e.stack) > 0 {
		parentPath = e.stack[len(e.stack)-1].path
	}
	path := childPath(parentPath, ev.Name)

	if e.region != nil {
		// Inside an active region: absorb into the buffered tree
		e.stack[len(e.stack)-1].elem.AddChild(elem)
		e.stack = append(e.stack, pathEntry{elem: elem, path: path})
		return nil
	}

	e.stack = append(e.stack, pathEntry{elem: elem, path: path})

	if rule := findMatch(e.rules, path); rule != nil {
		e.region = &activeRegion{root: elem, rule: rule}
		e.logger.Trace("matched edit region",
			"selector", strings.Join(rule.segments, " "), "element", ev.Name)
		return nil
	}

	// Unmatched structure streams through immediately
	var sb strings.Builder
	writeOpenTag(&sb, ev.Name, elem.Attributes)
	return e.emit(sb.String())
}

func (e *StreamXmlEditor) handleText(value string) error {
	if e.region == nil {
		e.textContinues = false
		return e.emit(escapeText(value))
	}

	top := e.stack[len(e.stack)-1].elem
	if e.textContinues {
		// Continuation of the same span, split only by chunk arrival
		top.Text += value
	} else {
		// A new span at this element overwrites any earlier one
		top.Text = value
	}
	e.textContinues = true
	return nil
}

func (e *StreamXmlEditor) handleClose(ev *XmlEvent) error {
	e.textContinues = false

	if len(e.stack) == 0 {
		return fmt.Errorf("%w: </%s>", ErrUnexpectedClosingTag, ev.Name)
	}

	top := e.stack[len(e.stack)-1]
	if top.elem.Name != ev.Name {
		return fmt.Errorf("%w: got </%s>, expected </%s>", ErrMismatchedClosingTag, ev.Name, top.elem.Name)
	}
	e.stack = e.stack[:len(e.stack)-1]

	if e.region == nil {
		var sb strings.Builder
		writeCloseTag(&sb, ev.Name)
		return e.emit(sb.String())
	}

	if e.region.root != top.elem {
		// Closed a buffered descendant; it is already linked to its parent
		return nil
	}

	return e.commitRegion()
}

// commitRegion runs the active region's edit callback against a deep copy of
// the buffered subtree and emits, drops or aborts according to its result.
func (e *StreamXmlEditor) commitRegion() error {
	rule := e.region.rule
	root := e.region.root
	e.region = nil

	edited, err := rule.edit(root.Clone())
	if err != nil {
		return err
	}

	if edited == nil {
		e.logger.Trace("dropped edit region", "element", root.Name)
		return nil
	}

	if e.config.Validate {
		if err := validateTree(edited); err != nil {
			return err
		}
	}

	e.logger.Trace("committed edit region", "element", root.Name)

	var sb strings.Builder
	serializeElement(&sb, edited)
	return e.emit(sb.String())
}

// handleDeclaration synthesizes the XML declaration once, from whichever of
// version, encoding and standalone are present, in that order.
func (e *StreamXmlEditor) handleDeclaration(ev *XmlEvent) error {
	if e.declarationEmitted {
		return nil
	}
	e.declarationEmitted = true

	var sb strings.Builder
	sb.WriteString("<?xml")
	if ev.Version != "" {
		sb.WriteString(` version="`)
		sb.WriteString(escapeAttribute(ev.Version))
		sb.WriteByte('"')
	}
	if ev.Encoding != "" {
		sb.WriteString(` encoding="`)
		sb.WriteString(escapeAttribute(ev.Encoding))
		sb.WriteByte('"')
	}
	if ev.Standalone != "" {
		sb.WriteString(` standalone="`)
		sb.WriteString(escapeAttribute(ev.Standalone))
		sb.WriteByte('"')
	}
	sb.WriteString("?>")
	return e.emit(sb.String())
}

func (e *StreamXmlEditor) emit(s string) error {
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(e.out, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
