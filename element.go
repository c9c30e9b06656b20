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

import "fmt"

// XmlElement is one XML element of a buffered edit region: a name, an
// attribute map, an optional text span and ordered child elements.
// At most one text span is kept per element; a later text event at the
// same element overwrites an earlier one.
type XmlElement struct {
	Name       string
	Attributes map[string]string
	Text       string
	Children   []*XmlElement
}

// NewElement creates a new element with the given name. The name is not
// checked here; an invalid name fails later validation if validation is
// enabled on the editor.
func NewElement(name string) *XmlElement {
	return &XmlElement{
		Name:       name,
		Attributes: make(map[string]string),
		Children:   make([]*XmlElement, 0),
	}
}

// AddChild appends child to the element's children and returns it.
func (e *XmlElement) AddChild(child *XmlElement) *XmlElement {
	e.Children = append(e.Children, child)
	return child
}

// Clone returns a deep copy of the element. The copy shares no memory with
// the original, so either side can be mutated or discarded freely.
func (e *XmlElement) Clone() *XmlElement {
	clone := &XmlElement{
		Name:       e.Name,
		Attributes: make(map[string]string, len(e.Attributes)),
		Text:       e.Text,
		Children:   make([]*XmlElement, 0, len(e.Children)),
	}
	for k, v := range e.Attributes {
		clone.Attributes[k] = v
	}
	for _, child := range e.Children {
		clone.Children = append(clone.Children, child.Clone())
	}
	return clone
}

// validateTree recursively checks every element and attribute name in the
// subtree against the XML Name grammar.
func validateTree(e *XmlElement) error {
	if !IsValidXmlName(e.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidElementName, e.Name)
	}
	for attr := range e.Attributes {
		if !IsValidXmlName(attr) {
			return fmt.Errorf("%w: attribute %q on element %q", ErrInvalidElementName, attr, e.Name)
		}
	}
	for _, child := range e.Children {
		if err := validateTree(child); err != nil {
			return err
		}
	}
	return nil
}
