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
	"strings"
)

// pathSep delimits path segments in match keys. NUL can never appear in a
// valid XML name, so prefixing every segment with it makes a plain string
// suffix comparison a whole-segment comparison: the key for selector "foo"
// cannot match an element named "xfoo" or "foobar".
const pathSep = "\x00"

// selectorRule is one parsed selector bound to its edit callback.
type selectorRule struct {
	segments []string
	matchKey string
	edit     EditFunc
}

// parseSelector splits text on whitespace and validates each resulting
// element name. Interior runs of whitespace collapse; leading and trailing
// whitespace is ignored.
func parseSelector(text string, edit EditFunc) (*selectorRule, error) {
	segments := strings.Fields(text)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty selector %q", ErrInvalidSelector, text)
	}

	for _, segment := range segments {
		if !IsValidXmlName(segment) {
			return nil, fmt.Errorf("%w: %q is not a valid element name in selector %q",
				ErrInvalidSelector, segment, text)
		}
	}

	return &selectorRule{
		segments: segments,
		matchKey: pathSep + strings.Join(segments, pathSep),
		edit:     edit,
	}, nil
}

// matches reports whether the rule's ancestor chain is a suffix of the
// current element path.
func (r *selectorRule) matches(path string) bool {
	return strings.HasSuffix(path, r.matchKey)
}

// childPath derives an element path from its parent's path plus one segment.
func childPath(parent, name string) string {
	return parent + pathSep + name
}

// findMatch returns the first rule, in declaration order, whose selector
// matches the given path. It is only consulted while no region is active, so
// the shallowest matching open tag in a branch wins and rules rooted inside
// an already matched region never fire.
func findMatch(rules []*selectorRule, path string) *selectorRule {
	for _, rule := range rules {
		if rule.matches(path) {
			return rule
		}
	}
	return nil
}
