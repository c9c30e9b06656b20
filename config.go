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

import "github.com/hashicorp/go-hclog"

// EditorConfig holds configuration options for the StreamXmlEditor
type EditorConfig struct {
	// Validate enables recursive name validation of subtrees returned by
	// edit callbacks (default: true)
	Validate bool

	// MaxDepth limits the maximum nesting depth of XML elements (default: 100)
	MaxDepth int

	// MaxBufferSize limits the maximum size of the tokenizer buffer in bytes (default: 10MB)
	MaxBufferSize int

	// BufferCleanupThreshold determines when to compact consumed buffer data in bytes (default: 1KB)
	BufferCleanupThreshold int

	// Logger receives trace-level region match/commit events.
	// If nil, logging is disabled.
	Logger hclog.Logger
}

// DefaultEditorConfig returns the default editor configuration
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		Validate:               true,
		MaxDepth:               100,
		MaxBufferSize:          10 * 1024 * 1024, // 10MB
		BufferCleanupThreshold: 1024,             // 1KB
	}
}

// check reports whether the configuration is usable
func (c EditorConfig) check() error {
	if c.MaxDepth < 1 {
		return ErrInvalidConfiguration
	}
	if c.MaxBufferSize < 1024 {
		return ErrInvalidConfiguration
	}
	if c.BufferCleanupThreshold < 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
