package xmledit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloneIsDeep(t *testing.T) {
	orig := NewElement("root")
	orig.Attributes["a"] = "1"
	orig.Text = "body"
	child := orig.AddChild(NewElement("child"))
	child.Text = "inner"

	clone := orig.Clone()
	clone.Name = "changed"
	clone.Attributes["a"] = "2"
	clone.Children[0].Text = "mutated"

	if orig.Name != "root" || orig.Attributes["a"] != "1" {
		t.Errorf("mutating the clone changed the original: %+v", orig)
	}
	if orig.Children[0].Text != "inner" {
		t.Errorf("mutating a cloned child changed the original child")
	}
}

func TestCloneEquality(t *testing.T) {
	orig := NewElement("a")
	orig.Attributes["x"] = "1"
	orig.AddChild(NewElement("b")).Text = "t"

	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Errorf("clone differs from original (-want +got):\n%s", diff)
	}
}

func TestValidateTree(t *testing.T) {
	root := NewElement("ok")
	root.AddChild(NewElement("also-ok")).Attributes["fine"] = "1"
	if err := validateTree(root); err != nil {
		t.Errorf("expected valid tree, got %v", err)
	}

	root.AddChild(NewElement("not ok"))
	if err := validateTree(root); !errors.Is(err, ErrInvalidElementName) {
		t.Errorf("expected ErrInvalidElementName for bad child, got %v", err)
	}
}

func TestValidateTreeAttributes(t *testing.T) {
	root := NewElement("ok")
	root.Attributes["1bad"] = "v"
	if err := validateTree(root); !errors.Is(err, ErrInvalidElementName) {
		t.Errorf("expected ErrInvalidElementName for bad attribute, got %v", err)
	}
}
