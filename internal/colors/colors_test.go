package colors

import (
	"testing"

	"github.com/fatih/color"
)

func TestInit(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	on := true
	off := false

	Init(&on)
	if !Enabled() {
		t.Error("Init(&on) should enable colors")
	}

	Init(&off)
	if Enabled() {
		t.Error("Init(&off) should disable colors")
	}

	Init(nil)
	if Enabled() {
		t.Error("Init(nil) should keep the previous setting")
	}
}

func TestPromptPlain(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	if got := Prompt(); got != "gdecomp: " {
		t.Errorf("Prompt() = %q, want %q with colors disabled", got, "gdecomp: ")
	}
}
