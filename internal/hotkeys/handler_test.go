package hotkeys

import (
	"errors"
	"testing"

	"github.com/1broseidon/winstate/internal/config"
	"github.com/1broseidon/winstate/internal/platform"
)

type fakeCommands struct {
	calls []string
}

func (f *fakeCommands) ToggleFullscreen() error {
	f.calls = append(f.calls, "fullscreen")
	return nil
}

func (f *fakeCommands) ToggleMaximize() error {
	f.calls = append(f.calls, "maximize")
	return nil
}

func (f *fakeCommands) ClipCursor() error {
	f.calls = append(f.calls, "clip")
	return nil
}

func (f *fakeCommands) RestoreCursorClip() error {
	f.calls = append(f.calls, "unclip")
	return errors.New("not captured")
}

func TestBindings_SkipsEmptySequences(t *testing.T) {
	cmds := &fakeCommands{}
	cfg := config.HotkeyConfig{
		ToggleFullscreen: "Mod4-Shift-f",
		ClipCursor:       "Mod4-c",
	}

	got := bindings(cfg, cmds)
	if len(got) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(got))
	}
	if got[0].name != "toggle_fullscreen" || got[0].sequence != "Mod4-Shift-f" {
		t.Fatalf("unexpected first binding %#v", got[0])
	}
	if got[1].name != "clip_cursor" || got[1].sequence != "Mod4-c" {
		t.Fatalf("unexpected second binding %#v", got[1])
	}

	for _, b := range got {
		if err := b.run(); err != nil {
			t.Fatalf("run %s: %v", b.name, err)
		}
	}
	if len(cmds.calls) != 2 || cmds.calls[0] != "fullscreen" || cmds.calls[1] != "clip" {
		t.Fatalf("unexpected calls %v", cmds.calls)
	}
}

func TestBindings_DefaultConfig(t *testing.T) {
	got := bindings(config.DefaultConfig().Hotkeys, &fakeCommands{})
	if len(got) != 2 {
		t.Fatalf("expected default fullscreen and maximize bindings, got %d", len(got))
	}
}

func TestNewHandler_RequiresX11Backend(t *testing.T) {
	sim := platform.NewSimulated(platform.Rect{Width: 640, Height: 480})
	if _, err := NewHandler(sim, nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
