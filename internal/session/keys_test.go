package session

import (
	"testing"

	"taskline/internal/config"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		defaults []string
		want     []string
	}{
		{"empty uses defaults", "", []string{"a"}, []string{"a"}},
		{"single", "n", []string{"a"}, []string{"n"}},
		{"list with spaces", " n , ctrl+n ", nil, []string{"n", "ctrl+n"}},
		{"space alias", "space,t", nil, []string{" ", "t"}},
		{"only commas", ",,", []string{"a"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseKeys(tt.input, tt.defaults...)
			if len(got) != len(tt.want) {
				t.Fatalf("parseKeys(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseKeys(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewKeyMap_Custom(t *testing.T) {
	keys := NewKeyMap(&config.KeysConfig{AddTask: "n", ToggleTask: "space,t", Confirm: "ctrl+s"})

	if !Matches("n", keys.Add) || Matches("a", keys.Add) {
		t.Error("custom add key not applied")
	}
	if !Matches(KeySpace, keys.Toggle) || !Matches("t", keys.Toggle) {
		t.Error("toggle keys not parsed")
	}
	if !Matches("ctrl+s", keys.Apply) || !Matches(KeyTab, keys.Apply) {
		t.Error("apply should combine confirm and reorder keys")
	}
}

func TestMatches_Disabled(t *testing.T) {
	keys := DefaultKeyMap()
	keys.Quit.SetEnabled(false)
	if Matches("q", keys.Quit) {
		t.Error("disabled binding matched")
	}
}

func TestModeString(t *testing.T) {
	if ModeReorder.String() != "dnd" || ModeDeleteConfirm.String() != "deleteConfirm" {
		t.Errorf("mode names = %s, %s", ModeReorder, ModeDeleteConfirm)
	}
	if !ModeDate.TakesText() || ModeSort.TakesText() {
		t.Error("TakesText mismatch")
	}
}
