package engine

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestIsReloadEvent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "catalog.json")

	tests := []struct {
		name      string
		file      string
		operation fsnotify.Op
		want      bool
	}{
		{"write to corpus file", target, fsnotify.Write, true},
		{"corpus file created", target, fsnotify.Create, true},
		{"corpus file renamed", target, fsnotify.Rename, true},
		{"write combined with chmod", target, fsnotify.Write | fsnotify.Chmod, true},
		{"chmod only", target, fsnotify.Chmod, false},
		{"corpus file removed", target, fsnotify.Remove, false},
		{"sibling file written", filepath.Join(dir, "other.json"), fsnotify.Write, false},
		{"editor swap file", filepath.Join(dir, ".catalog.json.swp"), fsnotify.Create, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.file, Op: tt.operation}
			assert.Equal(t, tt.want, isReloadEvent(event, target))
		})
	}
}
