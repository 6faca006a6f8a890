package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/richinsley/forwardgl/shader"
)

// effectSource tracks the post effect fragment shader. File based effects
// are reloaded when the file changes; a source that fails to compile is
// dropped in favor of the last one that worked.
type effectSource struct {
	path     string
	current  string
	lastGood string
	watcher  *fsnotify.Watcher
}

func newEffectSource(name string) (*effectSource, error) {
	switch name {
	case "", "none", "copy":
		return &effectSource{current: shader.CopyEffect, lastGood: shader.CopyEffect}, nil
	case "grayscale":
		return &effectSource{current: shader.GrayscaleEffect, lastGood: shader.GrayscaleEffect}, nil
	}

	path, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to watch effect: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch effect: %w", err)
	}
	log.Printf("Watching %s for changes", path)
	return &effectSource{path: path, current: string(src), lastGood: shader.CopyEffect, watcher: watcher}, nil
}

// poll picks up pending file changes without blocking.
func (e *effectSource) poll() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if event.Name != e.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			src, err := os.ReadFile(e.path)
			if err != nil {
				log.Printf("Error reloading effect: %v", err)
				continue
			}
			if string(src) != e.current {
				log.Printf("Reloading effect %s", e.path)
				e.current = string(src)
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Effect watcher error: %v", err)
		default:
			return
		}
	}
}

// succeeded records that the current source compiled.
func (e *effectSource) succeeded() { e.lastGood = e.current }

// failed reverts to the last source that compiled.
func (e *effectSource) failed(err error) {
	log.Printf("Effect failed, reverting: %v", err)
	e.current = e.lastGood
}

func (e *effectSource) Close() {
	if e.watcher != nil {
		e.watcher.Close()
	}
}
