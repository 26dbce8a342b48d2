// seehuhn.de/go/hilo - a two-tone heatmap layer
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// watcher reports changes to a set of files.  Bursts of events, as
// produced by editors saving a file, are merged into one notification.
type watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration

	// Changed receives a value after each burst of changes.  Sends never
	// block; a pending notification absorbs later ones.
	Changed chan struct{}

	// Errors receives errors reported by the file system.
	Errors chan error
}

// newWatcher watches the directories containing the given files.
// Watching the directory, rather than the file, keeps track of editors
// which replace a file by renaming a new one over it.
func newWatcher(debounce time.Duration, files ...string) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &watcher{
		fs:       fs,
		files:    make(map[string]bool),
		debounce: debounce,
		Changed:  make(chan struct{}, 1),
		Errors:   make(chan error, 1),
	}
	dirs := make(map[string]bool)
	for _, name := range files {
		if name == "" {
			continue
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			fs.Close()
			return nil, err
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, err
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run processes file system events until ctx is cancelled.
func (w *watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			select {
			case w.Changed <- struct{}{}:
			default:
			}
			timer = nil
			fire = nil

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}
