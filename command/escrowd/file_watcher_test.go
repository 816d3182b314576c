// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fixtures"
)

func TestFileWatcherEvents(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	dir, err := ioutil.TempDir("", "watcher")
	assert.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "escrowd.conf")
	err = ioutil.WriteFile(fileName, []byte("return {}\n"), 0600)
	assert.Nil(t, err, "write")

	channels := newWatcherChannel()
	w, err := newFileWatcher(fileName, logger.New(fixtures.LogCategory), channels)
	assert.Nil(t, err, "wrong newFileWatcher")
	defer w.Stop()

	err = w.Start()
	assert.Nil(t, err, "wrong Start")

	err = ioutil.WriteFile(fileName, []byte("return { chain = \"local\" }\n"), 0600)
	assert.Nil(t, err, "rewrite")

	select {
	case <-channels.change:
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}

	err = os.Remove(fileName)
	assert.Nil(t, err, "remove")

	select {
	case <-channels.remove:
	case <-time.After(5 * time.Second):
		t.Fatal("no remove event")
	}
}

func TestFileWatcherMissingFile(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, err := newFileWatcher("/nonexistent/escrowd.conf", logger.New(fixtures.LogCategory), newWatcherChannel())
	assert.NotNil(t, err, "watched missing file")
}

func TestWatcherEventClassification(t *testing.T) {
	assert.True(t, watcherEventFileRemove(fsnotify.Event{Name: "", Op: fsnotify.Write}), "empty name")
	assert.True(t, watcherEventFileRemove(fsnotify.Event{Name: "a", Op: fsnotify.Remove}), "remove")
	assert.True(t, watcherEventFileRemove(fsnotify.Event{Name: "a", Op: fsnotify.Rename}), "rename")
	assert.False(t, watcherEventFileRemove(fsnotify.Event{Name: "a", Op: fsnotify.Write}), "write")

	assert.True(t, watcherEventFileChange(fsnotify.Event{Name: "a", Op: fsnotify.Write}), "write")
	assert.True(t, watcherEventFileChange(fsnotify.Event{Name: "a", Op: fsnotify.Chmod}), "chmod")
	assert.False(t, watcherEventFileChange(fsnotify.Event{Name: "a", Op: fsnotify.Create}), "create")
}
