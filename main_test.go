package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/wsp-space/evt-25harukada/Config"
)

func TestSetupLogging(t *testing.T) {
	if err := setupLogging(Config.Log{Level: "warning", Format: "json"}, false); nil != err {
		t.Fatalf("setupLogging() = %v", err)
	}
	if logrus.WarnLevel != log.Level {
		t.Errorf("level = %v, want warning", log.Level)
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("json format was not applied")
	}
	if err := setupLogging(Config.Log{Level: "info"}, true); nil != err || logrus.DebugLevel != log.Level {
		t.Errorf("-debug must force debug level, got %v, %v", log.Level, err)
	}
	if err := setupLogging(Config.Log{Level: "loud", Format: "text"}, false); nil == err {
		t.Error("unknown level must be reported")
	}
}

func TestRunReturnsStartupErrors(t *testing.T) {
	if err := run("does-not-exist.json5", false); nil == err {
		t.Error("run with a missing config must fail")
	}
	dir, err := ioutil.TempDir("", "e220main")
	if nil != err {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "link.json5")
	data := []byte(`{lines: {driver: "gpiocdev", chip: "no-such-gpiochip", m0: "5", m1: "6"}}`)
	if err := ioutil.WriteFile(path, data, 0644); nil != err {
		t.Fatal(err)
	}
	if err := run(path, false); nil == err {
		t.Error("run with lines that cannot be opened must fail")
	}
}
