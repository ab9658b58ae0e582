package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger(t *testing.T, name string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	t.Cleanup(func() {
		SetGlobalDebug(false)
		DisableDebugFor(name)
	})
	return ForService(name), buf
}

func TestInfoCarriesPrefixAndLevel(t *testing.T) {
	l, buf := captureLogger(t, "prefix_test")

	l.Infof("opened %s", "qboard.db")

	assert.Contains(t, buf.String(), "INFO [prefix_test>] opened qboard.db")
}

func TestForServiceMemoizes(t *testing.T) {
	assert.Same(t, ForService("memo_test"), ForService("memo_test"))
	assert.Equal(t, "qboard", ForService("").Name())
}

func TestDebugPerService(t *testing.T) {
	l, buf := captureLogger(t, "debug_one")

	l.Debugf("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	EnableDebugFor("debug_one")
	l.Debugf("visible")
	assert.Contains(t, buf.String(), "DEBUG [debug_one>] visible")
	assert.False(t, DebugEnabledFor("debug_other"))
}

func TestDebugGlobal(t *testing.T) {
	l, buf := captureLogger(t, "debug_global")

	SetGlobalDebug(true)
	assert.True(t, GlobalDebug())
	l.Debugf("everywhere")
	assert.Contains(t, buf.String(), "everywhere")
}

func TestSetOutputRedirectsExistingLoggers(t *testing.T) {
	l := ForService("redirect_test")
	buf := &bytes.Buffer{}
	SetOutput(buf)

	l.Warnf("disk almost full")
	l.Errorf("disk full")

	assert.Contains(t, buf.String(), "WARN [redirect_test>] disk almost full")
	assert.Contains(t, buf.String(), "ERROR [redirect_test>] disk full")
}
