package stdlogger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/logger/adapter/stdlogger"
)

func capture(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func TestAdapterLevels(t *testing.T) {
	buf := capture(t, zerolog.InfoLevel)

	a := stdlogger.New()
	a.Debugf("%s", "hidden")
	a.Infof("info %d", 1)
	a.Warningf("warn %d", 2)
	a.Errorf("error %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"info","message":"info 1"`)
	assert.Contains(t, out, `"level":"warn","message":"warn 2"`)
	assert.Contains(t, out, `"level":"error","message":"error 3"`)
}

func TestAdapterPrint(t *testing.T) {
	buf := capture(t, zerolog.DebugLevel)

	a := stdlogger.New(stdlogger.WithSource("mysql"))
	a.Print("packets.go:37: ", "unexpected EOF\n")
	a.Printf("container %s started\n", "postgres")

	out := buf.String()
	assert.Contains(t, out, `"source":"mysql"`)
	assert.Contains(t, out, `"message":"packets.go:37: unexpected EOF"`)
	assert.Contains(t, out, `"message":"container postgres started"`)
}
