package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/sqweek/dialog"
)

// baseDir anchors settings, config, logs and assets next to the executable's
// working directory.
var baseDir = "."

func main() {
	server := flag.String("server", "ws://127.0.0.1:4120/ws", "game server websocket URL")
	name := flag.String("name", "", "character name (defaults to the last used)")
	token := flag.String("token", "", "auth token")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if wd, err := os.Getwd(); err == nil {
		baseDir = wd
	}

	loadSettings()
	setupLogging(*debugFlag)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
			panic(r)
		}
	}()

	if err := loadConfig(); err != nil {
		fatalStartup("bad config.yaml: " + err.Error())
	}

	character := *name
	if character == "" {
		character = gs.LastCharacter
	}
	if character == "" {
		character = "survivor"
	}
	gs.LastCharacter = character

	initPalette()
	initSoundContext()

	assetDir := filepath.Join(baseDir, "assets")
	manifest, err := loadManifest(assetDir)
	if err != nil {
		fatalStartup("asset manifest: " + err.Error())
	}
	go loadSprites(assetDir, manifest)
	go loadSounds(assetDir, manifest)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initDiscordRPC(ctx, character)

	sink := newIntentSink(256)
	g := newGame(sink)
	go runReplication(ctx, *server, character, *token, sink)

	applySettings()
	runGame(g)

	saveSettings()
}

// fatalStartup reports an unrecoverable pre-window error in a native dialog
// and exits. Once the game window exists, errors go to the banner instead.
func fatalStartup(msg string) {
	logError("%s", msg)
	dialog.Message("%s", msg).Title("Emberwild").Error()
	os.Exit(1)
}
