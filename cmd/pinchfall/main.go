package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/adrg/xdg"

	"github.com/ayusman/pinchfall/internal/app"
	"github.com/ayusman/pinchfall/internal/capture"
	"github.com/ayusman/pinchfall/internal/config"
	"github.com/ayusman/pinchfall/internal/event"
	"github.com/ayusman/pinchfall/internal/server"
	"github.com/ayusman/pinchfall/internal/store"
	"github.com/ayusman/pinchfall/internal/tray"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		cameraID   = flag.Int("camera", 0, "camera device index")
		configPath = flag.String("config", "", "config file (default: pinchfall/config.json on the XDG config path)")
		headless   = flag.Bool("headless", false, "run without the system tray")
		record     = flag.Bool("record", false, "record the session's hand input")
		seed       = flag.Uint64("seed", 0, "piece sequence seed (default: time based)")
		width      = flag.Float64("width", 1280, "viewport width in pixels")
		height     = flag.Float64("height", 960, "viewport height in pixels")
	)
	flag.Parse()

	fmt.Println("Pinchfall - falling blocks by hand")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath, err := config.DataPath()
	if err != nil {
		log.Fatalf("Failed to resolve data directory: %v", err)
	}
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	camOpts := capture.DefaultOptions()
	camOpts.Device = *cameraID

	game, err := app.New(app.Config{
		Game:   cfg,
		Store:  st,
		Camera: camOpts,
		Seed:   *seed,
		Width:  *width,
		Height: *height,
		Record: *record,
	})
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Game:      cfg,
		Frames:    game,
		Control:   game,
	})
	game.SetPublisher(srv.Hub())

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := game.Start(); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	defer game.Stop()

	if *headless {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		return
	}

	t := tray.New()
	t.OnToggle(game.SetEnabled)
	t.OnRestart(game.Restart)
	t.OnOpen(func() { openBrowser(boardURL(*addr)) })
	game.OnEvent(func(ev event.Event) {
		if ev.Kind != event.Move && ev.Kind != event.Rotate {
			t.SetLastEvent(ev)
		}
	})
	t.Run()
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load()
	}
	cfg := config.Default()
	err := config.LoadFile(path, &cfg)
	return cfg, err
}

func boardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory next to the working directory and
// in the XDG data directory. Returns "" if none is found.
func findWebDir() string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(xdg.DataHome, "pinchfall", "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
