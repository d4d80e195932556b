package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/track"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	var (
		sourceName = flag.String("source", "camera", "tracking source: camera, mqtt, or ws")
		device     = flag.Int("device", 0, "camera device ID for the camera source")
		fps        = flag.Int("fps", 0, "camera capture rate, 0 for the default")
		broker     = flag.String("broker", "tcp://localhost:1883", "MQTT broker URL for the mqtt source")
		topic      = flag.String("topic", "", "MQTT frame topic, empty for the default")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "", "tuning config file, empty for ~/.mudra/tuning.yaml")
	)
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Interaction")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	tuning, err := loadTuning(st, *configPath, dataDir)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}

	// Select the tracking source. The ws source has no device of its own;
	// frames arrive over the server's /api/frames endpoint.
	var (
		source track.Source
		ingest *track.PushSource
	)
	switch *sourceName {
	case "camera":
		source, err = track.NewMediaPipeSource(*device, *fps)
		if err != nil {
			log.Fatalf("Failed to open camera source: %v", err)
		}
	case "mqtt":
		source, err = track.NewMQTTSource(*broker, "mudra-engine", *topic)
		if err != nil {
			log.Fatalf("Failed to connect MQTT source: %v", err)
		}
	case "ws":
		ingest = track.NewPushSource()
		source = ingest
	default:
		log.Fatalf("Unknown source %q (want camera, mqtt, or ws)", *sourceName)
	}

	events := server.NewEventHub()

	engine := app.New(app.Config{
		Store:   st,
		Tuning:  tuning,
		Source:  source,
		Publish: events.Publish,
	})
	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start frame loop: %v", err)
	}

	srv := server.New(server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		Tuning:    engine,
		Ingest:    ingest,
		Events:    events,
	})
	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread; everything else runs behind it.
	tr := tray.New()
	tr.OnToggle(engine.SetEnabled)
	tr.OnQuit(engine.Stop)
	tr.OnSettings(func() {
		if err := openBrowser(dashboardURL(*addr)); err != nil {
			log.Printf("Failed to open settings dashboard: %v", err)
		}
	})
	engine.OnGesture(func(name string) {
		tr.SetLastGesture(name)
		tr.SetMode(engine.Mode())
	})
	tr.Run()
}

// loadTuning builds the effective tuning: defaults, then the config file,
// then any override document saved through the tuning API.
func loadTuning(st *store.Store, path, dataDir string) (*config.Tuning, error) {
	if path == "" {
		path = filepath.Join(dataDir, "tuning.yaml")
	}

	tuning, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	saved, err := st.Settings().Get(store.TuningKey)
	if errors.Is(err, store.ErrNotFound) {
		return tuning, nil
	}
	if err != nil {
		return nil, err
	}
	if err := tuning.ApplyYAML([]byte(saved)); err != nil {
		return nil, fmt.Errorf("invalid saved tuning override: %w", err)
	}
	return tuning, nil
}

// dashboardURL turns a listen address into a browsable URL.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the platform's default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
