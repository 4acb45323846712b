package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/Mohammed0101-lgtm/shahrazad/internal/engine"
	"github.com/Mohammed0101-lgtm/shahrazad/internal/uci"
)

// defaultNetFile is the NNUE weights filename looked up next to the binary.
const defaultNetFile = "shahrazad.nnue"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	// Create engine with 64MB hash table
	// Multi-threaded search enabled (Lazy SMP)
	eng := engine.NewEngine(64)

	// Auto-load NNUE from default locations
	if err := autoLoadNNUE(eng); err != nil {
		log.Printf("Warning: NNUE not loaded: %v (using classical evaluation)", err)
	}

	// Create and run UCI protocol handler
	protocol := uci.New(eng)
	protocol.Run()
}

// autoLoadNNUE attempts to load NNUE weights from standard locations.
func autoLoadNNUE(eng *engine.Engine) error {
	searchPaths := []string{
		filepath.Join(getHomeDir(), ".shahrazad", defaultNetFile), // ~/.shahrazad/shahrazad.nnue
		filepath.Join("./nnue", defaultNetFile),                   // ./nnue/shahrazad.nnue
		defaultNetFile,                                            // current directory
	}

	for _, path := range searchPaths {
		if !fileExists(path) {
			continue
		}
		if err := eng.LoadNNUE(path); err != nil {
			log.Printf("Failed to load NNUE from %s: %v", path, err)
			continue
		}
		eng.SetUseNNUE(true)
		log.Printf("NNUE loaded from %s", path)
		return nil
	}

	return os.ErrNotExist
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
