//go:build integration || database

package integration

import (
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	// sharedStorecastPath holds the path to a shared storecast binary built once for all tests.
	sharedStorecastPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getStorecastBinary returns the path to the storecast binary, building it once if needed.
func getStorecastBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "storecast-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		storecastPath := filepath.Join(tempDir, "storecast")
		buildCmd := exec.Command("go", "build", "-o", storecastPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build storecast: %v", err))
		}

		sharedStorecastPath = storecastPath
	})

	return sharedStorecastPath
}

// stubEndpoints serves canned prediction responses and counts the calls per endpoint.
type stubEndpoints struct {
	server         *httptest.Server
	forecastCalls  atomic.Int32
	recommendCalls atomic.Int32
}

func (s *stubEndpoints) forecastURL() string  { return s.server.URL + "/forecast" }
func (s *stubEndpoints) recommendURL() string { return s.server.URL + "/recommend" }

func startStubEndpoints(t *testing.T) *stubEndpoints {
	t.Helper()
	stub := &stubEndpoints{}
	mux := nethttp.NewServeMux()
	mux.HandleFunc("POST /forecast", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		stub.forecastCalls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"prediction":[
			{"Date":"2012-10-19 00:00:00","Sales":16500.5},
			{"Date":"2012-10-05 00:00:00","Sales":15000},
			{"Date":"2012-10-12 00:00:00","Sales":15800.25}]}`)
	})
	mux.HandleFunc("POST /recommend", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		stub.recommendCalls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"manufacturer":"Solimo","name":"Laundry Bag","ratings":"4.1","no_of_ratings":"2,255","discount_price":"₹299","actual_price":"₹599"}]`)
	})
	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

// runStorecast runs the binary from the project root and returns its combined output.
func runStorecast(t *testing.T, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getStorecastBinary(), args...)
	cmd.Dir = "../" // Run from project root
	cmd.Env = append(os.Environ(), env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
