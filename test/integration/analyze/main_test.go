package analyze_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/codeboard-app/codeswitch/test/integration/analyze/support"
)

// testContext holds the global test context.
var testContext *support.TestContext

// InitializeScenario sets up the test context for each scenario.
func InitializeScenario(sc *godog.ScenarioContext) {
	testContext = support.NewTestContext()

	// Register step definitions
	testContext.RegisterServerSteps(sc)
	testContext.RegisterAnalyzeSteps(sc)
	testContext.RegisterCacheSteps(sc)

	// Setup scenario cleanup
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		testContext.Cleanup()
		return ctx, nil
	})
}

// TestFeatures runs the Godog test suite.
func TestFeatures(t *testing.T) {
	// Discover all feature files under the local features directory.
	entries, err := os.ReadDir("features")
	if err != nil {
		t.Fatalf("failed to read features directory: %v", err)
	}

	format := os.Getenv("GODOG_FORMAT")
	if format == "" {
		format = "pretty"
	}
	tags := os.Getenv("GODOG_TAGS")

	found := false
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".feature") {
			continue
		}
		found = true
		featurePath := filepath.Join("features", e.Name())

		t.Run(e.Name(), func(t *testing.T) {
			suite := godog.TestSuite{
				ScenarioInitializer: InitializeScenario,
				Options: &godog.Options{
					Format:   format,
					Tags:     tags,
					Paths:    []string{featurePath},
					TestingT: t,
				},
			}

			if suite.Run() != 0 {
				t.Fatalf("non-zero status returned for %s", featurePath)
			}
		})
	}

	if !found {
		t.Fatalf("no .feature files found in features/")
	}
}
