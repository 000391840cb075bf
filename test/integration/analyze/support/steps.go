package support

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/codeboard-app/codeswitch/internal/pipeline"
	"github.com/codeboard-app/codeswitch/internal/server"
)

// RegisterServerSteps registers server lifecycle and plain HTTP steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the analysis server is running$`, testCtx.theAnalysisServerIsRunning)
	sc.Step(`^I request "(GET|POST) ([^"]*)"$`, testCtx.iRequest)
	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response should report status "([^"]*)"$`, testCtx.theResponseShouldReportStatus)
	sc.Step(`^the response should list the language "([^"]*)"$`, testCtx.theResponseShouldListTheLanguage)
}

// RegisterAnalyzeSteps registers analysis request and assertion steps.
func (testCtx *TestContext) RegisterAnalyzeSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I analyze "([^"]*)" with languages "([^"]*)"$`, testCtx.iAnalyzeWithLanguages)
	sc.Step(`^I analyze "([^"]*)" with no languages$`, testCtx.iAnalyzeWithNoLanguages)
	sc.Step(`^the detected languages should include "([^"]*)"$`, testCtx.theDetectedLanguagesShouldInclude)
	sc.Step(`^there should be at least (\d+) switch points?$`, testCtx.thereShouldBeAtLeastSwitchPoints)
	sc.Step(`^there should be exactly (\d+) switch points? at index (\d+)$`, testCtx.thereShouldBeSwitchPointAt)
	sc.Step(`^there should be (\d+) tokens?$`, testCtx.thereShouldBeTokens)
	sc.Step(`^there should be no switch points$`, testCtx.thereShouldBeNoSwitchPoints)
	sc.Step(`^the user language match should be (true|false)$`, testCtx.theUserLanguageMatchShouldBe)
	sc.Step(`^the phrases should partition the tokens$`, testCtx.thePhrasesShouldPartitionTheTokens)
	sc.Step(`^the result should not be a cache hit$`, testCtx.theResultShouldNotBeACacheHit)
	sc.Step(`^the result should be a cache hit$`, testCtx.theResultShouldBeACacheHit)
}

// RegisterCacheSteps registers cache administration steps.
func (testCtx *TestContext) RegisterCacheSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the cache should contain (\d+) entr(?:y|ies)$`, testCtx.theCacheShouldContainEntries)
	sc.Step(`^I clear the cache$`, testCtx.iClearTheCache)
}

func (testCtx *TestContext) theAnalysisServerIsRunning() error {
	return testCtx.StartServer()
}

func (testCtx *TestContext) iRequest(method, path string) error {
	req, err := http.NewRequest(method, testCtx.HTTPServer.URL+path, nil)
	if err != nil {
		return err
	}
	return testCtx.doRequest(req)
}

func (testCtx *TestContext) iAnalyzeWithLanguages(text, langsCSV string) error {
	var langs []string
	for _, l := range strings.Split(langsCSV, ",") {
		langs = append(langs, strings.TrimSpace(l))
	}
	return testCtx.postAnalyze(text, langs)
}

func (testCtx *TestContext) iAnalyzeWithNoLanguages(text string) error {
	return testCtx.postAnalyze(text, nil)
}

func (testCtx *TestContext) postAnalyze(text string, langs []string) error {
	body, err := json.Marshal(server.AnalyzeRequest{
		Text:          text,
		UserLanguages: langs,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, testCtx.HTTPServer.URL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := testCtx.doRequest(req); err != nil {
		return err
	}

	if testCtx.LastStatusCode == http.StatusOK {
		var res pipeline.AnalysisResult
		if err := json.Unmarshal(testCtx.LastBody, &res); err != nil {
			return fmt.Errorf("failed to decode analysis result: %w", err)
		}
		testCtx.LastResult = &res
	}
	return nil
}

func (testCtx *TestContext) doRequest(req *http.Request) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	testCtx.LastStatusCode = resp.StatusCode
	testCtx.LastBody = body
	testCtx.LastResult = nil
	testCtx.LastJSON = nil
	_ = json.Unmarshal(body, &testCtx.LastJSON)
	return nil
}

func (testCtx *TestContext) theResponseStatusShouldBe(expected int) error {
	if testCtx.LastStatusCode != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expected, testCtx.LastStatusCode, testCtx.LastBody)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldReportStatus(expected string) error {
	status, _ := testCtx.LastJSON["status"].(string)
	if status != expected {
		return fmt.Errorf("expected status %q, got %q", expected, status)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldListTheLanguage(code string) error {
	raw, ok := testCtx.LastJSON["languages"].([]interface{})
	if !ok {
		return fmt.Errorf("response has no languages array: %s", testCtx.LastBody)
	}
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if ok && m["code"] == code {
			return nil
		}
	}
	return fmt.Errorf("language %q not listed", code)
}

func (testCtx *TestContext) requireResult() (*pipeline.AnalysisResult, error) {
	if testCtx.LastResult == nil {
		return nil, fmt.Errorf("no analysis result (status %d, body: %s)", testCtx.LastStatusCode, testCtx.LastBody)
	}
	return testCtx.LastResult, nil
}

func (testCtx *TestContext) theDetectedLanguagesShouldInclude(code string) error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	for _, l := range res.DetectedLanguages {
		if l == code {
			return nil
		}
	}
	return fmt.Errorf("detected languages %v do not include %q", res.DetectedLanguages, code)
}

func (testCtx *TestContext) thereShouldBeAtLeastSwitchPoints(n int) error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	if len(res.SwitchPoints) < n {
		return fmt.Errorf("expected at least %d switch points, got %v", n, res.SwitchPoints)
	}
	return nil
}

func (testCtx *TestContext) thereShouldBeSwitchPointAt(n, index int) error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	if len(res.SwitchPoints) != n {
		return fmt.Errorf("expected %d switch points, got %v", n, res.SwitchPoints)
	}
	if n > 0 && res.SwitchPoints[0] != index {
		return fmt.Errorf("expected first switch point at %d, got %v", index, res.SwitchPoints)
	}
	return nil
}

func (testCtx *TestContext) thereShouldBeTokens(n int) error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	if len(res.Tokens) != n {
		return fmt.Errorf("expected %d tokens, got %d", n, len(res.Tokens))
	}
	return nil
}

func (testCtx *TestContext) thereShouldBeNoSwitchPoints() error {
	return testCtx.thereShouldBeSwitchPointAt(0, 0)
}

func (testCtx *TestContext) theUserLanguageMatchShouldBe(expected string) error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	want := expected == "true"
	if res.UserLanguageMatch != want {
		return fmt.Errorf("expected userLanguageMatch=%v, got %v", want, res.UserLanguageMatch)
	}
	return nil
}

func (testCtx *TestContext) thePhrasesShouldPartitionTheTokens() error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	var words []string
	for _, p := range res.Phrases {
		words = append(words, p.Words...)
	}
	if len(words) != len(res.Tokens) {
		return fmt.Errorf("phrases cover %d words, tokens are %d", len(words), len(res.Tokens))
	}
	for i, w := range words {
		if w != res.Tokens[i].Word {
			return fmt.Errorf("phrase word %d is %q, token is %q", i, w, res.Tokens[i].Word)
		}
	}
	return nil
}

func (testCtx *TestContext) theResultShouldNotBeACacheHit() error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	if res.CacheHit {
		return fmt.Errorf("expected a cache miss, got a hit")
	}
	return nil
}

func (testCtx *TestContext) theResultShouldBeACacheHit() error {
	res, err := testCtx.requireResult()
	if err != nil {
		return err
	}
	if !res.CacheHit {
		return fmt.Errorf("expected a cache hit, got a miss")
	}
	return nil
}

func (testCtx *TestContext) theCacheShouldContainEntries(n int) error {
	if size := testCtx.Cache.GetStats().Size; size != n {
		return fmt.Errorf("expected %d cache entries, got %d", n, size)
	}
	return nil
}

func (testCtx *TestContext) iClearTheCache() error {
	return testCtx.iRequest(http.MethodPost, "/cache/clear")
}
