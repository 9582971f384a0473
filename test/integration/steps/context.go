// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/household-ledger/backend/config"
	"github.com/household-ledger/backend/internal/infra/dependency"
	"github.com/household-ledger/backend/internal/infra/logger"
	"github.com/household-ledger/backend/internal/integration/persistence/model"
	"github.com/household-ledger/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

type testContext struct {
	uri          string
	headers      map[string]string
	client       *http.Client
	response     *response
	db           *mock.Db
	timeMock     *mock.Time
	accessToken  string
	refreshToken string
	userID       uuid.UUID
	lastID       uuid.UUID
	categories   map[string]uuid.UUID
}

type response struct {
	status int
	body   any
}

var (
	serverInit     sync.Once
	serverInitErr  error
	testDB         *mock.Db
	testClock      *mock.Time
	testServerPort int
	portInit       sync.Once
)

func initializePort() {
	portInit.Do(func() {
		testServerPort = findAvailablePort()
		_ = os.Setenv("SERVER_PORT", strconv.Itoa(testServerPort))
		_ = os.Setenv("ENV", "test")
		_ = os.Setenv("JWT_SECRET", testJWTSecret)
	})
}

// InitializeTestSuite sets up resources shared by every scenario.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
		initializePort()
		logger.Init("test")
		testDB = mock.NewDb(model.AllModels()...)
		testClock = mock.NewTime()
	})

	ctx.AfterSuite(func() {
		logger.Sync()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	initializePort()

	test := &testContext{
		uri:    fmt.Sprintf("http://localhost:%d", testServerPort),
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the current time is "([^"]*)"$`, test.theCurrentTimeIs)

	// User setup steps
	ctx.Given(`^a user exists with username "([^"]*)", email "([^"]*)" and password "([^"]*)"$`, test.aUserExists)
	ctx.Given(`^I am registered as "([^"]*)" with email "([^"]*)"$`, test.iAmRegisteredAs)

	// Ledger setup steps
	ctx.Given(`^I have an? "(income|expense)" category "([^"]*)"$`, test.iHaveARootCategory)
	ctx.Given(`^I have a category "([^"]*)" under "([^"]*)"$`, test.iHaveAChildCategory)
	ctx.Given(`^I have an? "(income|expense)" transaction of "([^"]*)" in "([^"]*)" on "([^"]*)"$`, test.iHaveATransaction)
	ctx.Given(`^an? "(income|expense)" transaction of "([^"]*)" exists in a missing category "([^"]*)" on "([^"]*)"$`, test.aTransactionInAMissingCategory)
	ctx.Given(`^I have a basic expense of "([^"]*)" in "([^"]*)" from "([^"]*)" to "([^"]*)"$`, test.iHaveABasicExpense)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should not exist$`, test.theResponseFieldShouldNotExist)
	ctx.Then(`^the response list "([^"]*)" should have (\d+) items?$`, test.theResponseListShouldHaveItems)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)

	// Cache assertion steps
	ctx.Then(`^the report cache should hold (\d+) reports?$`, test.theReportCacheShouldHoldReports)
}

func findAvailablePort() int {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		panic(err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.userID = uuid.Nil
	t.lastID = uuid.Nil
	t.categories = make(map[string]uuid.UUID)
	t.db = testDB
	t.timeMock = testClock

	if t.timeMock != nil {
		t.timeMock.Reset()
	}
	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}
	if t.db != nil {
		return t.db.ClearDB()
	}
	return nil
}

func (t *testContext) startServer() error {
	serverInit.Do(func() {
		cfg := config.Load()
		injector := dependency.NewInjector(cfg, testDB.DbConn, mock.NewRedis(), testClock, logger.Get())
		engine, err := injector.Router.Setup(cfg.Server.Environment)
		if err != nil {
			serverInitErr = err
			return
		}

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", testServerPort),
			Handler: engine,
		}
		go func() {
			_ = server.ListenAndServe()
		}()
	})
	if serverInitErr != nil {
		return fmt.Errorf("failed to set up router: %w", serverInitErr)
	}

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready on %s", t.uri)
}

// replacePlaceholders substitutes {{access_token}}, {{refresh_token}}, {{user_id}},
// {{id}} and {{category:Name}} with values captured earlier in the scenario.
func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{user_id}}", t.userID.String())
	content = strings.ReplaceAll(content, "{{id}}", t.lastID.String())

	for name, id := range t.categories {
		content = strings.ReplaceAll(content, "{{category:"+name+"}}", id.String())
	}

	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	if idStr, ok := responseBody["id"].(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.lastID = id
		}
	}

	return nil
}

// getFieldValue walks a decoded JSON document along a dot separated path.
// Numeric segments index into arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i >= 0 && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
