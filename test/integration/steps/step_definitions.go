package steps

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/household-ledger/backend/internal/integration/persistence/model"
	"github.com/household-ledger/backend/test/integration/mock"
)

const defaultPassword = "DefaultPass123!"

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	t.timeMock.SetCurrentTime(now)
	return nil
}

func (t *testContext) aUserExists(username, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return t.db.DbConn.Create(user).Error
}

// iAmRegisteredAs registers through the API and keeps the issued tokens.
func (t *testContext) iAmRegisteredAs(username, email string) error {
	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"name":     "Test User",
		"password": defaultPassword,
	})
	if err := t.executeRequest("POST", "/api/v1/auth/register", payload); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(201); err != nil {
		return err
	}

	t.accessToken, _ = getFieldValue(t.response.body, "access_token").(string)
	t.refreshToken, _ = getFieldValue(t.response.body, "refresh_token").(string)
	if idStr, ok := getFieldValue(t.response.body, "user.id").(string); ok {
		t.userID, _ = uuid.Parse(idStr)
	}
	if t.accessToken == "" {
		return fmt.Errorf("register response carried no access token: %v", t.response.body)
	}
	return nil
}

func (t *testContext) iHaveARootCategory(categoryType, name string) error {
	return t.createCategory(map[string]any{"name": name, "type": categoryType})
}

func (t *testContext) iHaveAChildCategory(name, parent string) error {
	parentID, ok := t.categories[parent]
	if !ok {
		return fmt.Errorf("category %q was not created in this scenario", parent)
	}
	return t.createCategory(map[string]any{"name": name, "parent_id": parentID.String()})
}

func (t *testContext) createCategory(body map[string]any) error {
	payload, _ := json.Marshal(body)
	if err := t.executeRequest("POST", "/api/v1/categories", payload); err != nil {
		return err
	}
	if err := t.theResponseStatusShouldBe(201); err != nil {
		return err
	}
	t.categories[body["name"].(string)] = t.lastID
	return nil
}

func (t *testContext) iHaveATransaction(txType, amount, categoryName, date string) error {
	categoryID, ok := t.categories[categoryName]
	if !ok {
		return fmt.Errorf("category %q was not created in this scenario", categoryName)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	payload, _ := json.Marshal(map[string]any{
		"category_id": categoryID.String(),
		"amount":      value.InexactFloat64(),
		"date":        date,
		"type":        txType,
		"description": categoryName,
	})
	if err := t.executeRequest("POST", "/api/v1/transactions", payload); err != nil {
		return err
	}
	return t.theResponseStatusShouldBe(201)
}

// aTransactionInAMissingCategory writes a row pointing at a category id the user
// does not own, the way a dangling reference looks after a hard delete.
func (t *testContext) aTransactionInAMissingCategory(txType, amount, alias, date string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	categoryID := uuid.New()
	t.categories[alias] = categoryID

	now := time.Now().UTC()
	return t.db.DbConn.Create(&model.TransactionModel{
		ID:          uuid.New(),
		UserID:      t.userID,
		Date:        day.UTC(),
		Description: alias,
		Amount:      value,
		Type:        txType,
		CategoryID:  &categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
}

func (t *testContext) iHaveABasicExpense(amount, categoryName, start, end string) error {
	categoryID, ok := t.categories[categoryName]
	if !ok {
		return fmt.Errorf("category %q was not created in this scenario", categoryName)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	payload, _ := json.Marshal(map[string]any{
		"category_id": categoryID.String(),
		"amount":      value.InexactFloat64(),
		"start_date":  start,
		"end_date":    end,
	})
	if err := t.executeRequest("POST", "/api/v1/basic-expenses", payload); err != nil {
		return err
	}
	return t.theResponseStatusShouldBe(201)
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = t.replacePlaceholders(value)
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	_, err := t.jsonBody()
	return err
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	field = t.replacePlaceholders(field)
	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != t.replacePlaceholders(expectedValue) {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	field = t.replacePlaceholders(field)
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldNotExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	field = t.replacePlaceholders(field)
	if value := getFieldValue(body, field); value != nil {
		return fmt.Errorf("field '%s' expected to be absent, got %v", field, value)
	}
	return nil
}

func (t *testContext) theResponseListShouldHaveItems(field string, quantity int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	items, ok := getFieldValue(body, t.replacePlaceholders(field)).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("expected %d items in '%s', got %d", quantity, field, len(items))
	}
	return nil
}

func (t *testContext) findAll(table string, criteria map[string]any) (int, error) {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		if s, ok := value.(string); ok {
			value = t.replacePlaceholders(s)
		}
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	return entitySlicePtr.Elem().Len(), nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.findAll(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}

	count, err := t.findAll(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

// theReportCacheShouldHoldReports counts cached reports, ignoring per-user version keys.
func (t *testContext) theReportCacheShouldHoldReports(quantity int) error {
	count := 0
	for _, key := range mock.RedisKeys("ledger:report:") {
		if !strings.HasSuffix(key, ":version") {
			count++
		}
	}
	if count != quantity {
		return fmt.Errorf("expected %d cached reports, got %d", quantity, count)
	}
	return nil
}
