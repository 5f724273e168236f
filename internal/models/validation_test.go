package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testValidator(domain CategoryDomain) *SchemaValidator {
	return NewSchemaValidator(domain, func() time.Time { return fixedNow })
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func validInput() *EventInput {
	return &EventInput{
		Title:       "Jazz Night",
		Description: "Live jazz by the river",
		Date:        "2025-06-15",
		Time:        "20:00",
		Location:    "Riverside Hall",
		Category:    "music",
		Capacity:    intPtr(50),
		Price:       floatPtr(0),
	}
}

func violationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	out := make(map[string]string, len(verr.Violations))
	for _, v := range verr.Violations {
		out[v.Field] = v.Message
	}
	return out
}

func TestValidateEventAcceptsFreeEvent(t *testing.T) {
	sv := testValidator(CatalogCategories)
	in := validInput()

	require.NoError(t, sv.ValidateEvent(in))
	assert.Equal(t, "2025-06-15", in.Date)
}

func TestValidateEventReportsEveryMissingField(t *testing.T) {
	sv := testValidator(CatalogCategories)

	fields := violationFields(t, sv.ValidateEvent(&EventInput{}))
	for _, f := range []string{"title", "description", "date", "time", "location", "category", "capacity", "price"} {
		assert.Equal(t, "is required", fields[f], f)
	}
}

func TestValidateEventFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *EventInput)
		field   string
		message string
	}{
		{"short title", func(in *EventInput) { in.Title = "ab" }, "title", "must be at least 3 characters"},
		{"long title", func(in *EventInput) { in.Title = strings.Repeat("x", 101) }, "title", "must be at most 100 characters"},
		{"short description", func(in *EventInput) { in.Description = "too short" }, "description", "must be at least 10 characters"},
		{"past date", func(in *EventInput) { in.Date = "2024-12-31" }, "date", "must be a valid date in the future"},
		{"today at midnight", func(in *EventInput) { in.Date = "2025-01-01" }, "date", "must be a valid date in the future"},
		{"garbage date", func(in *EventInput) { in.Date = "next friday" }, "date", "must be a valid date in the future"},
		{"bad time", func(in *EventInput) { in.Time = "25:00" }, "time", "must be a 24-hour time formatted HH:MM"},
		{"short location", func(in *EventInput) { in.Location = "Hall" }, "location", "must be at least 5 characters"},
		{"unknown category", func(in *EventInput) { in.Category = "otaku" }, "category", "must be one of: " + CatalogCategories.String()},
		{"zero capacity", func(in *EventInput) { in.Capacity = intPtr(0) }, "capacity", "must be at least 1"},
		{"huge capacity", func(in *EventInput) { in.Capacity = intPtr(10001) }, "capacity", "must be at most 10000"},
		{"negative price", func(in *EventInput) { in.Price = floatPtr(-1) }, "price", "must be at least 0"},
		{"bad image url", func(in *EventInput) { in.ImageURL = strPtr("not a url") }, "image_url", "must be a valid URL"},
		{"bad website", func(in *EventInput) { in.Website = strPtr("example") }, "website", "must be a valid URL"},
		{"latitude out of range", func(in *EventInput) { in.Latitude = floatPtr(91) }, "latitude", "must be at most 90"},
		{"longitude out of range", func(in *EventInput) { in.Longitude = floatPtr(-181) }, "longitude", "must be at least -180"},
		{"owner not a uuid", func(in *EventInput) { in.UserID = strPtr("u1") }, "user_id", "must be a valid UUID"},
	}

	sv := testValidator(CatalogCategories)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			fields := violationFields(t, sv.ValidateEvent(in))
			assert.Equal(t, tt.message, fields[tt.field])
			assert.Len(t, fields, 1)
		})
	}
}

func TestValidateEventNormalizes(t *testing.T) {
	sv := testValidator(CatalogCategories)
	in := validInput()
	in.Title = "  Jazz Night  "
	in.Date = "2025-06-15T18:30:00Z"
	in.Time = "9:30"
	in.ImageURL = strPtr("   ")

	require.NoError(t, sv.ValidateEvent(in))
	assert.Equal(t, "Jazz Night", in.Title)
	assert.Equal(t, "2025-06-15", in.Date)
	assert.Nil(t, in.ImageURL)
}

func TestCategoryDomainsAreSeparate(t *testing.T) {
	assert.Equal(t, MapCategories.Name, testValidator(MapCategories).Domain().Name)

	in := validInput()
	in.Category = "otaku"
	assert.Error(t, testValidator(CatalogCategories).ValidateEvent(in))

	in = validInput()
	in.Category = "otaku"
	assert.NoError(t, testValidator(MapCategories).ValidateEvent(in))

	in = validInput()
	in.Category = "business"
	fields := violationFields(t, testValidator(MapCategories).ValidateEvent(in))
	assert.Equal(t, "must be one of: "+MapCategories.String(), fields["category"])
}

func TestCategoryDomainByName(t *testing.T) {
	d, err := CategoryDomainByName("")
	require.NoError(t, err)
	assert.Equal(t, CatalogCategories.Name, d.Name)

	d, err = CategoryDomainByName(" MAP ")
	require.NoError(t, err)
	assert.Equal(t, MapCategories.Name, d.Name)

	_, err = CategoryDomainByName("both")
	assert.Error(t, err)
}

func TestValidatePatchChecksOnlyPresentFields(t *testing.T) {
	sv := testValidator(CatalogCategories)

	empty := &EventPatch{}
	require.NoError(t, sv.ValidatePatch(empty))
	assert.True(t, empty.IsEmpty())

	priceOnly := &EventPatch{Price: floatPtr(25)}
	require.NoError(t, sv.ValidatePatch(priceOnly))
	assert.Equal(t, map[string]interface{}{"price": 25.0}, priceOnly.Columns())

	fields := violationFields(t, sv.ValidatePatch(&EventPatch{Title: strPtr("ab"), Category: strPtr("otaku")}))
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "category")
	assert.Len(t, fields, 2)
}

func TestValidatePatchNormalizesDateAndClearsUrls(t *testing.T) {
	sv := testValidator(CatalogCategories)
	p := &EventPatch{Date: strPtr("2025-07-01T10:00:00Z"), ImageURL: strPtr(""), Website: strPtr("  ")}

	require.NoError(t, sv.ValidatePatch(p))
	cols := p.Columns()
	assert.Equal(t, "2025-07-01", cols["date"])
	assert.Contains(t, cols, "image_url")
	assert.Nil(t, cols["image_url"])
	assert.Nil(t, cols["website"])

	img := "https://img.example/a.png"
	e := &Event{Title: "Keep", ImageURL: &img, Website: &img}
	p.ApplyTo(e)
	assert.Equal(t, "Keep", e.Title)
	assert.Equal(t, "2025-07-01", e.Date)
	assert.Nil(t, e.ImageURL)
	assert.Nil(t, e.Website)
}

func TestValidateAuthPayloads(t *testing.T) {
	sv := testValidator(CatalogCategories)

	fields := violationFields(t, sv.Struct(&SignupRequest{
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
		FullName:        "Ana",
	}))
	assert.Equal(t, "passwords do not match", fields["confirm_password"])

	fields = violationFields(t, sv.Struct(&LoginRequest{Email: "nope", Password: "123"}))
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at least 6 characters", fields["password"])

	fields = violationFields(t, sv.Struct(&JoinRequest{}))
	assert.Equal(t, "is required", fields["user_id"])
}

func TestDecodeViolation(t *testing.T) {
	var in EventInput

	err := json.NewDecoder(strings.NewReader("")).Decode(&in)
	assert.Equal(t, "request body is required", DecodeViolation(err).Violations[0].Message)

	err = json.Unmarshal([]byte(`{"capacity":"ten"}`), &in)
	v := DecodeViolation(err).Violations[0]
	assert.Equal(t, "capacity", v.Field)
	assert.Equal(t, "must be of type integer", v.Message)

	err = json.Unmarshal([]byte(`{"title":`), &in)
	assert.Equal(t, "malformed JSON", DecodeViolation(err).Violations[0].Message)
}
