package handlers_test

import (
	"GluviaAdmin/internal/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foodBody(name string) map[string]any {
	return map[string]any{
		"localName":     name,
		"canonicalName": name,
		"category":      "staples",
		"nutrients":     map[string]any{"calories": 360, "carbs": 79, "protein": 8, "fat": 1, "fibre": 3},
		"portionSizes":  []map[string]any{{"name": "cup", "grams": 150}},
	}
}

func TestFoods_CreateAndPatch(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, rootEmail, rootPassword)

	res := ts.do(t, http.MethodPost, "/foods", token, foodBody("ugali"))
	require.Equal(t, http.StatusCreated, res.Code)
	f := decode[model.Food](t, res.Data)
	assert.Equal(t, "medium", f.Affordability)
	assert.JSONEq(t, `[{"name":"cup","grams":150}]`, string(f.PortionSizes))

	res = ts.do(t, http.MethodPost, "/foods", token, foodBody("ugali"))
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, []string{"canonicalName"}, fieldsOf(res))

	res = ts.do(t, http.MethodPatch, "/foods/"+f.ID, token, map[string]any{"nutrients": map[string]any{"glycemicIndex": 101}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, []string{"nutrients.glycemicIndex"}, fieldsOf(res))

	res = ts.do(t, http.MethodGet, "/foods?category=staples", token, nil)
	assert.Len(t, decode[[]model.Food](t, res.Data), 1)
	res = ts.do(t, http.MethodGet, "/foods?category=fruit", token, nil)
	assert.Empty(t, decode[[]model.Food](t, res.Data))
}

func TestFoods_Batch(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, rootEmail, rootPassword)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/foods", token, foodBody("ugali")).Code)

	bad := foodBody("mandazi")
	bad["portionSizes"] = []any{}
	res := ts.do(t, http.MethodPost, "/foods/batch", token, []any{foodBody("ugali"), foodBody("chapati"), bad})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Uploaded 1 of 3 foods (1 skipped as duplicates)", res.Message)
	result := decode[struct {
		SuccessCount int `json:"successCount"`
		SkippedCount int `json:"skippedCount"`
		TotalCount   int `json:"totalCount"`
		Errors       []struct {
			Index   int    `json:"index"`
			Message string `json:"message"`
		} `json:"errors"`
	}](t, res.Data)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 3, result.TotalCount)
	if assert.Len(t, result.Errors, 1) {
		assert.Equal(t, 2, result.Errors[0].Index)
	}

	res = ts.do(t, http.MethodPost, "/foods/batch", token, `{"not":"an array"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, []string{"foods"}, fieldsOf(res))

	res = ts.do(t, http.MethodPost, "/foods/batch", token, `[]`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = ts.do(t, http.MethodPost, "/foods/batch", "", []any{foodBody("githeri")})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
