package batch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFood = `{
  "localName": " Ugali ",
  "canonicalName": "maize porridge",
  "category": "staples",
  "affordability": "LOW",
  "nutrients": {"calories": 120, "carbs": 26, "protein": 2.5, "fat": 0.5, "fibre": 1.8, "glycemicIndex": 68},
  "portionSizes": [{"name": "1 cup", "grams": 240, "carbs": 62}]
}`

func arr(items ...string) []byte { return []byte("[" + strings.Join(items, ",") + "]") }

func fields(errs []RowError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, fmt.Sprintf("%d:%s", e.Row, e.Field))
	}
	return out
}

func TestDecode_ValidRecordsAreNormalized(t *testing.T) {
	res, err := Decode(arr(validFood, validFood, validFood))
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	require.True(t, res.Valid())
	require.Len(t, res.Foods, 3)

	f := res.Foods[0]
	assert.Equal(t, "Ugali", f.LocalName)
	assert.Equal(t, "low", f.Affordability)
	require.NotNil(t, f.Nutrients.GlycemicIndex)
	assert.Equal(t, 68.0, *f.Nutrients.GlycemicIndex)
	require.Len(t, f.PortionSizes, 1)
	assert.Equal(t, 240.0, f.PortionSizes[0].Grams)
}

func TestDecode_TopLevelRejections(t *testing.T) {
	cases := map[string]error{
		"":                ErrEmpty,
		"   ":             ErrEmpty,
		`{"localName":1}`: ErrNotArray,
		`42`:              ErrNotArray,
		`null`:            ErrNotArray,
		`[]`:              ErrNoRecords,
	}
	for in, want := range cases {
		res, err := Decode([]byte(in))
		assert.ErrorIs(t, err, want, "input %q", in)
		assert.Empty(t, res.Errors, "top-level rejection has no row errors")
	}

	_, err := Decode([]byte(`[{"a":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestDecode_TwoValidOneInvalid(t *testing.T) {
	invalid := strings.Replace(validFood, `"category": "staples",`, "", 1)
	res, err := Decode(arr(validFood, validFood, invalid))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RowError{Row: 3, Field: "category", Message: "is required"}, res.Errors[0])
	assert.Nil(t, res.Foods)
	assert.False(t, res.Valid())
}

func TestDecode_RequiredFields(t *testing.T) {
	for _, field := range []string{"localName", "canonicalName", "category"} {
		blank := strings.Replace(validFood, fmt.Sprintf(`"%s": "`, field), fmt.Sprintf(`"%s": "  ", "x": "`, field), 1)
		res, err := Decode(arr(validFood, blank))
		require.NoError(t, err)
		assert.Equal(t, []string{"2:" + field}, fields(res.Errors), field)
	}

	res, err := Decode(arr(`{"localName": 5}`))
	require.NoError(t, err)
	assert.Contains(t, fields(res.Errors), "1:localName")
	assert.Contains(t, res.Errors[0].Message, "must be a string")
}

func TestDecode_Affordability(t *testing.T) {
	missing := strings.Replace(validFood, `"affordability": "LOW",`, "", 1)
	res, err := Decode(arr(missing))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Equal(t, "medium", res.Foods[0].Affordability)

	for _, bad := range []string{`"cheap"`, `""`, `7`} {
		in := strings.Replace(validFood, `"LOW"`, bad, 1)
		res, err := Decode(arr(in))
		require.NoError(t, err)
		assert.Equal(t, []string{"1:affordability"}, fields(res.Errors), bad)
	}
}

func TestDecode_Nutrients(t *testing.T) {
	withNutrients := func(n string) string {
		return fmt.Sprintf(`{"localName":"a","canonicalName":"b","category":"c","nutrients":%s,"portionSizes":[{"name":"p","grams":10}]}`, n)
	}
	for _, f := range []string{"calories", "carbs", "protein", "fat", "fibre", "glycemicIndex"} {
		n := `{"calories":1,"carbs":1,"protein":1,"fat":1,"fibre":1,"glycemicIndex":1}`
		n = strings.Replace(n, `"`+f+`":1`, `"`+f+`":-1`, 1)
		res, err := Decode(arr(withNutrients(n)))
		require.NoError(t, err)
		assert.Equal(t, []string{"1:nutrients." + f}, fields(res.Errors), f)
	}

	res, _ := Decode(arr(withNutrients(`{"calories":1,"carbs":1,"protein":1,"fat":1,"fibre":1}`)))
	assert.Empty(t, res.Errors, "glycemic index is optional")

	res, _ = Decode(arr(withNutrients(`{"calories":1,"carbs":1,"protein":1,"fat":1,"fibre":1,"glycemicIndex":101}`)))
	assert.Equal(t, []string{"1:nutrients.glycemicIndex"}, fields(res.Errors))

	res, _ = Decode(arr(withNutrients(`{"calories":"1","carbs":1,"protein":1,"fat":1}`)))
	assert.Equal(t, []string{"1:nutrients.calories", "1:nutrients.fibre"}, fields(res.Errors))

	res, _ = Decode(arr(withNutrients(`null`)))
	assert.Equal(t, []string{"1:nutrients"}, fields(res.Errors))

	res, _ = Decode(arr(withNutrients(`[1]`)))
	assert.Equal(t, []string{"1:nutrients"}, fields(res.Errors))
}

func TestDecode_PortionSizes(t *testing.T) {
	withPortions := func(p string) string {
		return strings.Replace(validFood, `[{"name": "1 cup", "grams": 240, "carbs": 62}]`, p, 1)
	}
	cases := []struct {
		portions string
		want     []string
	}{
		{`[]`, []string{"1:portionSizes"}},
		{`null`, []string{"1:portionSizes"}},
		{`{"name":"x"}`, []string{"1:portionSizes"}},
		{`[{"name":"cup","grams":0}]`, []string{"1:portionSizes[0].grams"}},
		{`[{"name":"cup","grams":-5}]`, []string{"1:portionSizes[0].grams"}},
		{`[{"name":"cup"}]`, []string{"1:portionSizes[0].grams"}},
		{`[{"name":"cup","grams":10,"carbs":-1}]`, []string{"1:portionSizes[0].carbs"}},
		{`[{"name":"","grams":10}]`, []string{"1:portionSizes[0].name"}},
		{`["cup",{"name":"ok","grams":1},{"grams":2}]`, []string{"1:portionSizes[0]", "1:portionSizes[2].name"}},
	}
	for _, c := range cases {
		res, err := Decode(arr(withPortions(c.portions)))
		require.NoError(t, err)
		assert.Equal(t, c.want, fields(res.Errors), c.portions)
	}

	res, _ := Decode(arr(withPortions(`[{"name":"cup"}]`)))
	require.Len(t, res.Errors, 1, "a missing value is reported once")
	assert.Equal(t, "is required", res.Errors[0].Message)
}

func TestDecode_RowIndexMatchesPosition(t *testing.T) {
	res, err := Decode(arr(validFood, `"not an object"`, validFood, `{}`))
	require.NoError(t, err)
	require.NotEmpty(t, res.Errors)
	rows := map[int]bool{}
	for _, e := range res.Errors {
		rows[e.Row] = true
	}
	assert.Equal(t, map[int]bool{2: true, 4: true}, rows)
	assert.Equal(t, RowError{Row: 2, Message: "must be an object"}, res.Errors[0])
}

func TestTemplate_IsValidBatch(t *testing.T) {
	res, err := Decode(Template())
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Len(t, res.Foods, len(TemplateFoods()))
}
