package forms

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/nutrition"
)

// portionsFlag collects repeated --portion "name:grams[:carbs]" values.
type portionsFlag []model.PortionSize

func (p *portionsFlag) String() string {
	parts := make([]string, 0, len(*p))
	for _, ps := range *p {
		parts = append(parts, fmt.Sprintf("%s:%g", ps.Name, ps.Grams))
	}
	return strings.Join(parts, ",")
}

func (p *portionsFlag) Set(v string) error {
	fields := strings.Split(v, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return fmt.Errorf("portion %q: want name:grams[:carbs]", v)
	}
	grams, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return fmt.Errorf("portion %q: grams: %w", v, err)
	}
	ps := model.PortionSize{Name: strings.TrimSpace(fields[0]), Grams: grams}
	if len(fields) == 3 {
		carbs, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return fmt.Errorf("portion %q: carbs: %w", v, err)
		}
		ps.Carbs = &carbs
	}
	*p = append(*p, ps)
	return nil
}

// foodFlags are shared by food-create and food-update.
type foodFlags struct {
	draft    model.FoodDraft
	gi       float64
	portions portionsFlag
}

func (f *foodFlags) register(fs *flag.FlagSet, affordabilityDefault string) {
	fs.StringVar(&f.draft.LocalName, "local-name", "", "name as used locally")
	fs.StringVar(&f.draft.CanonicalName, "canonical-name", "", "unique canonical name")
	fs.StringVar(&f.draft.Category, "category", "", "food category")
	fs.StringVar(&f.draft.Affordability, "affordability", affordabilityDefault, "low|medium|high")
	fs.StringVar(&f.draft.Description, "description", "", "free text")
	fs.StringVar(&f.draft.Region, "region", "", "region")
	fs.Float64Var(&f.draft.Nutrients.Calories, "calories", 0, "kcal per 100g")
	fs.Float64Var(&f.draft.Nutrients.Carbs, "carbs", 0, "g per 100g")
	fs.Float64Var(&f.draft.Nutrients.Protein, "protein", 0, "g per 100g")
	fs.Float64Var(&f.draft.Nutrients.Fat, "fat", 0, "g per 100g")
	fs.Float64Var(&f.draft.Nutrients.Fibre, "fibre", 0, "g per 100g")
	fs.Float64Var(&f.gi, "gi", 0, "glycemic index 0..100 (optional)")
	fs.Var(&f.portions, "portion", "name:grams[:carbs], repeatable")
}

func checkNutrients(c *checker, n model.Nutrients) {
	c.addAll(nutrition.CheckNutrients(nutrition.Nutrients{
		Calories:      n.Calories,
		Carbs:         n.Carbs,
		Protein:       n.Protein,
		Fat:           n.Fat,
		Fibre:         n.Fibre,
		GlycemicIndex: n.GlycemicIndex,
	}))
}

func toPortions(ps []model.PortionSize) []nutrition.Portion {
	out := make([]nutrition.Portion, 0, len(ps))
	for _, p := range ps {
		out = append(out, nutrition.Portion{Name: p.Name, Grams: p.Grams, Carbs: p.Carbs})
	}
	return out
}

// FoodDraft builds a create payload. Affordability defaults to medium.
func FoodDraft(args []string) (model.FoodDraft, error) {
	fs := newFlagSet("food-create")
	var f foodFlags
	f.register(fs, nutrition.DefaultAffordability)
	if err := parse(fs, args); err != nil {
		return f.draft, err
	}
	d := f.draft
	if visited(fs)["gi"] {
		gi := f.gi
		d.Nutrients.GlycemicIndex = &gi
	}
	d.PortionSizes = f.portions
	d.LocalName = strings.TrimSpace(d.LocalName)
	d.CanonicalName = strings.TrimSpace(d.CanonicalName)
	d.Category = strings.TrimSpace(d.Category)
	d.Affordability = nutrition.NormalizeAffordability(d.Affordability)

	var c checker
	c.addAll(nutrition.CheckRequired(
		[2]string{"localName", d.LocalName},
		[2]string{"canonicalName", d.CanonicalName},
		[2]string{"category", d.Category},
	))
	if !nutrition.IsAffordability(d.Affordability) {
		c.add("affordability", "must be one of low, medium, high")
	}
	checkNutrients(&c, d.Nutrients)
	c.addAll(nutrition.CheckPortions(toPortions(d.PortionSizes)))
	return d, c.err()
}

// FoodPatch builds a partial update. Nutrient flags are sent as a partial
// "nutrients" object; any --portion replaces the whole portion list.
func FoodPatch(args []string) (string, model.Patch, error) {
	fs := newFlagSet("food-update")
	var f foodFlags
	f.register(fs, "")
	id, err := patchID(fs, args)
	if err != nil {
		return "", nil, err
	}

	set := visited(fs)
	p := model.Patch{}
	var c checker
	for _, kv := range [][2]string{
		{"local-name", "localName"},
		{"canonical-name", "canonicalName"},
		{"category", "category"},
	} {
		if !set[kv[0]] {
			continue
		}
		v := strings.TrimSpace(fs.Lookup(kv[0]).Value.String())
		c.required(kv[1], v)
		p[kv[1]] = v
	}
	if set["description"] {
		p["description"] = f.draft.Description
	}
	if set["region"] {
		p["region"] = f.draft.Region
	}
	if set["affordability"] {
		a := strings.ToLower(strings.TrimSpace(f.draft.Affordability))
		if !nutrition.IsAffordability(a) {
			c.add("affordability", "must be one of low, medium, high")
		}
		p["affordability"] = a
	}

	n := map[string]any{}
	for _, kv := range [][2]string{
		{"calories", "calories"},
		{"carbs", "carbs"},
		{"protein", "protein"},
		{"fat", "fat"},
		{"fibre", "fibre"},
		{"gi", "glycemicIndex"},
	} {
		if set[kv[0]] {
			v, _ := strconv.ParseFloat(fs.Lookup(kv[0]).Value.String(), 64)
			n[kv[1]] = v
		}
	}
	if len(n) > 0 {
		var check model.Nutrients
		check.Calories, _ = n["calories"].(float64)
		check.Carbs, _ = n["carbs"].(float64)
		check.Protein, _ = n["protein"].(float64)
		check.Fat, _ = n["fat"].(float64)
		check.Fibre, _ = n["fibre"].(float64)
		if gi, ok := n["glycemicIndex"].(float64); ok {
			check.GlycemicIndex = &gi
		}
		checkNutrients(&c, check)
		p["nutrients"] = n
	}
	if set["portion"] {
		c.addAll(nutrition.CheckPortions(toPortions(f.portions)))
		p["portionSizes"] = []model.PortionSize(f.portions)
	}
	if len(p) == 0 {
		return id, nil, ErrNoChanges
	}
	return id, p, c.err()
}
