package forms

import (
	"strings"

	"GluviaAdmin/internal/cli/model"
)

// Rule severities.
var severities = []string{"info", "warning", "critical"}

// RuleDraft builds a rule template from flags. Rules are active unless --active=false.
func RuleDraft(args []string) (model.RuleDraft, error) {
	fs := newFlagSet("rule-create")
	d := model.RuleDraft{IsActive: true}
	fs.StringVar(&d.Name, "name", "", "rule name")
	fs.StringVar(&d.Description, "description", "", "free text")
	fs.StringVar(&d.Category, "category", "", "rule category, e.g. glycemic")
	fs.StringVar(&d.Condition, "condition", "", "condition expression, e.g. \"gi > 70\"")
	fs.StringVar(&d.Message, "message", "", "message shown to the user")
	fs.StringVar(&d.Severity, "severity", "info", strings.Join(severities, "|"))
	fs.IntVar(&d.Priority, "priority", 0, "higher runs first")
	fs.BoolVar(&d.IsActive, "active", true, "whether the rule is applied")
	if err := parse(fs, args); err != nil {
		return d, err
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Condition = strings.TrimSpace(d.Condition)
	d.Message = strings.TrimSpace(d.Message)

	var c checker
	c.required("name", d.Name)
	c.required("category", d.Category)
	c.required("condition", d.Condition)
	c.required("message", d.Message)
	c.oneOf("severity", d.Severity, severities...)
	if d.Priority < 0 {
		c.add("priority", "must be non-negative")
	}
	return d, c.err()
}

// RulePatch builds a partial update of a rule template.
func RulePatch(args []string) (string, model.Patch, error) {
	fs := newFlagSet("rule-update")
	var d model.RuleDraft
	fs.StringVar(&d.Name, "name", "", "rule name")
	fs.StringVar(&d.Description, "description", "", "free text")
	fs.StringVar(&d.Category, "category", "", "rule category")
	fs.StringVar(&d.Condition, "condition", "", "condition expression")
	fs.StringVar(&d.Message, "message", "", "message shown to the user")
	fs.StringVar(&d.Severity, "severity", "", strings.Join(severities, "|"))
	fs.IntVar(&d.Priority, "priority", 0, "higher runs first")
	fs.BoolVar(&d.IsActive, "active", false, "whether the rule is applied")
	id, err := patchID(fs, args)
	if err != nil {
		return "", nil, err
	}

	set := visited(fs)
	p := model.Patch{}
	var c checker
	for _, kv := range [][2]string{
		{"name", d.Name},
		{"category", d.Category},
		{"condition", d.Condition},
		{"message", d.Message},
	} {
		if set[kv[0]] {
			c.required(kv[0], kv[1])
			p[kv[0]] = strings.TrimSpace(kv[1])
		}
	}
	if set["description"] {
		p["description"] = d.Description
	}
	if set["severity"] {
		c.oneOf("severity", d.Severity, severities...)
		p["severity"] = d.Severity
	}
	if set["priority"] {
		if d.Priority < 0 {
			c.add("priority", "must be non-negative")
		}
		p["priority"] = d.Priority
	}
	if set["active"] {
		p["isActive"] = d.IsActive
	}
	if len(p) == 0 {
		return id, nil, ErrNoChanges
	}
	return id, p, c.err()
}
