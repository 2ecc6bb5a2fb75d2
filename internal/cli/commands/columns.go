package commands

import (
	"strconv"
	"strings"
	"time"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/table"
)

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return fmtTime(*t)
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func status(deleted bool) string {
	if deleted {
		return "deleted"
	}
	return "active"
}

func timeLess[T any](get func(T) time.Time) func(a, b T) bool {
	return func(a, b T) bool { return get(a).Before(get(b)) }
}

var userColumns = []table.Column[model.User]{
	{Key: "id", Header: "ID", Cell: func(u model.User) string { return u.ID }},
	{Key: "email", Header: "Email", Cell: func(u model.User) string { return u.Email }, Sortable: true},
	{Key: "name", Header: "Name", Cell: model.User.FullName, Sortable: true, Hideable: true},
	{Key: "diabetes", Header: "Diabetes", Cell: func(u model.User) string { return u.DiabetesType }, Sortable: true, Hideable: true},
	{Key: "verified", Header: "Verified", Cell: func(u model.User) string { return yesNo(u.IsVerified) }, Sortable: true, Hideable: true},
	{Key: "status", Header: "Status", Cell: func(u model.User) string { return status(u.Deleted) }, Sortable: true, Hideable: true},
	{
		Key:      "lastLogin",
		Header:   "Last login",
		Cell:     func(u model.User) string { return fmtTimePtr(u.LastLoginAt) },
		Sortable: true,
		Hideable: true,
		Less: func(a, b model.User) bool {
			if a.LastLoginAt == nil || b.LastLoginAt == nil {
				return a.LastLoginAt == nil && b.LastLoginAt != nil
			}
			return a.LastLoginAt.Before(*b.LastLoginAt)
		},
	},
	{
		Key:      "created",
		Header:   "Created",
		Cell:     func(u model.User) string { return fmtTime(u.CreatedAt) },
		Less:     timeLess(func(u model.User) time.Time { return u.CreatedAt }),
		Sortable: true,
		Hideable: true,
	},
}

var adminColumns = []table.Column[model.Admin]{
	{Key: "id", Header: "ID", Cell: func(a model.Admin) string { return a.ID }},
	{Key: "email", Header: "Email", Cell: func(a model.Admin) string { return a.Email }, Sortable: true},
	{
		Key:      "name",
		Header:   "Name",
		Cell:     func(a model.Admin) string { return strings.TrimSpace(a.FirstName + " " + a.LastName) },
		Sortable: true,
		Hideable: true,
	},
	{Key: "role", Header: "Role", Cell: func(a model.Admin) string { return a.Role }, Sortable: true, Hideable: true},
	{Key: "status", Header: "Status", Cell: func(a model.Admin) string { return status(a.Deleted) }, Sortable: true, Hideable: true},
	{
		Key:      "created",
		Header:   "Created",
		Cell:     func(a model.Admin) string { return fmtTime(a.CreatedAt) },
		Less:     timeLess(func(a model.Admin) time.Time { return a.CreatedAt }),
		Sortable: true,
		Hideable: true,
	},
}

func numColumn(key, header string, get func(model.Food) float64) table.Column[model.Food] {
	return table.Column[model.Food]{
		Key:      key,
		Header:   header,
		Cell:     func(f model.Food) string { return fmtNum(get(f)) },
		Less:     func(a, b model.Food) bool { return get(a) < get(b) },
		Sortable: true,
		Hideable: true,
	}
}

var foodColumns = []table.Column[model.Food]{
	{Key: "id", Header: "ID", Cell: func(f model.Food) string { return f.ID }},
	{Key: "localName", Header: "Local name", Cell: func(f model.Food) string { return f.LocalName }, Sortable: true},
	{Key: "canonicalName", Header: "Canonical name", Cell: func(f model.Food) string { return f.CanonicalName }, Sortable: true, Hideable: true},
	{Key: "category", Header: "Category", Cell: func(f model.Food) string { return f.Category }, Sortable: true, Hideable: true},
	{Key: "affordability", Header: "Affordability", Cell: func(f model.Food) string { return f.Affordability }, Sortable: true, Hideable: true},
	numColumn("calories", "kcal", func(f model.Food) float64 { return f.Nutrients.Calories }),
	numColumn("carbs", "Carbs", func(f model.Food) float64 { return f.Nutrients.Carbs }),
	{
		Key:    "gi",
		Header: "GI",
		Cell: func(f model.Food) string {
			if f.Nutrients.GlycemicIndex == nil {
				return "-"
			}
			return fmtNum(*f.Nutrients.GlycemicIndex)
		},
		Less: func(a, b model.Food) bool {
			ga, gb := a.Nutrients.GlycemicIndex, b.Nutrients.GlycemicIndex
			if ga == nil || gb == nil {
				return ga == nil && gb != nil
			}
			return *ga < *gb
		},
		Sortable: true,
		Hideable: true,
	},
	{Key: "portions", Header: "Portions", Cell: func(f model.Food) string { return strconv.Itoa(len(f.PortionSizes)) }, Hideable: true},
	{Key: "status", Header: "Status", Cell: func(f model.Food) string { return status(f.Deleted) }, Sortable: true, Hideable: true},
}

// draftColumns render the batch preview.
var draftColumns = []table.Column[model.FoodDraft]{
	{Key: "localName", Header: "Local name", Cell: func(f model.FoodDraft) string { return f.LocalName }, Sortable: true},
	{Key: "canonicalName", Header: "Canonical name", Cell: func(f model.FoodDraft) string { return f.CanonicalName }, Sortable: true},
	{Key: "category", Header: "Category", Cell: func(f model.FoodDraft) string { return f.Category }, Sortable: true},
	{Key: "affordability", Header: "Affordability", Cell: func(f model.FoodDraft) string { return f.Affordability }},
	{Key: "carbs", Header: "Carbs", Cell: func(f model.FoodDraft) string { return fmtNum(f.Nutrients.Carbs) }},
	{Key: "portions", Header: "Portions", Cell: func(f model.FoodDraft) string { return strconv.Itoa(len(f.PortionSizes)) }},
}

var ruleColumns = []table.Column[model.RuleTemplate]{
	{Key: "id", Header: "ID", Cell: func(r model.RuleTemplate) string { return r.ID }},
	{Key: "name", Header: "Name", Cell: func(r model.RuleTemplate) string { return r.Name }, Sortable: true},
	{Key: "category", Header: "Category", Cell: func(r model.RuleTemplate) string { return r.Category }, Sortable: true, Hideable: true},
	{Key: "severity", Header: "Severity", Cell: func(r model.RuleTemplate) string { return r.Severity }, Sortable: true, Hideable: true},
	{
		Key:      "priority",
		Header:   "Priority",
		Cell:     func(r model.RuleTemplate) string { return strconv.Itoa(r.Priority) },
		Less:     func(a, b model.RuleTemplate) bool { return a.Priority < b.Priority },
		Sortable: true,
		Hideable: true,
	},
	{Key: "active", Header: "Active", Cell: func(r model.RuleTemplate) string { return yesNo(r.IsActive) }, Sortable: true, Hideable: true},
	{Key: "condition", Header: "Condition", Cell: func(r model.RuleTemplate) string { return r.Condition }, Hideable: true},
}

var auditColumns = []table.Column[model.AuditLog]{
	{Key: "id", Header: "ID", Cell: func(l model.AuditLog) string { return l.ID }, Hideable: true},
	{
		Key:      "time",
		Header:   "Time",
		Cell:     func(l model.AuditLog) string { return fmtTime(l.CreatedAt) },
		Less:     timeLess(func(l model.AuditLog) time.Time { return l.CreatedAt }),
		Sortable: true,
	},
	{Key: "actor", Header: "Actor", Cell: func(l model.AuditLog) string { return l.ActorEmail }, Sortable: true, Hideable: true},
	{Key: "action", Header: "Action", Cell: func(l model.AuditLog) string { return l.Action }, Sortable: true},
	{Key: "resource", Header: "Resource", Cell: func(l model.AuditLog) string { return l.Resource }, Sortable: true, Hideable: true},
	{Key: "resourceId", Header: "Resource ID", Cell: func(l model.AuditLog) string { return l.ResourceID }, Hideable: true},
	{Key: "details", Header: "Details", Cell: func(l model.AuditLog) string { return l.Details }, Hideable: true},
}

var activityColumns = []table.Column[model.Activity]{
	{Key: "time", Header: "Time", Cell: func(a model.Activity) string { return fmtTime(a.CreatedAt) }},
	{Key: "actor", Header: "Actor", Cell: func(a model.Activity) string { return a.ActorEmail }},
	{Key: "action", Header: "Action", Cell: func(a model.Activity) string { return a.Action }},
	{Key: "resource", Header: "Resource", Cell: func(a model.Activity) string { return a.Resource }},
}
