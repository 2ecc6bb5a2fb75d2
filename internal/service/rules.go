package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/repo"
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Severities are the accepted values of RuleTemplate.Severity.
var Severities = []string{model.SeverityInfo, model.SeverityWarning, model.SeverityCritical}

var ruleColumns = map[string]string{"category": "category", "severity": "severity"}

// RuleService управляет шаблонами правил рекомендаций.
type RuleService struct {
	*Catalog[model.RuleTemplate]
}

func NewRuleService(r repo.Records[model.RuleTemplate], audit *AuditService, logger *zap.SugaredLogger) *RuleService {
	return &RuleService{&Catalog[model.RuleTemplate]{
		resource: "rules",
		records:  r,
		kind:     ruleKind{},
		columns:  ruleColumns,
		audit:    audit,
		logger:   logger,
	}}
}

type ruleKind struct{}

func (ruleKind) id(r *model.RuleTemplate) string    { return r.ID }
func (ruleKind) label(r *model.RuleTemplate) string { return r.Name }

type ruleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
	Message     string `json:"message"`
	Severity    string `json:"severity"`
	Priority    int    `json:"priority"`
	IsActive    *bool  `json:"isActive"`
}

func (ruleKind) build(_ context.Context, raw json.RawMessage) (*model.RuleTemplate, error) {
	var in ruleInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	rt := &model.RuleTemplate{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Condition:   strings.TrimSpace(in.Condition),
		Message:     strings.TrimSpace(in.Message),
		Severity:    in.Severity,
		Priority:    in.Priority,
		IsActive:    true,
	}
	if in.IsActive != nil {
		rt.IsActive = *in.IsActive
	}
	var c checker
	c.required("name", rt.Name)
	c.required("category", rt.Category)
	c.required("condition", rt.Condition)
	c.required("message", rt.Message)
	c.oneOf("severity", rt.Severity, Severities...)
	if rt.Priority < 0 {
		c.add("priority", "must be non-negative")
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return rt, nil
}

type rulePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Condition   *string `json:"condition"`
	Message     *string `json:"message"`
	Severity    *string `json:"severity"`
	Priority    *int    `json:"priority"`
	IsActive    *bool   `json:"isActive"`
}

func (ruleKind) apply(_ context.Context, rt *model.RuleTemplate, raw json.RawMessage) error {
	var p rulePatch
	if err := decode(raw, &p); err != nil {
		return err
	}
	var c checker
	for _, kv := range []struct {
		field string
		v     *string
	}{
		{"name", p.Name},
		{"category", p.Category},
		{"condition", p.Condition},
		{"message", p.Message},
	} {
		if kv.v != nil {
			*kv.v = strings.TrimSpace(*kv.v)
			c.required(kv.field, *kv.v)
		}
	}
	if p.Severity != nil {
		c.oneOf("severity", *p.Severity, Severities...)
	}
	if p.Priority != nil && *p.Priority < 0 {
		c.add("priority", "must be non-negative")
	}
	if err := c.err(); err != nil {
		return err
	}
	setString(&rt.Name, p.Name)
	setString(&rt.Description, p.Description)
	setString(&rt.Category, p.Category)
	setString(&rt.Condition, p.Condition)
	setString(&rt.Message, p.Message)
	setString(&rt.Severity, p.Severity)
	if p.Priority != nil {
		rt.Priority = *p.Priority
	}
	if p.IsActive != nil {
		rt.IsActive = *p.IsActive
	}
	return nil
}
