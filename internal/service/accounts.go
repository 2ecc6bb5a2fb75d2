package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength — минимальная длина пароля учётной записи.
const MinPasswordLength = 8

// DiabetesTypes are the accepted values of User.DiabetesType.
var DiabetesTypes = []string{"type1", "type2", "gestational", "prediabetes", "other"}

// hashCost меняется в тестах, чтобы bcrypt не тормозил их.
var hashCost = bcrypt.DefaultCost

func hashPassword(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (c *checker) email(field, v string) {
	switch {
	case strings.TrimSpace(v) == "":
		c.add(field, "is required")
	case !strfmt.IsEmail(v):
		c.add(field, "must be a valid email")
	}
}

func (c *checker) password(field, v string) {
	if len(v) < MinPasswordLength {
		c.add(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
}

type accountInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	DiabetesType string `json:"diabetesType"`
	Role         string `json:"role"`
}

func (in *accountInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

type accountPatch struct {
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	DiabetesType *string `json:"diabetesType"`
	Role         *string `json:"role"`
	IsVerified   *bool   `json:"isVerified"`
}

// check проверяет общие для пользователей и администраторов поля патча.
func (p *accountPatch) check(c *checker) {
	if p.Email != nil {
		*p.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		c.email("email", *p.Email)
	}
	if p.FirstName != nil {
		*p.FirstName = strings.TrimSpace(*p.FirstName)
		c.required("firstName", *p.FirstName)
	}
	if p.LastName != nil {
		*p.LastName = strings.TrimSpace(*p.LastName)
		c.required("lastName", *p.LastName)
	}
	if p.Password != nil {
		c.password("password", *p.Password)
	}
}

// emailFree returns ErrEmailTaken when email belongs to an account other than selfID.
func emailFree[T repo.Account](ctx context.Context, r repo.AccountRepository[T], email, selfID string, idOf func(*T) string) error {
	existing, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil
		}
		return err
	}
	if idOf(existing) == selfID {
		return nil
	}
	return ErrEmailTaken
}

// --- users ---

var userColumns = map[string]string{"diabetesType": "diabetes_type", "role": "role"}

// UserService управляет пользователями платформы.
type UserService struct {
	*Catalog[model.User]
}

func NewUserService(r repo.AccountRepository[model.User], audit *AuditService, logger *zap.SugaredLogger) *UserService {
	return &UserService{&Catalog[model.User]{
		resource: "users",
		records:  r,
		kind:     userKind{r},
		columns:  userColumns,
		audit:    audit,
		logger:   logger,
	}}
}

type userKind struct {
	users repo.AccountRepository[model.User]
}

func userID(u *model.User) string { return u.ID }

func (k userKind) id(u *model.User) string    { return u.ID }
func (k userKind) label(u *model.User) string { return u.Email }

func (k userKind) build(ctx context.Context, raw json.RawMessage) (*model.User, error) {
	var in accountInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	in.normalize()
	var c checker
	c.email("email", in.Email)
	c.password("password", in.Password)
	c.required("firstName", in.FirstName)
	c.required("lastName", in.LastName)
	if in.DiabetesType != "" {
		c.oneOf("diabetesType", in.DiabetesType, DiabetesTypes...)
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	if err := emailFree(ctx, k.users, in.Email, "", userID); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &model.User{
		Email:        in.Email,
		Password:     hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         model.RoleUser,
		DiabetesType: in.DiabetesType,
	}, nil
}

func (k userKind) apply(ctx context.Context, u *model.User, raw json.RawMessage) error {
	var p accountPatch
	if err := decode(raw, &p); err != nil {
		return err
	}
	var c checker
	p.check(&c)
	if p.DiabetesType != nil && *p.DiabetesType != "" {
		c.oneOf("diabetesType", *p.DiabetesType, DiabetesTypes...)
	}
	if err := c.err(); err != nil {
		return err
	}
	if p.Email != nil {
		if err := emailFree(ctx, k.users, *p.Email, u.ID, userID); err != nil {
			return err
		}
		u.Email = *p.Email
	}
	if p.Password != nil {
		hash, err := hashPassword(*p.Password)
		if err != nil {
			return err
		}
		u.Password = hash
	}
	setString(&u.FirstName, p.FirstName)
	setString(&u.LastName, p.LastName)
	setString(&u.DiabetesType, p.DiabetesType)
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	return nil
}

// --- admins ---

// AdminRoles are the accepted values of Admin.Role.
var AdminRoles = []string{model.RoleAdmin, model.RoleSuperAdmin}

var adminColumns = map[string]string{"role": "role"}

// AdminService управляет учётными записями администраторов.
type AdminService struct {
	*Catalog[model.Admin]
}

func NewAdminService(r repo.AccountRepository[model.Admin], audit *AuditService, logger *zap.SugaredLogger) *AdminService {
	return &AdminService{&Catalog[model.Admin]{
		resource: "admins",
		records:  r,
		kind:     adminKind{r},
		columns:  adminColumns,
		audit:    audit,
		logger:   logger,
	}}
}

type adminKind struct {
	admins repo.AccountRepository[model.Admin]
}

func adminID(a *model.Admin) string { return a.ID }

func (k adminKind) id(a *model.Admin) string    { return a.ID }
func (k adminKind) label(a *model.Admin) string { return a.Email }

func (k adminKind) build(ctx context.Context, raw json.RawMessage) (*model.Admin, error) {
	var in accountInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	in.normalize()
	if in.Role == "" {
		in.Role = model.RoleAdmin
	}
	var c checker
	c.email("email", in.Email)
	c.password("password", in.Password)
	c.required("firstName", in.FirstName)
	c.required("lastName", in.LastName)
	c.oneOf("role", in.Role, AdminRoles...)
	if err := c.err(); err != nil {
		return nil, err
	}
	if err := emailFree(ctx, k.admins, in.Email, "", adminID); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &model.Admin{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
	}, nil
}

func (k adminKind) apply(ctx context.Context, a *model.Admin, raw json.RawMessage) error {
	var p accountPatch
	if err := decode(raw, &p); err != nil {
		return err
	}
	var c checker
	p.check(&c)
	if p.Role != nil {
		c.oneOf("role", *p.Role, AdminRoles...)
	}
	if err := c.err(); err != nil {
		return err
	}
	if p.Email != nil {
		if err := emailFree(ctx, k.admins, *p.Email, a.ID, adminID); err != nil {
			return err
		}
		a.Email = *p.Email
	}
	if p.Password != nil {
		hash, err := hashPassword(*p.Password)
		if err != nil {
			return err
		}
		a.Password = hash
	}
	setString(&a.FirstName, p.FirstName)
	setString(&a.LastName, p.LastName)
	setString(&a.Role, p.Role)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
