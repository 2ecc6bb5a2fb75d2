package forms

import (
	"strings"

	"GluviaAdmin/internal/cli/model"
)

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Diabetes types accepted for platform users.
var diabetesTypes = []string{"type1", "type2", "gestational", "prediabetes", "other"}

// UserDraft builds a create payload from
// --email --password --first-name --last-name [--diabetes-type].
func UserDraft(args []string) (model.UserDraft, error) {
	fs := newFlagSet("user-create")
	var d model.UserDraft
	fs.StringVar(&d.Email, "email", "", "email")
	fs.StringVar(&d.Password, "password", "", "initial password")
	fs.StringVar(&d.FirstName, "first-name", "", "first name")
	fs.StringVar(&d.LastName, "last-name", "", "last name")
	fs.StringVar(&d.DiabetesType, "diabetes-type", "", strings.Join(diabetesTypes, "|"))
	if err := parse(fs, args); err != nil {
		return d, err
	}
	d.Email = strings.TrimSpace(d.Email)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)

	var c checker
	c.email("email", d.Email)
	c.password("password", d.Password)
	c.required("firstName", d.FirstName)
	c.required("lastName", d.LastName)
	if d.DiabetesType != "" {
		c.oneOf("diabetesType", d.DiabetesType, diabetesTypes...)
	}
	return d, c.err()
}

// UserPatch builds a partial update from `[flags] <id>`; only flags given are sent.
func UserPatch(args []string) (string, model.Patch, error) {
	fs := newFlagSet("user-update")
	email := fs.String("email", "", "email")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	dt := fs.String("diabetes-type", "", strings.Join(diabetesTypes, "|"))
	verified := fs.Bool("verified", false, "mark the email as verified")
	id, err := patchID(fs, args)
	if err != nil {
		return "", nil, err
	}

	set := visited(fs)
	p := model.Patch{}
	var c checker
	if set["email"] {
		c.email("email", *email)
		p["email"] = strings.TrimSpace(*email)
	}
	if set["first-name"] {
		c.required("firstName", *first)
		p["firstName"] = strings.TrimSpace(*first)
	}
	if set["last-name"] {
		c.required("lastName", *last)
		p["lastName"] = strings.TrimSpace(*last)
	}
	if set["diabetes-type"] {
		c.oneOf("diabetesType", *dt, diabetesTypes...)
		p["diabetesType"] = *dt
	}
	if set["verified"] {
		p["isVerified"] = *verified
	}
	if len(p) == 0 {
		return id, nil, ErrNoChanges
	}
	return id, p, c.err()
}

// AdminDraft builds a create payload from
// --email --password --first-name --last-name [--role admin|super_admin].
func AdminDraft(args []string) (model.AdminDraft, error) {
	fs := newFlagSet("admin-create")
	var d model.AdminDraft
	fs.StringVar(&d.Email, "email", "", "email")
	fs.StringVar(&d.Password, "password", "", "initial password")
	fs.StringVar(&d.FirstName, "first-name", "", "first name")
	fs.StringVar(&d.LastName, "last-name", "", "last name")
	fs.StringVar(&d.Role, "role", RoleAdmin, "admin|super_admin")
	if err := parse(fs, args); err != nil {
		return d, err
	}
	d.Email = strings.TrimSpace(d.Email)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)

	var c checker
	c.email("email", d.Email)
	c.password("password", d.Password)
	c.required("firstName", d.FirstName)
	c.required("lastName", d.LastName)
	c.oneOf("role", d.Role, RoleAdmin, RoleSuperAdmin)
	return d, c.err()
}

// AdminPatch builds a partial update of an admin account.
func AdminPatch(args []string) (string, model.Patch, error) {
	fs := newFlagSet("admin-update")
	email := fs.String("email", "", "email")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	role := fs.String("role", "", "admin|super_admin")
	password := fs.String("password", "", "new password")
	id, err := patchID(fs, args)
	if err != nil {
		return "", nil, err
	}

	set := visited(fs)
	p := model.Patch{}
	var c checker
	if set["email"] {
		c.email("email", *email)
		p["email"] = strings.TrimSpace(*email)
	}
	if set["first-name"] {
		c.required("firstName", *first)
		p["firstName"] = strings.TrimSpace(*first)
	}
	if set["last-name"] {
		c.required("lastName", *last)
		p["lastName"] = strings.TrimSpace(*last)
	}
	if set["role"] {
		c.oneOf("role", *role, RoleAdmin, RoleSuperAdmin)
		p["role"] = *role
	}
	if set["password"] {
		c.password("password", *password)
		p["password"] = *password
	}
	if len(p) == 0 {
		return id, nil, ErrNoChanges
	}
	return id, p, c.err()
}
