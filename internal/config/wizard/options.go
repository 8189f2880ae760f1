package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/dsforge/dsinstall/internal/password"
)

// SchemeOption describes a password storage scheme offered by the wizard.
type SchemeOption struct {
	Value       password.Scheme
	Label       string
	Description string
}

// Schemes lists the storage schemes for the administrator password.
var Schemes = []SchemeOption{
	{Value: password.SSHA, Label: "SSHA", Description: "salted SHA-1 (server default)"},
	{Value: password.SSHA256, Label: "SSHA256", Description: "salted SHA-256"},
	{Value: password.SSHA512, Label: "SSHA512", Description: "salted SHA-512"},
	{Value: password.PBKDF2SHA256, Label: "PBKDF2_SHA256", Description: "PBKDF2 with SHA-256, 30000 rounds"},
}

// DefaultScheme is preselected in the scheme question.
const DefaultScheme = password.DefaultScheme

// SchemesToOptions converts scheme options to huh select options.
func SchemesToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(Schemes))
	for i, s := range Schemes {
		opts[i] = huh.NewOption(s.Label+" - "+s.Description, string(s.Value))
	}
	return opts
}
