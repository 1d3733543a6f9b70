package settings

import "slices"

// Field names match the JSON keys of the settings file.
const (
	FieldVersion            = "version"
	FieldEnvironment        = "environment"
	FieldEnableLogs         = "enableLogs"
	FieldUserID             = "userId"
	FieldRepresentativeName = "representativeName"
	FieldConnected          = "connected"
	FieldDevMode            = "devMode"
	FieldAPIURL             = "apiUrl"
	FieldAPIRefreshInterval = "apiRefreshInterval"
)

// Field describes how a settings key behaves when it is saved.
type Field struct {
	Name            string
	ReadOnly        bool
	RequiresRestart bool
}

// Fields lists every persisted key in file order.
var Fields = []Field{
	{Name: FieldVersion, ReadOnly: true},
	{Name: FieldEnvironment, RequiresRestart: true},
	{Name: FieldEnableLogs},
	{Name: FieldUserID},
	{Name: FieldRepresentativeName},
	{Name: FieldConnected},
	{Name: FieldDevMode},
	{Name: FieldAPIURL},
	{Name: FieldAPIRefreshInterval},
}

// Lookup returns the metadata for name.
func Lookup(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Partial is a sparse update. Nil fields are left untouched by Save.
type Partial struct {
	Version            *string  `json:"version,omitempty"`
	Environment        *string  `json:"environment,omitempty"`
	EnableLogs         *bool    `json:"enableLogs,omitempty"`
	UserID             *string  `json:"userId,omitempty"`
	RepresentativeName *string  `json:"representativeName,omitempty"`
	Connected          *bool    `json:"connected,omitempty"`
	DevMode            *bool    `json:"devMode,omitempty"`
	APIURL             *string  `json:"apiUrl,omitempty"`
	APIRefreshInterval *Minutes `json:"apiRefreshInterval,omitempty"`
}

// Apply overlays p on s. Version is ignored; the store stamps it.
func (p Partial) Apply(s Settings) Settings {
	if p.Environment != nil {
		s.Environment = *p.Environment
	}
	if p.EnableLogs != nil {
		s.EnableLogs = *p.EnableLogs
	}
	if p.UserID != nil {
		s.UserID = *p.UserID
	}
	if p.RepresentativeName != nil {
		s.RepresentativeName = *p.RepresentativeName
	}
	if p.Connected != nil {
		s.Connected = *p.Connected
	}
	if p.DevMode != nil {
		s.DevMode = *p.DevMode
	}
	if p.APIURL != nil {
		s.APIURL = *p.APIURL
	}
	if p.APIRefreshInterval != nil {
		s.APIRefreshInterval = *p.APIRefreshInterval
	}
	return s
}

// Change describes the outcome of a successful Save.
type Change struct {
	Before Settings
	After  Settings
	Fields []string
}

// Has reports whether the named field changed.
func (c Change) Has(name string) bool {
	return slices.Contains(c.Fields, name)
}

// RestartRequired reports whether any changed field only applies after a relaunch.
func (c Change) RestartRequired() bool {
	for _, name := range c.Fields {
		if f, ok := Lookup(name); ok && f.RequiresRestart {
			return true
		}
	}
	return false
}

// diff returns the names of user-visible fields that differ, in file order.
func diff(a, b Settings) []string {
	var out []string
	add := func(name string, changed bool) {
		if changed {
			out = append(out, name)
		}
	}
	add(FieldEnvironment, a.Environment != b.Environment)
	add(FieldEnableLogs, a.EnableLogs != b.EnableLogs)
	add(FieldUserID, a.UserID != b.UserID)
	add(FieldRepresentativeName, a.RepresentativeName != b.RepresentativeName)
	add(FieldConnected, a.Connected != b.Connected)
	add(FieldDevMode, a.DevMode != b.DevMode)
	add(FieldAPIURL, a.APIURL != b.APIURL)
	add(FieldAPIRefreshInterval, a.APIRefreshInterval != b.APIRefreshInterval)
	return out
}
