package models

import (
	"strings"
)

// Role enum
type Role string

const (
	RolePsicologo     Role = "psicologo"
	RoleAdministrador Role = "administrador"
)

// Sedes is the fixed list of branches a professional can belong to.
var Sedes = []string{"Huancayo", "Arequipa", "Cusco", "Lima - Los Olivos"}

// IsSede reports whether s is one of the known branches.
func IsSede(s string) bool {
	for _, sede := range Sedes {
		if sede == s {
			return true
		}
	}
	return false
}

// SessionUser is the signed-in user record as returned by the identity API.
type SessionUser struct {
	ID                  int64  `json:"id"`
	Nombre              string `json:"nombre"`
	Correo              string `json:"correo"`
	Foto                string `json:"foto,omitempty"`
	Rol                 Role   `json:"rol"`
	Telefono            string `json:"telefono,omitempty"`
	Sede                string `json:"sede,omitempty"`
	CalendarAccessToken string `json:"calendarAccessToken,omitempty"`
	RefreshToken        string `json:"refreshToken,omitempty"`
	CalendarTokenExpiry int64  `json:"calendarTokenExpiry,omitempty"`
}

// NeedsProfile reports whether a professional still has to fill in phone or branch.
func (u *SessionUser) NeedsProfile() bool {
	if u.Rol != RolePsicologo && u.Rol != RoleAdministrador {
		return false
	}
	return u.Telefono == "" || u.Sede == ""
}

// FirstName returns the first word of the display name.
func (u *SessionUser) FirstName() string {
	fields := strings.Fields(u.Nombre)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Merge overlays the non-empty fields of other onto u.
func (u *SessionUser) Merge(other SessionUser) {
	if other.ID != 0 {
		u.ID = other.ID
	}
	if other.Nombre != "" {
		u.Nombre = other.Nombre
	}
	if other.Correo != "" {
		u.Correo = other.Correo
	}
	if other.Foto != "" {
		u.Foto = other.Foto
	}
	if other.Rol != "" {
		u.Rol = other.Rol
	}
	if other.Telefono != "" {
		u.Telefono = other.Telefono
	}
	if other.Sede != "" {
		u.Sede = other.Sede
	}
	if other.CalendarAccessToken != "" {
		u.CalendarAccessToken = other.CalendarAccessToken
	}
	if other.RefreshToken != "" {
		u.RefreshToken = other.RefreshToken
	}
	if other.CalendarTokenExpiry != 0 {
		u.CalendarTokenExpiry = other.CalendarTokenExpiry
	}
}

// HeaderView is the data the page header shows for the signed-in user.
type HeaderView struct {
	Nombre    string `json:"nombre"`
	FirstName string `json:"firstName"`
	Foto      string `json:"foto"`
	Rol       Role   `json:"rol"`
}

// Header builds the header view, defaulting the photo.
func (u *SessionUser) Header() HeaderView {
	foto := u.Foto
	if foto == "" {
		foto = "/default_profile.png"
	}
	return HeaderView{
		Nombre:    u.Nombre,
		FirstName: u.FirstName(),
		Foto:      foto,
		Rol:       u.Rol,
	}
}
