package domain

// Profile is the authenticated administrator as the backend reports it.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// DisplayRole falls back to the product default when the backend omits a role.
func (p Profile) DisplayRole() string {
	if p.Role == "" {
		return "Administrateur"
	}
	return p.Role
}

// Session is the whole of the client-side persisted state: the bearer token
// and the profile returned at login. It lives in the session store and dies
// on logout or on any 401 from the backend.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Stats is the dashboard counter bundle. It is recomputed wholesale on each
// dashboard load and replaced as one object, never merged partially; a failed
// sub-count contributes 0.
type Stats struct {
	Formulaires  int `json:"formulaires"`
	Messages     int `json:"messages"`
	Utilisateurs int `json:"utilisateurs"`
	Emails       int `json:"emails"`
	Hotels       int `json:"hotels"`
	Entites      int `json:"entites"`
}
