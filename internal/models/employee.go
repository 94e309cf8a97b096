package models

// UserAgent is sent with every request to the HR backend.
const UserAgent = "Mozilla/5.0 (compatible; hera/1.0)"

// Employee represents a directory entry owned by the HR backend.
// BusinessEntityID is assigned by the server; a zero value means the
// record has not been created yet. Once assigned it is the only stable
// sort and identity key.
type Employee struct {
	BusinessEntityID int    `json:"businessEntityID,omitempty"`
	Name             string `json:"name"`
	Departamento     string `json:"departamento"`
	PersonPhone      string `json:"personPhone"`
	Email            string `json:"email"`
	IsActive         *bool  `json:"isActive,omitempty"`
	ModifiedDate     string `json:"modifiedDate,omitempty"`
}

// Active reports whether the employee is active. A record without an
// explicit isActive flag counts as active.
func (e Employee) Active() bool {
	return e.IsActive == nil || *e.IsActive
}

// EmployeeUpdate is a partial employee change. Only non-nil fields are
// serialized, so the backend receives exactly the fields the caller set.
type EmployeeUpdate struct {
	Name         *string `json:"name,omitempty"`
	Departamento *string `json:"departamento,omitempty"`
	PersonPhone  *string `json:"personPhone,omitempty"`
	Email        *string `json:"email,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// Pagination describes the window of a paginated response. Total counts
// the full filtered set, not the returned page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// PaginatedResponse is the envelope the backend wraps employee pages in.
type PaginatedResponse struct {
	Message    string     `json:"message"`
	StatusCode int        `json:"statusCode"`
	Data       []Employee `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// SingleResponse is the envelope for single-entity responses.
type SingleResponse struct {
	Message    string   `json:"message"`
	StatusCode int      `json:"statusCode"`
	Data       Employee `json:"data"`
}

// APIResponse is the bare acknowledgement envelope.
type APIResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}
