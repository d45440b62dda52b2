package model

// Row holds one record's values as strings, in the entity's column order.
// The first value is the key.
type Row []string

func (r Row) Key() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// DashboardStats are the four counts shown on the dashboard
type DashboardStats struct {
	Patients          int `json:"patients" db:"patients"`
	Doctors           int `json:"doctors" db:"doctors"`
	Departments       int `json:"departments" db:"departments"`
	AppointmentsToday int `json:"appointments_today" db:"appointments_today"`
}
