package schema

import "github.com/jwalitptl/hospital-admin/pkg/validator"

var (
	Patient = MustDefine("Patient", "patient", "patients", "PATIENT", []Field{
		{Name: "PID", Label: "Patient ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "F_NAME", Label: "First Name", Kind: KindText, Required: true, Rule: validator.Name},
		{Name: "L_NAME", Label: "Last Name", Kind: KindText, Required: true, Rule: validator.Name},
		{Name: "DOB", Label: "Date of Birth", Kind: KindDate, Required: true, Rule: validator.Date},
		{Name: "PH", Label: "Phone", Kind: KindText, Required: true, Rule: validator.Phone},
		{Name: "EMAIL", Label: "Email", Kind: KindText, Rule: validator.Email},
	})

	Doctor = MustDefine("Doctor", "doctor", "doctors", "DOCTOR", []Field{
		{Name: "DID", Label: "Doctor ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "F_NAME", Label: "First Name", Kind: KindText, Required: true, Rule: validator.Name},
		{Name: "L_NAME", Label: "Last Name", Kind: KindText, Required: true, Rule: validator.Name},
		{Name: "SPEC", Label: "Specialization", Kind: KindText, Required: true, Rule: validator.NotEmpty},
		{Name: "PH", Label: "Phone", Kind: KindText, Required: true, Rule: validator.Phone},
		{Name: "EMAIL", Label: "Email", Kind: KindText, Rule: validator.Email},
	})

	Department = MustDefine("Department", "department", "departments", "DEPT", []Field{
		{Name: "DepID", Label: "Department ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "D_NAME", Label: "Department Name", Kind: KindText, Required: true, Rule: validator.NotEmpty},
		{Name: "FLOOR", Label: "Floor", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "TELEPHONE", Label: "Telephone", Kind: KindText, Required: true, Rule: validator.Phone},
	})

	Appointment = MustDefine("Appointment", "appointment", "appointments", "APPOINTMENT", []Field{
		{Name: "AID", Label: "Appointment ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "PID", Label: "Patient ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "DID", Label: "Doctor ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "A_DATE", Label: "Date", Kind: KindDate, Required: true, Rule: validator.Date},
		{Name: "A_TIME", Label: "Time", Kind: KindTime, Required: true, Rule: validator.Time},
		{Name: "DepID", Label: "Department ID", Kind: KindInt, Required: true, Rule: validator.ID},
	},
		Reference{Column: "PID", Target: Patient},
		Reference{Column: "DID", Target: Doctor},
		Reference{Column: "DepID", Target: Department},
	)

	MedicalRecord = MustDefine("Medical Record", "medical record", "medical-records", "MED_RECORD", []Field{
		{Name: "RID", Label: "Record ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "PID", Label: "Patient ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "DID", Label: "Doctor ID", Kind: KindInt, Required: true, Rule: validator.ID},
		{Name: "LAST_VISIT", Label: "Last Visit", Kind: KindDate, Required: true, Rule: validator.Date},
		{Name: "DIAGNOSIS", Label: "Diagnosis", Kind: KindText, Required: true, Rule: validator.NotEmpty},
	},
		Reference{Column: "PID", Target: Patient},
		Reference{Column: "DID", Target: Doctor},
	)
)

// All lists the entities in navigation order.
func All() []*Entity {
	return []*Entity{Patient, Doctor, Department, Appointment, MedicalRecord}
}

// BySlug finds an entity by its panel name.
func BySlug(slug string) (*Entity, bool) {
	for _, e := range All() {
		if e.Slug == slug {
			return e, true
		}
	}
	return nil, false
}
