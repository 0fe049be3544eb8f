package models

// Organization is the row shape of the organizations table.
type Organization struct {
	OrgID         string  `db:"org_id"`
	DonorID       *string `db:"donor_id"`
	Name          string  `db:"name"`
	OrgType       string  `db:"org_type"`
	ContactPerson string  `db:"contact_person"`
	Email         string  `db:"email"`
	Phone         string  `db:"phone"`
	Status        string  `db:"status"`
	AuditFields
}
