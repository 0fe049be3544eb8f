package models

// Donor is the row shape of the donors table. Total donated is not a column;
// it is derived from donations on read.
type Donor struct {
	DonorID   string  `db:"donor_id"`
	UserID    *string `db:"user_id"`
	Name      string  `db:"name"`
	DonorType string  `db:"donor_type"`
	Email     string  `db:"email"`
	Phone     string  `db:"phone"`
	Address   string  `db:"address"`
	Status    string  `db:"status"`
	AuditFields
}
