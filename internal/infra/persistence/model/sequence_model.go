package model

import "time"

// SequenceModel mirrors the 'sequences' table backing customer code and bill
// number generation. The row is taken FOR UPDATE on every increment.
type SequenceModel struct {
	Name      string `gorm:"type:varchar(50);primary_key"`
	Value     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SequenceModel) TableName() string {
	return "sequences"
}
