package domain

// Child Model
//
// Name is the business key and stays unique, but rows are addressed by a
// surrogate ID so a rename does not change the row's identity.
type Child struct {
	ID       uint      `gorm:"primaryKey"`                   // Primary key
	Name     string    `gorm:"size:40;uniqueIndex;not null"` // Unique child name
	Age      int       `gorm:"not null"`                     // Age
	ParentID *uint     `gorm:"column:enumber;index"`         // Foreign key to Employee
	Parent   *Employee `gorm:"foreignKey:ParentID"`          // Parent employee
}
