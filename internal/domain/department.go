package domain

// Department Model
type Department struct {
	ID        uint       `gorm:"primaryKey"`                                            // Primary key
	Name      string     `gorm:"column:dname;size:40;uniqueIndex;not null"`             // Unique department name
	Budget    int        `gorm:"not null;default:0"`                                    // Budget
	Manager   *int       `gorm:"uniqueIndex"`                                           // Manager number, unique when set
	Employees []Employee `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL;"` // Employees are unassigned on delete
}
