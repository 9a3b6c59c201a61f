package domain

// Todo is a task owned by exactly one User.
type Todo struct {
	ID          uint   `gorm:"primaryKey"`
	Task        string `gorm:"not null"`
	Description string
	Priority    int  `gorm:"not null"`
	Completed   bool `gorm:"not null;default:false"`
	OwnerID     uint `gorm:"not null;index"`
}

func (Todo) TableName() string {
	return "todos"
}
