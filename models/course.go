package models

// MaxCourseDurationLen bounds the free-text duration of a course.
const MaxCourseDurationLen = 100

type Course struct {
	ID             uint    `gorm:"primaryKey" json:"idCurso"`
	ProfessionalID uint    `gorm:"not null;index" json:"idProfesional"`
	Name           string  `gorm:"not null" json:"nombreCurso"`
	Description    string  `gorm:"type:text" json:"cursoDesc"`
	Duration       string  `gorm:"type:varchar(100)" json:"cursoDuracion"`
	Cost           float64 `gorm:"type:decimal(10,2);not null;default:0" json:"cursoCosto"`
	Image          []byte  `gorm:"type:bytea" json:"cursoImagen"`

	Professional *Professional `gorm:"foreignKey:ProfessionalID" json:"-"`
}

func (Course) TableName() string { return "cursos" }
