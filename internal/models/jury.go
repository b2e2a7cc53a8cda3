package models

import (
	"strings"
	"time"
)

// UnitRow is a teaching unit as delivered for a jury, tagged with the
// semester it belongs to
type UnitRow struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Designation    string `json:"designation"`
	SemesterCode   string `json:"semester"`
	AcademicYearID int64  `json:"academic_year_id"`
}

// Element represents a gradable component (ECUE) of a teaching unit
type Element struct {
	ID          int64   `json:"id"`
	UnitID      int64   `json:"unit_id"`
	Designation string  `json:"designation"`
	Credit      float64 `json:"credit"`
}

// Unit represents a teaching unit (UE) with its elements.
// Credits is derived from the elements and is the averaging denominator.
type Unit struct {
	ID             int64      `json:"id"`
	Code           string     `json:"code"`
	Designation    string     `json:"designation"`
	SemesterCode   string     `json:"semester"`
	AcademicYearID int64      `json:"academic_year_id"`
	Credits        float64    `json:"credits"`
	Elements       []*Element `json:"elements"`
	Average        float64    `json:"average,omitempty"` // cohort mean, filled on aggregated copies only
}

// NewUnit creates a unit without elements from a raw row
func NewUnit(row UnitRow) *Unit {
	return &Unit{
		ID:             row.ID,
		Code:           row.Code,
		Designation:    row.Designation,
		SemesterCode:   row.SemesterCode,
		AcademicYearID: row.AcademicYearID,
		Elements:       []*Element{},
	}
}

// SetElements attaches elements and recomputes the credit total
func (u *Unit) SetElements(elements []*Element) {
	if elements == nil {
		elements = []*Element{}
	}
	u.Elements = elements
	u.Credits = 0
	for _, e := range elements {
		u.Credits += e.Credit
	}
}

// Title returns the label used in unit-level headers
func (u *Unit) Title() string {
	return u.Code + " - " + u.Designation
}

// Student represents a student enrolled for a jury semester
type Student struct {
	ID          int64      `json:"id"`
	Matricule   string     `json:"matricule"`
	LastName    string     `json:"nom"`
	MiddleName  string     `json:"post_nom"`
	FirstName   string     `json:"prenom"`
	Sex         string     `json:"sexe,omitempty"`
	Grade       string     `json:"grade,omitempty"`
	Nationality string     `json:"nationalite,omitempty"`
	BirthDate   *time.Time `json:"date_naissance,omitempty"`
	Phone       string     `json:"telephone,omitempty"`
	Email       string     `json:"e_mail,omitempty"`
	Address     string     `json:"adresse,omitempty"`
	Photo       string     `json:"photo,omitempty"`
}

// FullName joins the name parts that are present
func (s *Student) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.LastName, s.MiddleName, s.FirstName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// RawScore holds the marks recorded for one student on one element.
// A nil component means no mark was recorded.
type RawScore struct {
	Continuous *float64 `json:"cc,omitempty"`
	Exam       *float64 `json:"examen,omitempty"`
	Makeup     *float64 `json:"rattrapage,omitempty"`
}

// Principal returns continuous assessment + exam, false when both are missing
func (s *RawScore) Principal() (float64, bool) {
	if s == nil || (s.Continuous == nil && s.Exam == nil) {
		return 0, false
	}
	var total float64
	if s.Continuous != nil {
		total += *s.Continuous
	}
	if s.Exam != nil {
		total += *s.Exam
	}
	return total, true
}

// Retake returns the makeup mark, false when missing
func (s *RawScore) Retake() (float64, bool) {
	if s == nil || s.Makeup == nil {
		return 0, false
	}
	return *s.Makeup, true
}
