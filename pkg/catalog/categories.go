package catalog

import "github.com/gcpath/gcpath/pkg/bulletin"

// Category is the label a composed path is filed under. It is finer than the
// bulletin row: NIW shares the EB-2 row, the EB-1 subtypes share EB-1.
type Category string

const (
	CatEB1      Category = "EB-1"
	CatEB1A     Category = "EB-1A"
	CatEB1B     Category = "EB-1B"
	CatEB1C     Category = "EB-1C"
	CatEB2      Category = "EB-2"
	CatNIW      Category = "EB-2 NIW"
	CatEB3      Category = "EB-3"
	CatEB5      Category = "EB-5"
	CatMarriage Category = "Marriage"
)

// Chart returns the bulletin row the category waits in. Marriage to a
// citizen and EB-5 are not tracked in the employment charts.
func (c Category) Chart() (bulletin.Category, bool) {
	switch c {
	case CatEB1, CatEB1A, CatEB1B, CatEB1C:
		return bulletin.EB1, true
	case CatEB2, CatNIW:
		return bulletin.EB2, true
	case CatEB3:
		return bulletin.EB3, true
	}
	return "", false
}

// SelfPetition reports whether the category is filed without a sponsor.
func (c Category) SelfPetition() bool {
	return c == CatEB1A || c == CatNIW
}

// Risk is the fixed risk ordinal used to break ranking ties; lower is safer.
// Self-petitions rank by how hard the evidence is to assemble.
func (c Category) Risk() int {
	switch c {
	case CatMarriage:
		return 0
	case CatEB3:
		return 1
	case CatEB2:
		return 2
	case CatEB1, CatEB1C:
		return 3
	case CatEB1B:
		return 4
	case CatNIW:
		return 5
	case CatEB1A:
		return 6
	case CatEB5:
		return 7
	}
	return 8
}

// FromBulletin maps an existing priority date's bulletin category back to a
// path label.
func FromBulletin(bc bulletin.Category) Category {
	switch bc {
	case bulletin.EB1:
		return CatEB1
	case bulletin.EB2:
		return CatEB2
	}
	return CatEB3
}
